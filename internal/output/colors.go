package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

var (
	branchStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	currentBranchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// ColorBranchName colors a branch name, bold when it is the current branch
func ColorBranchName(branchName string, isCurrent bool) string {
	if !colorEnabled {
		return branchName
	}
	if isCurrent {
		return currentBranchStyle.Render(branchName)
	}
	return branchStyle.Render(branchName)
}

// ColorError colors error text red
func ColorError(text string) string {
	if !colorEnabled {
		return text
	}
	return errorStyle.Render(text)
}
