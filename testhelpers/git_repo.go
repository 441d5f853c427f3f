// Package testhelpers provides Git repository helpers and custom
// assertions for integration tests that drive a real git binary.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo represents a Git repository for testing purposes.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory
// with "master" as the initial branch and a first commit so branches can
// be created immediately.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "-c", "core.autocrlf=false", "-c", "core.fileMode=false", "init", dir, "-b", "master")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	// Required for commits.
	if err := repo.RunGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.RunGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	if err := repo.RunGitCommand("config", "commit.gpgsign", "false"); err != nil {
		return nil, err
	}

	if err := repo.Commit("master"); err != nil {
		return nil, err
	}
	return repo, nil
}

// RunGitCommand executes a git command in the repository directory.
// GIT_CONFIG_GLOBAL=/dev/null keeps the user's global config out of tests.
func (r *GitRepo) RunGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") != "" {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return nil
}

// RunGitCommandAndGetOutput executes a git command and returns its
// trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Commit writes each named file with the message as its content, stages
// everything, and commits. With no files the message itself is the file
// name, so each commit touches a file named after it.
func (r *GitRepo) Commit(message string, files ...string) error {
	if len(files) == 0 {
		files = []string{message}
	}
	for _, file := range files {
		path := filepath.Join(r.Dir, file)
		if err := os.WriteFile(path, []byte(message+"\n"), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}
	}
	if err := r.RunGitCommand("add", "."); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "-q", "-m", message)
}

// CreateTrackedBranch creates and checks out a branch whose upstream is
// the branch it forked from.
func (r *GitRepo) CreateTrackedBranch(name string) error {
	return r.RunGitCommand("checkout", "-q", "-t", "-b", name)
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", "-q", name)
}

// SetUpstream points branch's upstream at the given local ref. The ref
// does not have to be a branch; tags and missing refs are accepted so
// misconfigurations can be staged.
func (r *GitRepo) SetUpstream(branch, ref string) error {
	if err := r.RunGitCommand("config", "branch."+branch+".remote", "."); err != nil {
		return err
	}
	return r.RunGitCommand("config", "branch."+branch+".merge", ref)
}

// UnsetUpstream removes branch's upstream configuration.
func (r *GitRepo) UnsetUpstream(branch string) error {
	if err := r.RunGitCommand("config", "--unset", "branch."+branch+".remote"); err != nil {
		return err
	}
	return r.RunGitCommand("config", "--unset", "branch."+branch+".merge")
}

// BranchTip returns the commit the branch points at.
func (r *GitRepo) BranchTip(name string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", "refs/heads/"+name)
}

// BranchValues returns the tip of every local branch keyed by name.
func (r *GitRepo) BranchValues() (map[string]string, error) {
	out, err := r.RunGitCommandAndGetOutput("for-each-ref", "refs/heads/", "--format=%(refname:short) %(objectname)")
	if err != nil {
		return nil, err
	}
	values := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			values[fields[0]] = fields[1]
		}
	}
	return values, nil
}

// CurrentBranch returns the checked-out branch name.
func (r *GitRepo) CurrentBranch() (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", "--abbrev-ref", "HEAD")
}

// StageAll stages every change, conflict markers included. Useful for
// "resolving" a staged conflict in tests.
func (r *GitRepo) StageAll() error {
	return r.RunGitCommand("add", "-u")
}
