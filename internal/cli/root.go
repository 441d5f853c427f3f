// Package cli wires the command-line surface to the actions.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rbr.dev/rbr/internal/actions"
	"rbr.dev/rbr/internal/runtime"
)

// NewRootCmd creates the root cobra command. rbr is a single command with
// mode flags, matching git's own rebase surface: a plain invocation starts
// a run, --continue/--skip resume a paused one, --abort rolls it back.
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		verbose      bool
		continueRun  bool
		skipCommit   bool
		abortRun     bool
		forceConfirm bool
	)

	cmd := &cobra.Command{
		Use:   "git-rbr",
		Short: "Recursively rebase every local branch onto its upstream",
		Long: `git-rbr keeps a tree of dependent branches rebased onto their upstreams
in dependency order. It walks every local branch bottom-up, replaying each
branch's commits onto its upstream's updated tip, so a change at the base
of a stack cascades through all of its dependents in one invocation.

When a rebase hits a conflict the run pauses; resolve the conflict and run
'git rbr --continue' (or --skip / --abort) to finish the run later.`,
		Version:       fmt.Sprintf("%s (%s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(_ *cobra.Command, _ []string) error {
			modes := 0
			for _, set := range []bool{continueRun, skipCommit, abortRun} {
				if set {
					modes++
				}
			}
			if modes > 1 {
				return fmt.Errorf("only one of --continue, --skip, or --abort can be specified")
			}

			ctx, err := runtime.GetContext(verbose)
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			switch {
			case continueRun:
				return actions.ContinueAction(ctx)
			case skipCommit:
				return actions.SkipAction(ctx)
			case abortRun:
				return actions.AbortAction(ctx, actions.AbortOptions{Force: forceConfirm})
			default:
				return actions.RunAction(ctx, actions.RunOptions{Verbose: verbose})
			}
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the rebase plan and per-branch progress.")
	cmd.Flags().BoolVar(&continueRun, "continue", false, "Resume the run paused by a rebase conflict.")
	cmd.Flags().BoolVar(&skipCommit, "skip", false, "Resume the paused run, dropping the conflicting commit.")
	cmd.Flags().BoolVar(&abortRun, "abort", false, "Cancel the paused run and restore every branch to its pre-run state.")
	cmd.Flags().BoolVarP(&forceConfirm, "force", "f", false, "Do not prompt for confirmation on --abort.")

	return cmd
}
