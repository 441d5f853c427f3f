package actions

import (
	"rbr.dev/rbr/internal/output"
	"rbr.dev/rbr/internal/runtime"
)

// printConflictStatus reports a conflict pause: which branch conflicted,
// the unresolved paths, and the exact commands to resume, skip, or abort.
func printConflictStatus(ctx *runtime.Context, branchName, upstream string) {
	splog := ctx.Splog
	splog.Warn("Hit conflict rebasing %s on %s.",
		output.ColorBranchName(branchName, false),
		output.ColorBranchName(upstream, false))

	if files, err := ctx.Runner.UnmergedFiles(ctx.Context); err == nil && len(files) > 0 {
		splog.Info("Unmerged paths:")
		for _, file := range files {
			splog.Info("  %s", file)
		}
	}

	splog.Newline()
	splog.Info("Resolve the conflicts and stage the files, then run 'git rbr --continue'.")
	splog.Info("To drop the conflicting commit instead, run 'git rbr --skip'.")
	splog.Info("To roll every branch back to its pre-run state, run 'git rbr --abort'.")
}
