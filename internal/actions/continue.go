package actions

import (
	"fmt"

	rbrerrors "rbr.dev/rbr/internal/errors"
	"rbr.dev/rbr/internal/git"
	"rbr.dev/rbr/internal/output"
	"rbr.dev/rbr/internal/runtime"
)

// ContinueAction resumes a run paused on a conflict, assuming the conflict
// markers have been resolved and staged externally.
func ContinueAction(ctx *runtime.Context) error {
	return resume(ctx, false)
}

// SkipAction resumes a run paused on a conflict by dropping the currently
// conflicting commit.
func SkipAction(ctx *runtime.Context) error {
	return resume(ctx, true)
}

func resume(ctx *runtime.Context, skip bool) error {
	st, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("nothing to resume: %w", rbrerrors.ErrNoRunInProgress)
	}
	if !st.Paused || !ctx.Runner.IsRebaseInProgress(ctx.Context) {
		return fmt.Errorf("run state exists but no rebase is paused; run 'git rbr --abort' to roll back")
	}

	item := st.CurrentItem()
	if item == nil {
		return fmt.Errorf("run state is paused past the end of the queue; run 'git rbr --abort' to roll back")
	}

	var result git.RebaseResult
	if skip {
		result, err = ctx.Runner.RebaseSkip(ctx.Context)
	} else {
		result, err = ctx.Runner.RebaseContinue(ctx.Context)
	}
	if err != nil {
		return err
	}
	if result == git.RebaseConflict {
		// Conflict on the same or a later commit of the same branch;
		// the cursor does not move.
		if err := ctx.Store.Save(st); err != nil {
			return err
		}
		printConflictStatus(ctx, item.Branch, item.Upstream)
		return rbrerrors.NewConflictError(item.Branch)
	}

	ctx.Splog.Info("Resolved rebase conflict for %s.",
		output.ColorBranchName(item.Branch, item.Branch == st.OriginalBranch))

	if err := advance(ctx, st); err != nil {
		return err
	}
	return executeQueue(ctx, st)
}
