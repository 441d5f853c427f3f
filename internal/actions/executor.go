package actions

import (
	"fmt"

	rbrerrors "rbr.dev/rbr/internal/errors"
	"rbr.dev/rbr/internal/git"
	"rbr.dev/rbr/internal/output"
	"rbr.dev/rbr/internal/runtime"
	"rbr.dev/rbr/internal/state"
)

// executeQueue processes queue items from the current cursor onward. Each
// step replays the branch's unique commits (BaseTip..branch) onto its
// upstream's tip as of now, so downstream branches observe upstream
// updates made earlier in the same run. The state record is saved after
// every completed item; on conflict the pause flag is persisted and
// control returns to the caller.
func executeQueue(ctx *runtime.Context, st *state.RunState) error {
	for !st.Done() {
		item := st.CurrentItem()

		onto, err := ctx.Runner.BranchTip(ctx.Context, item.Upstream)
		if err != nil {
			return err
		}
		tip, err := ctx.Runner.BranchTip(ctx.Context, item.Branch)
		if err != nil {
			return err
		}

		atop, err := ctx.Runner.IsAncestor(onto, tip)
		if err != nil {
			return err
		}
		if atop {
			ctx.Splog.Debug("%s is already atop %s.",
				output.ColorBranchName(item.Branch, item.Branch == st.OriginalBranch),
				output.ColorBranchName(item.Upstream, false))
			if err := advance(ctx, st); err != nil {
				return err
			}
			continue
		}

		result, err := ctx.Runner.Rebase(ctx.Context, item.Branch, onto, item.BaseTip)
		if err != nil {
			// Engine failure: the step is not marked complete, so the
			// state record stays valid for a retry or an abort.
			return err
		}
		if result == git.RebaseConflict {
			st.Paused = true
			if err := ctx.Store.Save(st); err != nil {
				return err
			}
			printConflictStatus(ctx, item.Branch, item.Upstream)
			return rbrerrors.NewConflictError(item.Branch)
		}

		ctx.Splog.Info("Rebased %s on %s.",
			output.ColorBranchName(item.Branch, item.Branch == st.OriginalBranch),
			output.ColorBranchName(item.Upstream, false))
		if err := advance(ctx, st); err != nil {
			return err
		}
	}

	return completeRun(ctx, st)
}

// advance marks the current item complete and persists the cursor.
func advance(ctx *runtime.Context, st *state.RunState) error {
	st.Current++
	st.Paused = false
	return ctx.Store.Save(st)
}

// completeRun restores the original checkout and deletes the state record.
func completeRun(ctx *runtime.Context, st *state.RunState) error {
	if err := ctx.Runner.CheckoutBranch(ctx.Context, st.OriginalBranch); err != nil {
		return fmt.Errorf("failed to return to %s: %w", st.OriginalBranch, err)
	}
	if err := ctx.Store.Clear(); err != nil {
		return err
	}
	ctx.Splog.Info("All branches are atop their upstreams.")
	return nil
}
