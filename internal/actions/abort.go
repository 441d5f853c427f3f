package actions

import (
	"fmt"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	rbrerrors "rbr.dev/rbr/internal/errors"
	"rbr.dev/rbr/internal/runtime"
)

// AbortOptions contains options for the abort command
type AbortOptions struct {
	// Force skips the confirmation prompt
	Force bool
}

// AbortAction cancels a paused run: it aborts the in-flight rebase,
// restores every snapshotted branch to its exact pre-run tip, returns to
// the original checkout, and deletes the state record. Afterwards the
// branch-tip map is identical to before the run started.
func AbortAction(ctx *runtime.Context, opts AbortOptions) error {
	st, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("nothing to abort: %w", rbrerrors.ErrNoRunInProgress)
	}

	if !opts.Force && isatty.IsTerminal(os.Stdin.Fd()) {
		confirmed := false
		prompt := &survey.Confirm{
			Message: "Abort the current run and roll every branch back to its pre-run state?",
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
		if !confirmed {
			ctx.Splog.Info("Abort canceled.")
			return nil
		}
	}

	if ctx.Runner.IsRebaseInProgress(ctx.Context) {
		ctx.Splog.Debug("Aborting in-progress rebase...")
		if err := ctx.Runner.RebaseAbort(ctx.Context); err != nil {
			return err
		}
	}

	// Detach HEAD so branch refs can be moved even while one of them is
	// checked out, then restore every tip recorded in the snapshot.
	if err := ctx.Runner.CheckoutDetached(ctx.Context, "HEAD"); err != nil {
		return err
	}

	names := make([]string, 0, len(st.Snapshot))
	for name := range st.Snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tip, err := ctx.Runner.BranchTip(ctx.Context, name)
		if err != nil {
			return err
		}
		if tip == st.Snapshot[name] {
			continue
		}
		if err := ctx.Runner.UpdateBranchRef(ctx.Context, name, st.Snapshot[name]); err != nil {
			return err
		}
		ctx.Splog.Debug("Restored %s to %s.", name, st.Snapshot[name])
	}

	if err := ctx.Runner.CheckoutBranch(ctx.Context, st.OriginalBranch); err != nil {
		return err
	}
	if err := ctx.Store.Clear(); err != nil {
		return err
	}

	ctx.Splog.Info("Aborted; every branch restored to its pre-run state.")
	return nil
}
