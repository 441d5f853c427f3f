package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rbr.dev/rbr/internal/actions"
	rbrerrors "rbr.dev/rbr/internal/errors"
	"rbr.dev/rbr/internal/state"
)

func TestConflictPause(t *testing.T) {
	f := stackedRunner()
	f.conflicts["b"] = 1
	ctx := newTestContext(t, f)

	err := actions.RunAction(ctx, actions.RunOptions{})
	require.ErrorIs(t, err, rbrerrors.ErrRebaseConflict)
	require.Contains(t, err.Error(), "git rbr --continue")

	// a completed, b conflicted, nothing after b was attempted.
	require.Equal(t, []string{"a", "b"}, rebasedBranches(f))
	require.True(t, f.IsRebaseInProgress(ctx.Context))

	st, err := ctx.Store.Load()
	require.NoError(t, err)
	require.NotNil(t, st)
	require.True(t, st.Paused)
	require.Equal(t, "b", st.CurrentItem().Branch)
}

func TestContinueAction(t *testing.T) {
	t.Run("finishes the paused branch and the rest of the queue", func(t *testing.T) {
		f := stackedRunner()
		f.conflicts["b"] = 1
		ctx := newTestContext(t, f)

		require.ErrorIs(t, actions.RunAction(ctx, actions.RunOptions{}), rbrerrors.ErrRebaseConflict)
		require.NoError(t, actions.ContinueAction(ctx))

		require.Equal(t, 1, f.continues)
		require.Equal(t, []string{"a", "b", "c", "d"}, rebasedBranches(f))
		require.Equal(t, "a", f.current)
		require.False(t, ctx.Store.Exists())

		atop, err := f.IsAncestor(f.branches["a"].tip, f.branches["b"].tip)
		require.NoError(t, err)
		require.True(t, atop)
	})

	t.Run("stays paused when the conflict persists", func(t *testing.T) {
		f := stackedRunner()
		f.conflicts["b"] = 2
		ctx := newTestContext(t, f)

		require.ErrorIs(t, actions.RunAction(ctx, actions.RunOptions{}), rbrerrors.ErrRebaseConflict)

		err := actions.ContinueAction(ctx)
		require.ErrorIs(t, err, rbrerrors.ErrRebaseConflict)

		st, err := ctx.Store.Load()
		require.NoError(t, err)
		require.True(t, st.Paused)
		require.Equal(t, "b", st.CurrentItem().Branch)

		require.NoError(t, actions.ContinueAction(ctx))
		require.False(t, ctx.Store.Exists())
	})

	t.Run("errors when no run is in progress", func(t *testing.T) {
		ctx := newTestContext(t, stackedRunner())

		err := actions.ContinueAction(ctx)
		require.ErrorIs(t, err, rbrerrors.ErrNoRunInProgress)
	})

	t.Run("errors when the state is not paused on a rebase", func(t *testing.T) {
		f := stackedRunner()
		ctx := newTestContext(t, f)
		require.NoError(t, ctx.Store.Save(&state.RunState{
			Version: state.Version,
			Queue:   []state.WorkItem{{Branch: "a", Upstream: "master", BaseTip: "m2"}},
		}))

		err := actions.ContinueAction(ctx)
		require.Error(t, err)
		require.Contains(t, err.Error(), "no rebase is paused")
	})
}

func TestSkipAction(t *testing.T) {
	t.Run("drops the conflicting commits and carries on", func(t *testing.T) {
		f := stackedRunner()
		f.conflicts["b"] = 1
		ctx := newTestContext(t, f)

		require.ErrorIs(t, actions.RunAction(ctx, actions.RunOptions{}), rbrerrors.ErrRebaseConflict)
		require.NoError(t, actions.SkipAction(ctx))

		require.Equal(t, 1, f.skips)
		// b collapses onto a's rebased tip; c is still replayed, now on b.
		require.Equal(t, f.branches["a"].tip, f.branches["b"].tip)
		require.Equal(t, []string{"a", "b", "c", "d"}, rebasedBranches(f))
		require.False(t, ctx.Store.Exists())
		require.Equal(t, "a", f.current)
	})

	t.Run("errors when no run is in progress", func(t *testing.T) {
		ctx := newTestContext(t, stackedRunner())

		err := actions.SkipAction(ctx)
		require.ErrorIs(t, err, rbrerrors.ErrNoRunInProgress)
	})
}
