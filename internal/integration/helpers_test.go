package integration

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"rbr.dev/rbr/internal/actions"
	"rbr.dev/rbr/internal/git"
	"rbr.dev/rbr/internal/output"
	"rbr.dev/rbr/internal/runtime"
	"rbr.dev/rbr/internal/state"
	"rbr.dev/rbr/testhelpers"
)

// newRepo creates a scratch repository with an initial commit on master,
// skipping the test when no git binary is available.
func newRepo(t *testing.T) *testhelpers.GitRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	repo, err := testhelpers.NewGitRepo(t.TempDir())
	require.NoError(t, err)
	return repo
}

// newContext opens the repository fresh, the way each rbr invocation does.
// Tests build one context per simulated invocation so nothing is carried
// over in memory between a run and its continue/abort.
func newContext(t *testing.T, repo *testhelpers.GitRepo) *runtime.Context {
	t.Helper()

	ctx := context.Background()
	r, err := git.OpenRepository(repo.Dir)
	require.NoError(t, err)
	gitDir, err := r.GitDir(ctx)
	require.NoError(t, err)

	return &runtime.Context{
		Context:  ctx,
		Runner:   r,
		Store:    state.NewStore(gitDir),
		Splog:    output.NewSplog(false),
		RepoRoot: r.Root(),
	}
}

func rbrRun(t *testing.T, repo *testhelpers.GitRepo) error {
	t.Helper()
	return actions.RunAction(newContext(t, repo), actions.RunOptions{})
}

func rbrContinue(t *testing.T, repo *testhelpers.GitRepo) error {
	t.Helper()
	return actions.ContinueAction(newContext(t, repo))
}

func rbrSkip(t *testing.T, repo *testhelpers.GitRepo) error {
	t.Helper()
	return actions.SkipAction(newContext(t, repo))
}

func rbrAbort(t *testing.T, repo *testhelpers.GitRepo) error {
	t.Helper()
	return actions.AbortAction(newContext(t, repo), actions.AbortOptions{Force: true})
}

// treeRepo builds:
//
//	master <- a <- b <- c
//	            <- d
//
// with master, a, and b advanced after their dependents branched off, and
// leaves a checked out. No commits conflict.
func treeRepo(t *testing.T) *testhelpers.GitRepo {
	t.Helper()
	repo := newRepo(t)

	require.NoError(t, repo.CreateTrackedBranch("a"))
	require.NoError(t, repo.Commit("a"))
	require.NoError(t, repo.CreateTrackedBranch("b"))
	require.NoError(t, repo.Commit("b"))
	require.NoError(t, repo.CreateTrackedBranch("c"))
	require.NoError(t, repo.Commit("c"))
	require.NoError(t, repo.CheckoutBranch("a"))
	require.NoError(t, repo.CreateTrackedBranch("d"))
	require.NoError(t, repo.Commit("d"))

	require.NoError(t, repo.CheckoutBranch("master"))
	require.NoError(t, repo.Commit("master2"))
	require.NoError(t, repo.CheckoutBranch("a"))
	require.NoError(t, repo.Commit("a2"))
	require.NoError(t, repo.CheckoutBranch("b"))
	require.NoError(t, repo.Commit("b2"))
	require.NoError(t, repo.CheckoutBranch("a"))
	return repo
}

// conflictedRepo builds:
//
//	master <- a <- b <- ab <- c
//
// where branch ab and a's extra commit both write the file "a", so
// replaying ab conflicts. Leaves a checked out.
func conflictedRepo(t *testing.T) *testhelpers.GitRepo {
	t.Helper()
	repo := newRepo(t)

	require.NoError(t, repo.CreateTrackedBranch("a"))
	require.NoError(t, repo.Commit("a"))
	require.NoError(t, repo.CreateTrackedBranch("b"))
	require.NoError(t, repo.Commit("b"))
	require.NoError(t, repo.CreateTrackedBranch("ab"))
	require.NoError(t, repo.Commit("ab", "a"))
	require.NoError(t, repo.CreateTrackedBranch("c"))
	require.NoError(t, repo.Commit("c"))

	require.NoError(t, repo.CheckoutBranch("master"))
	require.NoError(t, repo.Commit("master2"))
	require.NoError(t, repo.CheckoutBranch("a"))
	require.NoError(t, repo.Commit("aa", "a"))
	return repo
}

// assertUpdated asserts every branch except master is atop its upstream.
func assertUpdated(t *testing.T, repo *testhelpers.GitRepo, branches ...string) {
	t.Helper()
	for _, branch := range branches {
		testhelpers.AssertAtop(t, repo, branch+"@{u}", branch)
	}
}
