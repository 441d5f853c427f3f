package testhelpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must panics if err is not nil, otherwise returns the value. Useful for
// test setup code where errors should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// AssertAtop asserts that branch contains upstream's tip, i.e. the branch
// has been rebased onto its upstream.
func AssertAtop(t *testing.T, repo *GitRepo, upstream, branch string) {
	t.Helper()

	out, err := repo.RunGitCommandAndGetOutput("rev-list", "--max-count=1", upstream, "--not", branch, "--")
	require.NoError(t, err, "rev-list %s --not %s", upstream, branch)
	require.Empty(t, out, "%s should be atop %s", branch, upstream)
}

// AssertLinear asserts that the history from..to is exactly the given
// commit subjects in order, with no merge commits.
func AssertLinear(t *testing.T, repo *GitRepo, from, to, subjects string) {
	t.Helper()

	merges, err := repo.RunGitCommandAndGetOutput("log", "--merges", "--format=%H", from+".."+to)
	require.NoError(t, err)
	require.Empty(t, merges, "history %s..%s should contain no merges", from, to)

	out, err := repo.RunGitCommandAndGetOutput("log", "--reverse", "--format=%s", from+".."+to)
	require.NoError(t, err)
	actual := strings.Join(strings.Fields(out), " ")
	require.Equal(t, subjects, actual, "history %s..%s", from, to)
}

// AssertBranchValues asserts that every local branch points exactly where
// expected records.
func AssertBranchValues(t *testing.T, repo *GitRepo, expected map[string]string) {
	t.Helper()

	actual, err := repo.BranchValues()
	require.NoError(t, err)
	require.Equal(t, expected, actual)
}
