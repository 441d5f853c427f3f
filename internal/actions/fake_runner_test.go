package actions_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"rbr.dev/rbr/internal/git"
	"rbr.dev/rbr/internal/output"
	"rbr.dev/rbr/internal/runtime"
	"rbr.dev/rbr/internal/state"
)

// fakeRunner is an in-memory git.Runner. Commits form a parent DAG, each
// branch has a tip and an upstream, and a rebase replays the branch as a
// single synthesized commit on top of the requested base. Conflicts are
// injected per branch: the rebase pauses that many times before it is
// allowed to finish.
type fakeRunner struct {
	branches map[string]*fakeBranch
	kinds    map[string]git.RefKind
	parents  map[string][]string
	current  string
	detached bool

	conflicts map[string]int
	rebasing  *pendingRebase
	seq       int

	rebases   []rebaseCall
	continues int
	skips     int
}

type fakeBranch struct {
	tip      string
	upstream string
}

type pendingRebase struct {
	branch string
	onto   string
}

type rebaseCall struct {
	branch, onto, from string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		branches:  make(map[string]*fakeBranch),
		kinds:     make(map[string]git.RefKind),
		parents:   make(map[string][]string),
		conflicts: make(map[string]int),
	}
}

func (f *fakeRunner) commit(sha string, parents ...string) {
	f.parents[sha] = parents
}

func (f *fakeRunner) branch(name, tip, upstream string) {
	f.branches[name] = &fakeBranch{tip: tip, upstream: upstream}
}

// tips returns a copy of the current branch-tip map.
func (f *fakeRunner) tips() map[string]string {
	out := make(map[string]string, len(f.branches))
	for name, b := range f.branches {
		out[name] = b.tip
	}
	return out
}

func (f *fakeRunner) apply(branch, onto string) {
	f.seq++
	sha := fmt.Sprintf("%s-r%d", branch, f.seq)
	f.parents[sha] = []string{onto}
	f.branches[branch].tip = sha
}

func (f *fakeRunner) ListLocalBranches() ([]git.BranchInfo, error) {
	names := make([]string, 0, len(f.branches))
	for name := range f.branches {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]git.BranchInfo, 0, len(names))
	for _, name := range names {
		b := f.branches[name]
		infos = append(infos, git.BranchInfo{Name: name, Tip: b.tip, Upstream: b.upstream})
	}
	return infos, nil
}

func (f *fakeRunner) ResolveRefKind(name string) (git.RefKind, error) {
	if _, ok := f.branches[name]; ok {
		return git.RefBranch, nil
	}
	if kind, ok := f.kinds[name]; ok {
		return kind, nil
	}
	return git.RefMissing, nil
}

func (f *fakeRunner) CurrentBranch() (string, error) {
	if f.detached || f.current == "" {
		return "", fmt.Errorf("HEAD is detached")
	}
	return f.current, nil
}

func (f *fakeRunner) BranchTip(_ context.Context, name string) (string, error) {
	b, ok := f.branches[name]
	if !ok {
		return "", fmt.Errorf("no such branch %s", name)
	}
	return b.tip, nil
}

func (f *fakeRunner) IsAncestor(ancestor, descendant string) (bool, error) {
	queue := []string{descendant}
	seen := map[string]bool{}
	for len(queue) > 0 {
		sha := queue[0]
		queue = queue[1:]
		if sha == ancestor {
			return true, nil
		}
		if seen[sha] {
			continue
		}
		seen[sha] = true
		queue = append(queue, f.parents[sha]...)
	}
	return false, nil
}

func (f *fakeRunner) Rebase(_ context.Context, branchName, onto, from string) (git.RebaseResult, error) {
	f.rebases = append(f.rebases, rebaseCall{branch: branchName, onto: onto, from: from})
	if f.conflicts[branchName] > 0 {
		f.conflicts[branchName]--
		f.rebasing = &pendingRebase{branch: branchName, onto: onto}
		return git.RebaseConflict, nil
	}
	f.apply(branchName, onto)
	return git.RebaseDone, nil
}

func (f *fakeRunner) RebaseContinue(_ context.Context) (git.RebaseResult, error) {
	if f.rebasing == nil {
		return git.RebaseDone, fmt.Errorf("no rebase in progress")
	}
	f.continues++
	if f.conflicts[f.rebasing.branch] > 0 {
		f.conflicts[f.rebasing.branch]--
		return git.RebaseConflict, nil
	}
	f.apply(f.rebasing.branch, f.rebasing.onto)
	f.rebasing = nil
	return git.RebaseDone, nil
}

func (f *fakeRunner) RebaseSkip(_ context.Context) (git.RebaseResult, error) {
	if f.rebasing == nil {
		return git.RebaseDone, fmt.Errorf("no rebase in progress")
	}
	f.skips++
	f.branches[f.rebasing.branch].tip = f.rebasing.onto
	f.rebasing = nil
	return git.RebaseDone, nil
}

func (f *fakeRunner) RebaseAbort(_ context.Context) error {
	if f.rebasing == nil {
		return fmt.Errorf("no rebase in progress")
	}
	f.rebasing = nil
	return nil
}

func (f *fakeRunner) IsRebaseInProgress(_ context.Context) bool {
	return f.rebasing != nil
}

func (f *fakeRunner) UnmergedFiles(_ context.Context) ([]string, error) {
	if f.rebasing != nil {
		return []string{"a"}, nil
	}
	return nil, nil
}

func (f *fakeRunner) UpdateBranchRef(_ context.Context, name, sha string) error {
	b, ok := f.branches[name]
	if !ok {
		return fmt.Errorf("no such branch %s", name)
	}
	b.tip = sha
	return nil
}

func (f *fakeRunner) CheckoutBranch(_ context.Context, name string) error {
	if _, ok := f.branches[name]; !ok {
		return fmt.Errorf("no such branch %s", name)
	}
	f.current = name
	f.detached = false
	return nil
}

func (f *fakeRunner) CheckoutDetached(_ context.Context, _ string) error {
	f.detached = true
	return nil
}

var _ git.Runner = (*fakeRunner)(nil)

// stackedRunner builds the standard fixture: master <- a <- b <- c plus
// a <- d, where master and a each advanced after their dependents branched
// off. Every managed branch therefore needs a rebase.
func stackedRunner() *fakeRunner {
	f := newFakeRunner()
	f.commit("m1")
	f.commit("a1", "m1")
	f.commit("b1", "a1")
	f.commit("b2", "b1")
	f.commit("c1", "b2")
	f.commit("d1", "a1")
	f.commit("m2", "m1")
	f.commit("a2", "a1")

	f.branch("master", "m2", "")
	f.branch("a", "a2", "master")
	f.branch("b", "b2", "a")
	f.branch("c", "c1", "b")
	f.branch("d", "d1", "a")
	f.current = "a"
	return f
}

func newTestContext(t *testing.T, runner git.Runner) *runtime.Context {
	t.Helper()
	return &runtime.Context{
		Context: context.Background(),
		Runner:  runner,
		Store:   state.NewStore(t.TempDir()),
		Splog:   output.NewSplog(false),
	}
}

func rebasedBranches(f *fakeRunner) []string {
	names := make([]string, len(f.rebases))
	for i, call := range f.rebases {
		names[i] = call.branch
	}
	return names
}
