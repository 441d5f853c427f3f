// Package actions implements the rbr operations: starting a run, resuming
// or skipping past a conflict, and aborting with a full rollback.
package actions

import (
	"fmt"

	rbrerrors "rbr.dev/rbr/internal/errors"
	"rbr.dev/rbr/internal/git"
	"rbr.dev/rbr/internal/graph"
	"rbr.dev/rbr/internal/runtime"
	"rbr.dev/rbr/internal/state"
)

// RunOptions contains options for starting a run
type RunOptions struct {
	Verbose bool
}

// RunAction starts a new run: it inspects the local branches, validates
// the dependency forest, schedules the queue bottom-up, snapshots every
// tip, persists the run state, and executes the queue. Nothing is mutated
// and no state is created unless validation passes.
func RunAction(ctx *runtime.Context, opts RunOptions) error {
	existing, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("a previous run is unfinished; resolve it with 'git rbr --continue', 'git rbr --skip', or 'git rbr --abort': %w",
			rbrerrors.ErrRunInProgress)
	}
	if ctx.Runner.IsRebaseInProgress(ctx.Context) {
		return fmt.Errorf("a rebase is already in progress; finish or abort it first")
	}

	current, err := ctx.Runner.CurrentBranch()
	if err != nil {
		return fmt.Errorf("%w: %v", rbrerrors.ErrNotOnBranch, err)
	}

	g, err := buildGraph(ctx.Runner, current)
	if err != nil {
		return err
	}

	queue, err := graph.Schedule(g, ctx.Runner.IsAncestor)
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		ctx.Splog.Info("No branches to rebase.")
		return nil
	}

	if opts.Verbose {
		ctx.Splog.PrintPlan(g.Root, queue)
	}

	st := &state.RunState{
		Version:        state.Version,
		OriginalBranch: current,
		Root:           g.Root,
		Queue:          toStateQueue(queue),
		Snapshot:       g.Tips,
		Current:        0,
	}
	if err := ctx.Store.Save(st); err != nil {
		return err
	}

	return executeQueue(ctx, st)
}

// buildGraph runs the ref inspector and the graph builder: local branches
// with tips and upstreams, plus ref kinds for every upstream name that is
// not itself a local branch.
func buildGraph(runner git.Runner, current string) (*graph.Graph, error) {
	branches, err := runner.ListLocalBranches()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate branches: %w", err)
	}

	local := make(map[string]bool, len(branches))
	for _, b := range branches {
		local[b.Name] = true
	}

	kinds := make(map[string]git.RefKind)
	for _, b := range branches {
		if b.Upstream == "" || local[b.Upstream] {
			continue
		}
		if _, done := kinds[b.Upstream]; done {
			continue
		}
		kind, err := runner.ResolveRefKind(b.Upstream)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve upstream %s: %w", b.Upstream, err)
		}
		kinds[b.Upstream] = kind
	}

	return graph.Build(branches, kinds, current)
}

func toStateQueue(queue []graph.WorkItem) []state.WorkItem {
	items := make([]state.WorkItem, len(queue))
	for i, item := range queue {
		items[i] = state.WorkItem{
			Branch:   item.Branch,
			Upstream: item.Upstream,
			BaseTip:  item.BaseTip,
		}
	}
	return items
}
