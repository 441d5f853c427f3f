package graph

// WorkItem is one scheduled rebase step. BaseTip is the upstream's tip as
// it was when the run was scheduled; the executor replays the branch's
// unique commits (BaseTip..branch) onto the upstream's tip at execution
// time, which may have moved due to cascading.
type WorkItem struct {
	Branch   string
	Upstream string
	BaseTip  string
	// Atop records whether the branch already contained its upstream's
	// tip at scheduling time. Such branches stay in the queue (their
	// upstream may still move mid-run) but need no replay if it does not.
	Atop bool
}

// AncestryChecker reports whether ancestor is reachable from descendant.
type AncestryChecker func(ancestor, descendant string) (bool, error)

// Schedule orders the managed branches bottom-up: every branch appears
// after its upstream, and ties among siblings are broken by branch name so
// the order is deterministic for a given forest.
func Schedule(g *Graph, isAncestor AncestryChecker) ([]WorkItem, error) {
	queue := make([]WorkItem, 0, len(g.Upstreams))

	var visit func(upstream string) error
	visit = func(upstream string) error {
		for _, branch := range g.Children(upstream) {
			atop, err := isAncestor(g.Tips[upstream], g.Tips[branch])
			if err != nil {
				return err
			}
			queue = append(queue, WorkItem{
				Branch:   branch,
				Upstream: upstream,
				BaseTip:  g.Tips[upstream],
				Atop:     atop,
			})
			if err := visit(branch); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(g.Root); err != nil {
		return nil, err
	}
	return queue, nil
}
