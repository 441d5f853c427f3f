// Package graph assembles local branches into a dependency forest keyed by
// upstream pointers and validates the configuration before any mutation
// happens. It is pure: callers inject the branch list and ref kinds so the
// logic is testable without a repository.
package graph

import (
	"fmt"
	"sort"

	rbrerrors "rbr.dev/rbr/internal/errors"
	"rbr.dev/rbr/internal/git"
)

// Graph is the validated dependency forest for one run. The root is the
// terminus of the current branch's upstream chain; it is never rebased.
// Every other local branch is managed.
type Graph struct {
	// Root is the designated root branch (e.g. "master")
	Root string
	// Tips maps every local branch, including the root, to its tip commit
	Tips map[string]string
	// Upstreams maps each managed branch to its upstream branch
	Upstreams map[string]string
	// children maps a branch to its managed dependents, sorted by name
	children map[string][]string
}

// Children returns the managed branches whose upstream is name, in
// lexical order.
func (g *Graph) Children(name string) []string {
	return g.children[name]
}

// ManagedBranches returns all managed branch names in lexical order.
func (g *Graph) ManagedBranches() []string {
	names := make([]string, 0, len(g.Upstreams))
	for name := range g.Upstreams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build validates the branch configuration and assembles the dependency
// forest. kinds must classify every upstream name that is not itself a
// local branch. current is the checked-out branch the run started from.
//
// Validation is eager and exhaustive: the first failing class wins, and
// every branch violating that class is reported together. The classes, in
// order: upstreams that are not branches, branches with no upstream,
// upstreams pointing outside the local branches, and upstream cycles.
func Build(branches []git.BranchInfo, kinds map[string]git.RefKind, current string) (*Graph, error) {
	byName := make(map[string]git.BranchInfo, len(branches))
	tips := make(map[string]string, len(branches))
	for _, b := range branches {
		byName[b.Name] = b
		tips[b.Name] = b.Tip
	}

	if _, ok := byName[current]; !ok {
		return nil, fmt.Errorf("current branch %s is not a local branch", current)
	}

	// Class 1: upstreams naming a resolvable ref that is not a branch.
	var badKindBranches, badKindRefs []string
	for _, b := range branches {
		if b.Upstream == "" {
			continue
		}
		if _, ok := byName[b.Upstream]; ok {
			continue
		}
		switch kinds[b.Upstream] {
		case git.RefTag, git.RefOther:
			badKindBranches = append(badKindBranches, b.Name)
			badKindRefs = append(badKindRefs, b.Upstream)
		}
	}
	if len(badKindBranches) > 0 {
		return nil, rbrerrors.NewValidationError(rbrerrors.InvalidUpstreamKind, badKindBranches, dedupe(badKindRefs))
	}

	// The root is found by walking the current branch's upstream chain.
	// A cycle on that chain means no root can be designated at all, so
	// the cycle is reported directly.
	root, cycle := findRoot(byName, current)
	if len(cycle) > 0 {
		return nil, rbrerrors.NewValidationError(rbrerrors.UpstreamCycle, cycle, nil)
	}

	// Class 2: managed branches with no upstream configured.
	var missing []string
	for _, b := range branches {
		if b.Name != root && b.Upstream == "" {
			missing = append(missing, b.Name)
		}
	}
	if len(missing) > 0 {
		return nil, rbrerrors.NewValidationError(rbrerrors.MissingUpstream, missing, nil)
	}

	// Class 3: upstreams that name nothing local.
	var outside []string
	for _, b := range branches {
		if b.Upstream == "" {
			continue
		}
		if _, ok := byName[b.Upstream]; !ok {
			outside = append(outside, b.Name)
		}
	}
	if len(outside) > 0 {
		return nil, rbrerrors.NewValidationError(rbrerrors.UpstreamOutsideTree, outside, nil)
	}

	// Class 4: every upstream now resolves to a local branch, so the only
	// way a chain can fail to reach the root is a cycle.
	if cycled := findCycles(byName, root); len(cycled) > 0 {
		return nil, rbrerrors.NewValidationError(rbrerrors.UpstreamCycle, cycled, nil)
	}

	g := &Graph{
		Root:      root,
		Tips:      tips,
		Upstreams: make(map[string]string, len(branches)-1),
		children:  make(map[string][]string),
	}
	for _, b := range branches {
		if b.Name == root {
			continue
		}
		g.Upstreams[b.Name] = b.Upstream
		g.children[b.Upstream] = append(g.children[b.Upstream], b.Name)
	}
	for _, deps := range g.children {
		sort.Strings(deps)
	}
	return g, nil
}

// findRoot walks the upstream chain from current until it hits a branch
// with no upstream (the root) or leaves the local branch set (no root;
// class 3 reports the offender). A revisited branch means the chain
// cycles; the cycle members are returned instead.
func findRoot(byName map[string]git.BranchInfo, current string) (root string, cycle []string) {
	seen := make(map[string]bool)
	var order []string
	name := current
	for {
		if seen[name] {
			for i, b := range order {
				if b == name {
					return "", order[i:]
				}
			}
			return "", order
		}
		seen[name] = true
		order = append(order, name)

		b, ok := byName[name]
		if !ok {
			return "", nil
		}
		if b.Upstream == "" {
			return name, nil
		}
		name = b.Upstream
	}
}

// findCycles returns every branch sitting on an upstream cycle.
func findCycles(byName map[string]git.BranchInfo, root string) []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(byName))
	onCycle := make(map[string]bool)

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, start := range names {
		if state[start] != unvisited {
			continue
		}
		var path []string
		name := start
		for {
			if name == root || state[name] == done {
				break
			}
			if state[name] == visiting {
				// Everything from the first occurrence of name on.
				for i := len(path) - 1; i >= 0; i-- {
					onCycle[path[i]] = true
					if path[i] == name {
						break
					}
				}
				break
			}
			state[name] = visiting
			path = append(path, name)
			name = byName[name].Upstream
		}
		for _, p := range path {
			state[p] = done
		}
	}

	var cycled []string
	for name := range onCycle {
		cycled = append(cycled, name)
	}
	sort.Strings(cycled)
	return cycled
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
