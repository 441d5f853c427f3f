package git

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
)

// RefKind classifies what a ref name resolves to
type RefKind int

const (
	// RefBranch is a local branch under refs/heads
	RefBranch RefKind = iota
	// RefTag is a tag under refs/tags
	RefTag
	// RefOther is any other resolvable ref (remote-tracking, notes, ...)
	RefOther
	// RefMissing means the name resolves to nothing
	RefMissing
)

func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefTag:
		return "tag"
	case RefOther:
		return "other"
	}
	return "missing"
}

// BranchInfo describes a local branch: its name, tip commit, and the
// upstream branch it tracks. Upstream is empty when no upstream is
// configured. For branches tracking a remote, Upstream carries the
// "remote/branch" form, which never names a local branch.
type BranchInfo struct {
	Name     string
	Tip      string
	Upstream string
}

// ListLocalBranches enumerates all local branches with their tips and
// configured upstreams. Side-effect free.
func (r *Repository) ListLocalBranches() ([]BranchInfo, error) {
	cfg, err := r.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to read repository config: %w", err)
	}

	iter, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate branches: %w", err)
	}

	var branches []BranchInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsBranch() {
			return nil
		}
		name := ref.Name().Short()
		info := BranchInfo{
			Name: name,
			Tip:  ref.Hash().String(),
		}
		if bc, ok := cfg.Branches[name]; ok && bc.Merge != "" {
			upstream := bc.Merge.Short()
			// A real remote means the upstream is a remote-tracking
			// ref, not a local branch.
			if bc.Remote != "" && bc.Remote != "." {
				upstream = bc.Remote + "/" + upstream
			}
			info.Upstream = upstream
		}
		branches = append(branches, info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

// ResolveRefKind reports what the given short name resolves to
func (r *Repository) ResolveRefKind(name string) (RefKind, error) {
	if _, err := r.Reference(plumbing.NewBranchReferenceName(name), false); err == nil {
		return RefBranch, nil
	}
	if _, err := r.Reference(plumbing.NewTagReferenceName(name), false); err == nil {
		return RefTag, nil
	}
	// Remote-tracking names arrive as "remote/branch"
	if _, err := r.Reference(plumbing.ReferenceName("refs/remotes/"+name), false); err == nil {
		return RefOther, nil
	}
	if _, err := r.ResolveRevision(plumbing.Revision(name)); err == nil {
		return RefOther, nil
	}
	return RefMissing, nil
}
