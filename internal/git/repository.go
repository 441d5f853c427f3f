package git

import (
	"context"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps a go-git repository together with a command runner for
// the operations go-git cannot express (rebase, worktree checkout).
type Repository struct {
	*gogit.Repository
	runner *CommandRunner
	path   string
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	runner := NewCommandRunner(absPath)
	root, err := runner.Run(context.Background(), "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}

	return &Repository{
		Repository: repo,
		runner:     NewCommandRunner(root),
		path:       root,
	}, nil
}

// Root returns the root directory of the repository
func (r *Repository) Root() string {
	return r.path
}

// GitDir returns the repository's .git directory
func (r *Repository) GitDir(ctx context.Context) (string, error) {
	dir, err := r.runner.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return dir, nil
}

// CurrentBranch returns the name of the checked-out branch
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}
	return head.Name().Short(), nil
}

// BranchTip returns the commit the branch currently points at. It shells
// out rather than using go-git so the answer reflects ref updates made by
// git subprocesses earlier in the same run.
func (r *Repository) BranchTip(ctx context.Context, name string) (string, error) {
	return r.runner.Run(ctx, "rev-parse", "refs/heads/"+name)
}

// UpdateBranchRef atomically points a branch at a commit
func (r *Repository) UpdateBranchRef(ctx context.Context, name, sha string) error {
	_, err := r.runner.Run(ctx, "update-ref", "refs/heads/"+name, sha)
	return err
}

// CheckoutBranch checks out a branch
func (r *Repository) CheckoutBranch(ctx context.Context, name string) error {
	_, err := r.runner.Run(ctx, "checkout", "-q", name)
	return err
}

// CheckoutDetached detaches HEAD at the given revision
func (r *Repository) CheckoutDetached(ctx context.Context, rev string) error {
	_, err := r.runner.Run(ctx, "checkout", "-q", "--detach", rev)
	return err
}

// resolveHash resolves a revision (branch name, full ref, or SHA) to a hash
func (r *Repository) resolveHash(rev string) (plumbing.Hash, error) {
	if hash, err := r.ResolveRevision(plumbing.Revision(rev)); err == nil {
		return *hash, nil
	}
	ref, err := r.Reference(plumbing.ReferenceName(rev), true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	return ref.Hash(), nil
}
