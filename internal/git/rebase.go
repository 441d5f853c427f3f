package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// Rebase replays the commits of branchName that are not reachable from
// `from` onto `onto`:
//
//	git rebase --onto <onto> <from> <branchName>
//
// The branch is checked out and moved by git itself, so a later
// continue/skip finishes the branch without extra ref juggling.
func (r *Repository) Rebase(ctx context.Context, branchName, onto, from string) (RebaseResult, error) {
	_, err := r.runner.Run(ctx, "rebase", "--onto", onto, from, branchName)
	if err != nil {
		if r.IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase of %s failed: %w", branchName, err)
	}
	return RebaseDone, nil
}

// RebaseContinue continues an in-progress rebase after conflicts have been
// resolved and staged
func (r *Repository) RebaseContinue(ctx context.Context) (RebaseResult, error) {
	_, err := r.runner.Run(ctx, "-c", "core.editor=true", "rebase", "--continue")
	if err != nil {
		if r.IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase continue failed: %w", err)
	}
	return RebaseDone, nil
}

// RebaseSkip drops the currently conflicting commit and continues the
// in-progress rebase
func (r *Repository) RebaseSkip(ctx context.Context) (RebaseResult, error) {
	_, err := r.runner.Run(ctx, "rebase", "--skip")
	if err != nil {
		if r.IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase skip failed: %w", err)
	}
	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase
func (r *Repository) RebaseAbort(ctx context.Context) error {
	_, err := r.runner.Run(ctx, "rebase", "--abort")
	if err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}

// IsRebaseInProgress checks if a rebase is currently in progress by
// looking for the rebase-merge / rebase-apply directories. This is more
// reliable than REBASE_HEAD, which can persist after a rebase finishes.
func (r *Repository) IsRebaseInProgress(ctx context.Context) bool {
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		return true
	}
	return false
}

// UnmergedFiles lists paths with unresolved conflicts
func (r *Repository) UnmergedFiles(ctx context.Context) ([]string, error) {
	return r.runner.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
}
