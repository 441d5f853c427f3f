// Package runtime provides the context type that carries the git runner,
// run-state store, and logger through the actions.
package runtime

import (
	"context"
	"fmt"

	"rbr.dev/rbr/internal/git"
	"rbr.dev/rbr/internal/output"
	"rbr.dev/rbr/internal/state"
)

// Context provides access to the repository, run state, and output for
// actions
type Context struct {
	Context  context.Context
	Runner   git.Runner
	Store    *state.Store
	Splog    *output.Splog
	RepoRoot string
}

// GetContext opens the repository containing the working directory and
// wires up the runner, store, and logger.
func GetContext(verbose bool) (*Context, error) {
	ctx := context.Background()

	repo, err := git.OpenRepository(".")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	gitDir, err := repo.GitDir(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to locate git directory: %w", err)
	}

	return &Context{
		Context:  ctx,
		Runner:   repo,
		Store:    state.NewStore(gitDir),
		Splog:    output.NewSplog(verbose),
		RepoRoot: repo.Root(),
	}, nil
}
