package git

import "context"

// Runner is the narrow capability surface the rebase orchestrator needs
// from the version-control engine. Repository implements it against a real
// git checkout; tests substitute an in-memory implementation so graph,
// scheduling, and state-machine logic stay deterministic.
type Runner interface {
	// Ref inspection
	ListLocalBranches() ([]BranchInfo, error)
	ResolveRefKind(name string) (RefKind, error)
	CurrentBranch() (string, error)
	BranchTip(ctx context.Context, name string) (string, error)
	IsAncestor(ancestor, descendant string) (bool, error)

	// Replay
	Rebase(ctx context.Context, branchName, onto, from string) (RebaseResult, error)
	RebaseContinue(ctx context.Context) (RebaseResult, error)
	RebaseSkip(ctx context.Context) (RebaseResult, error)
	RebaseAbort(ctx context.Context) error
	IsRebaseInProgress(ctx context.Context) bool
	UnmergedFiles(ctx context.Context) ([]string, error)

	// Ref mutation
	UpdateBranchRef(ctx context.Context, name, sha string) error
	CheckoutBranch(ctx context.Context, name string) error
	CheckoutDetached(ctx context.Context, rev string) error
}

var _ Runner = (*Repository)(nil)
