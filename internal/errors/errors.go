// Package errors provides sentinel errors and custom error types for rbr.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrRunInProgress indicates that durable run state already exists
	ErrRunInProgress = errors.New("run in progress")

	// ErrNoRunInProgress indicates that no run state exists to resume or abort
	ErrNoRunInProgress = errors.New("no run in progress")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrInvalidUpstreams indicates that the branch configuration failed validation
	ErrInvalidUpstreams = errors.New("invalid upstream configuration")
)

// ValidationKind identifies a class of upstream configuration error.
// The classes are checked in declaration order and the first failing
// class wins; every branch violating that class is reported together.
type ValidationKind int

const (
	// InvalidUpstreamKind means an upstream ref resolves to something other than a branch
	InvalidUpstreamKind ValidationKind = iota
	// MissingUpstream means a branch has no upstream configured
	MissingUpstream
	// UpstreamOutsideTree means a branch's upstream points outside the branches being processed
	UpstreamOutsideTree
	// UpstreamCycle means following upstream pointers revisits a branch
	UpstreamCycle
)

// ValidationError reports every branch violating a single validation class.
type ValidationError struct {
	Kind     ValidationKind
	Branches []string
	// Refs holds the offending upstream refs for InvalidUpstreamKind
	Refs []string
}

func (e *ValidationError) Error() string {
	branches := strings.Join(sorted(e.Branches), ", ")
	switch e.Kind {
	case InvalidUpstreamKind:
		return fmt.Sprintf("upstreams of branches %s are not branches: %s",
			branches, strings.Join(sorted(e.Refs), ", "))
	case MissingUpstream:
		return fmt.Sprintf("branches %s have no upstream set", branches)
	case UpstreamOutsideTree:
		return fmt.Sprintf("branches %s have an upstream pointing outside the tree being rebased", branches)
	case UpstreamCycle:
		return fmt.Sprintf("branches %s are in a cycle", branches)
	}
	return fmt.Sprintf("branches %s have invalid upstream configuration", branches)
}

// Is returns true if the target error is ErrInvalidUpstreams
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidUpstreams
}

// NewValidationError creates a new ValidationError
func NewValidationError(kind ValidationKind, branches, refs []string) *ValidationError {
	return &ValidationError{
		Kind:     kind,
		Branches: branches,
		Refs:     refs,
	}
}

func sorted(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}

// ConflictError reports a conflict pause along with the command to resume.
type ConflictError struct {
	BranchName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("hit conflict rebasing %s; resolve and run 'git rbr --continue', or 'git rbr --skip' / 'git rbr --abort'", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewConflictError creates a new ConflictError
func NewConflictError(branchName string) *ConflictError {
	return &ConflictError{BranchName: branchName}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
