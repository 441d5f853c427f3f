// Package state persists the cross-invocation record of a run: the
// scheduled queue, the pre-run snapshot of every touched branch, the
// current cursor, and whether the replay engine is paused on a conflict.
// This record is the only durable state the tool owns; conflict resolution
// happens in a separate invocation that re-derives everything from it.
package state

// Version is bumped when the on-disk layout changes incompatibly.
const Version = 1

// WorkItem is one queued rebase step. BaseTip is the upstream's pre-run
// tip, the cut point for the replay.
type WorkItem struct {
	Branch   string `json:"branch"`
	Upstream string `json:"upstream"`
	BaseTip  string `json:"baseTip"`
}

// RunState is the durable record of a run in progress.
type RunState struct {
	Version int `json:"version"`
	// OriginalBranch is the checkout to restore when the run ends
	OriginalBranch string `json:"originalBranch"`
	// Root is the designated root branch; never rebased
	Root string `json:"root"`
	// Queue holds the scheduled steps in topological order
	Queue []WorkItem `json:"queue"`
	// Snapshot maps every branch touched by the run, including the
	// root, to its tip before the run began
	Snapshot map[string]string `json:"snapshot"`
	// Current indexes the queue item being processed
	Current int `json:"current"`
	// Paused is set while the replay engine sits mid-conflict
	Paused bool `json:"paused"`
}

// CurrentItem returns the queue item the cursor points at, or nil when
// the queue is exhausted.
func (s *RunState) CurrentItem() *WorkItem {
	if s.Current < 0 || s.Current >= len(s.Queue) {
		return nil
	}
	return &s.Queue[s.Current]
}

// Done reports whether every queue item has completed.
func (s *RunState) Done() bool {
	return s.Current >= len(s.Queue)
}
