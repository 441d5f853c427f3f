package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// stateFileName lives directly under .git, scoped to the repository and
// named so it cannot collide with anything git itself maintains.
const stateFileName = ".rbr_state"

// Store reads and writes the run state record under the repository's
// .git directory.
type Store struct {
	gitDir string
}

// NewStore creates a store rooted at the given .git directory
func NewStore(gitDir string) *Store {
	return &Store{gitDir: gitDir}
}

func (s *Store) path() string {
	return filepath.Join(s.gitDir, stateFileName)
}

// Exists reports whether a run state record is on disk
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path())
	return err == nil
}

// Load reads the run state from disk. Returns (nil, nil) when no run is
// in progress.
func (s *Store) Load() (*RunState, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run state: %w", err)
	}

	var st RunState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse run state: %w", err)
	}
	if st.Version != Version {
		return nil, fmt.Errorf("unsupported run state version %d", st.Version)
	}
	return &st, nil
}

// Save writes the run state to disk. The record is written to a temporary
// file in the same directory and renamed over the target, so a process
// killed mid-save leaves either the previous or the new record intact,
// never a torn mix.
func (s *Store) Save(st *RunState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	tmp, err := os.CreateTemp(s.gitDir, stateFileName+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write run state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync run state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close run state: %w", err)
	}

	if err := os.Rename(tmpPath, s.path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to commit run state: %w", err)
	}
	return nil
}

// Clear removes the run state record. Clearing an absent record is not
// an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear run state: %w", err)
	}
	return nil
}
