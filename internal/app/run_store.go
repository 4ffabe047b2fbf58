package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// RunStore keeps every run record in a single JSON ledger file.
type RunStore struct {
	path string
	mu   sync.Mutex
	runs map[string]Run
}

func NewRunStore(path string) (*RunStore, error) {
	store := &RunStore{path: path, runs: map[string]Run{}}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *RunStore) load() error {
	if s.path == "" {
		return errors.New("run store path required")
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &s.runs)
}

func (s *RunStore) Save(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return errors.New("run store path required")
	}
	s.runs[run.ID] = run
	payload, err := json.MarshalIndent(s.runs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, payload, 0o644)
}

// List returns all records, oldest first.
func (s *RunStore) List() ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}

func (s *RunStore) Get(id string) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	return run, ok
}
