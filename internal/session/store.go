package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"LeverageScope/internal/model"
)

// Store keeps the last LR(0) in a JSON file.
type Store struct {
	mu       sync.Mutex
	filePath string
}

// NewStore creates a Store backed by filePath. The directory is created if missing.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		return nil, fmt.Errorf("session file path is empty")
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	return &Store{filePath: filePath}, nil
}

// Load reads the session state. Returns a zero state if the file doesn't exist.
func (s *Store) Load() (*model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.SessionState{}, nil
		}
		return nil, err
	}
	var state model.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &state, nil
}

// Save writes the session state.
func (s *Store) Save(state *model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}
