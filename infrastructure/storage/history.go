// Package storage persists run history between invocations as a JSON file
// under the user's home directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"smart_automation/domain/entities"
	"smart_automation/domain/interfaces"
)

const (
	storageDir  = ".smart_automation"
	historyFile = "history.json"
)

type HistoryStore struct {
	path   string
	logger *logrus.Logger
	mu     sync.Mutex
}

var _ interfaces.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore places the history file under ~/.smart_automation,
// creating the directory if needed. Falls back to the working directory
// when the home directory cannot be resolved.
func NewHistoryStore(logger *logrus.Logger) *HistoryStore {
	dir := storageDir
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, storageDir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.WithError(err).Warn("could not create history directory")
	}
	return &HistoryStore{
		path:   filepath.Join(dir, historyFile),
		logger: logger,
	}
}

// Append loads the existing records, adds one, and rewrites the file.
func (s *HistoryStore) Append(record entities.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Load returns all persisted run records, oldest first. A missing file is
// an empty history, not an error.
func (s *HistoryStore) Load() ([]entities.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *HistoryStore) load() ([]entities.RunRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var records []entities.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return records, nil
}
