package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart_automation/domain/entities"
)

func newTestStore(t *testing.T) *HistoryStore {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &HistoryStore{
		path:   filepath.Join(t.TempDir(), "history.json"),
		logger: logger,
	}
}

func TestLoadMissingFileIsEmptyHistory(t *testing.T) {
	store := newTestStore(t)
	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := entities.RunRecord{
		ID:          "a1b2c3d4",
		Instruction: "go to google and search for weather",
		StartedAt:   started,
		Duration:    4 * time.Second,
		Succeeded:   true,
	}
	second := entities.RunRecord{
		ID:          "e5f6a7b8",
		Instruction: "open example.com",
		StartURL:    "https://example.com",
		StartedAt:   started.Add(time.Minute),
		Duration:    2 * time.Second,
		Succeeded:   false,
	}

	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Oldest first.
	assert.Equal(t, first, records[0])
	assert.Equal(t, second, records[1])
}

func TestAppendSurvivesReopen(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(entities.RunRecord{ID: "deadbeef", Instruction: "test run"}))

	reopened := &HistoryStore{path: store.path, logger: store.logger}
	records, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "deadbeef", records[0].ID)
}
