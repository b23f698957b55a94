package assist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInternalAppliesRuntimeDefaults(t *testing.T) {
	cfg := (&Config{}).toInternal()

	assert.Equal(t, 384, cfg.Embedder.Dimensions)
	assert.Equal(t, 60, cfg.Embedder.TimeoutSecs)
	assert.Equal(t, 30, cfg.NER.TimeoutSecs)
	assert.Equal(t, 10, cfg.Session.MaxEntries)
	assert.Equal(t, time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, 1000, cfg.Session.MaxSessions)

	// Empty snapshot URL keeps the graph purely in memory in package mode.
	assert.Empty(t, cfg.Snapshot.URL)
}

func TestToInternalKeepsExplicitValues(t *testing.T) {
	cfg := (&Config{
		EmbeddingDims:     8,
		SnapshotURL:       "file:./custom.db",
		SessionMaxEntries: 3,
	}).toInternal()

	assert.Equal(t, 8, cfg.Embedder.Dimensions)
	assert.Equal(t, "file:./custom.db", cfg.Snapshot.URL)
	assert.Equal(t, 3, cfg.Session.MaxEntries)
}

func TestNewServiceSeedsEmptySnapshot(t *testing.T) {
	url := "file:" + filepath.Join(t.TempDir(), "assist.db")

	svc, err := NewService(&Config{SnapshotURL: url}, nil)
	require.NoError(t, err)
	defer svc.Close()

	stats := svc.Statistics()
	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 4, stats.Edges)
}
