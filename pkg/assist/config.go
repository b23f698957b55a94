package assist

import (
	"time"

	"github.com/orbitscope/satassist-go/internal/config"
)

// Config exposes a stable wrapper for engine configuration in package mode.
// Most fields map directly to internal/config.AppConfig.
type Config struct {
	EmbedderType      string
	EmbedderBaseURL   string
	EmbedderAPIKeyEnv string
	EmbedderModel     string
	EmbeddingDims     int
	NEREndpoint       string
	SnapshotURL       string
	SnapshotAuthToken string
	SessionMaxEntries int
	SessionIdleTTL    time.Duration
	SessionMaxCount   int
}

func (c *Config) toInternal() *config.AppConfig {
	cfg := &config.AppConfig{
		Embedder: config.EmbedderConfig{
			Type:       c.EmbedderType,
			BaseURL:    c.EmbedderBaseURL,
			APIKeyEnv:  c.EmbedderAPIKeyEnv,
			Model:      c.EmbedderModel,
			Dimensions: c.EmbeddingDims,
		},
		NER: config.NERConfig{
			Endpoint: c.NEREndpoint,
		},
		Snapshot: config.SnapshotConfig{
			URL:       c.SnapshotURL,
			AuthToken: c.SnapshotAuthToken,
		},
		Session: config.SessionConfig{
			MaxEntries:  c.SessionMaxEntries,
			IdleTTL:     c.SessionIdleTTL,
			MaxSessions: c.SessionMaxCount,
		},
	}
	config.ApplyDefaults(cfg)
	// In package mode an empty snapshot URL means a purely in-memory graph,
	// so the CLI's file default must not apply.
	cfg.Snapshot.URL = c.SnapshotURL
	return cfg
}
