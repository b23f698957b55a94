package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EmbedderConfig selects and configures the embedding capability.
// Type is one of "openai", "ollama", "localai", or "" for disabled.
type EmbedderConfig struct {
	Type        string `yaml:"type"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// NERConfig configures the optional external named-entity tagger.
type NERConfig struct {
	Endpoint    string `yaml:"endpoint"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// SnapshotConfig configures knowledge-graph persistence.
type SnapshotConfig struct {
	URL       string `yaml:"url"`
	AuthToken string `yaml:"auth_token"`
}

// SessionConfig bounds the conversational context store.
type SessionConfig struct {
	MaxEntries  int           `yaml:"max_entries"`
	IdleTTL     time.Duration `yaml:"idle_ttl"`
	MaxSessions int           `yaml:"max_sessions"`
}

// ServerConfig configures the MCP transport surface.
type ServerConfig struct {
	Transport   string `yaml:"transport"`
	Addr        string `yaml:"addr"`
	SSEEndpoint string `yaml:"sse_endpoint"`
}

// MetricsConfig configures the Prometheus side server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder EmbedderConfig `yaml:"embedder"`
	NER      NERConfig      `yaml:"ner"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Session  SessionConfig  `yaml:"session"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with the standard runtime defaults.
func ApplyDefaults(cfg *AppConfig) {
	if cfg.Embedder.Dimensions == 0 {
		cfg.Embedder.Dimensions = 384
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 60
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.BaseURL == "" {
			cfg.Embedder.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.APIKeyEnv == "" {
			cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.Model == "" {
			cfg.Embedder.Model = "text-embedding-3-small"
		}
	}
	if cfg.NER.TimeoutSecs == 0 {
		cfg.NER.TimeoutSecs = 30
	}
	if cfg.Snapshot.URL == "" {
		cfg.Snapshot.URL = "file:./satassist.db"
	}
	if cfg.Session.MaxEntries == 0 {
		cfg.Session.MaxEntries = 10
	}
	if cfg.Session.IdleTTL == 0 {
		cfg.Session.IdleTTL = time.Hour
	}
	if cfg.Session.MaxSessions == 0 {
		cfg.Session.MaxSessions = 1000
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = "stdio"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.SSEEndpoint == "" {
		cfg.Server.SSEEndpoint = "/sse"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("SATASSIST_SNAPSHOT_URL"); v != "" {
		cfg.Snapshot.URL = v
	}
	if v := os.Getenv("SATASSIST_SNAPSHOT_AUTH_TOKEN"); v != "" {
		cfg.Snapshot.AuthToken = v
	}
	if v := os.Getenv("EMBEDDINGS_PROVIDER"); v != "" {
		cfg.Embedder.Type = v
	}
	if v := os.Getenv("EMBEDDINGS_BASE_URL"); v != "" {
		cfg.Embedder.BaseURL = v
	}
	if v := os.Getenv("EMBEDDINGS_MODEL"); v != "" {
		cfg.Embedder.Model = v
	}
	if v := os.Getenv("NER_ENDPOINT"); v != "" {
		cfg.NER.Endpoint = v
	}
	if v := os.Getenv("METRICS_PROMETHEUS"); v == "true" || v == "1" {
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}
