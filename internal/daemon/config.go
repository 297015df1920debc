// Package daemon wires the engine together and runs the HTTP API.
package daemon

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Metrics MetricsConfig `toml:"metrics"`
	Archive ArchiveConfig `toml:"archive"`
	Gemini  GeminiConfig  `toml:"gemini"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// MetricsConfig gates the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// ArchiveConfig configures the SQLite ledger audit mirror.
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// GeminiConfig configures the AI collaborator (evaluator + improver).
// An empty api_key disables both; the diary then always behaves as if the
// collaborator failed (no improvement, zero penalties).
type GeminiConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the collaborator call budget.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 3000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Path:    "lql-ledger.db",
		},
		Gemini: GeminiConfig{
			Model:          "gemini-1.5-flash",
			BaseURL:        "https://generativelanguage.googleapis.com",
			TimeoutSeconds: 10,
		},
	}
}

// LoadConfig reads the TOML file at path over the defaults. A missing file
// is not an error: the defaults are returned unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ListenAddr returns the host:port the API listens on.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}
