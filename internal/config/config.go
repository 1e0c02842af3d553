// Package config reads the YAML configuration file used by the blogql command
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by errors returned from Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the blogql configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Engine    EngineConfig    `yaml:"engine"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Log       LogConfig       `yaml:"log"`
	Data      DataConfig      `yaml:"data"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	Path            string        `yaml:"path"` // GraphQL endpoint
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout"` // 0 means no limit
}

// EngineConfig defines settings for query execution.
type EngineConfig struct {
	NoConcurrency bool `yaml:"no_concurrency"`
}

// WebSocketConfig defines the websocket protocol timeouts.
type WebSocketConfig struct {
	InitialTimeout time.Duration `yaml:"initial_timeout"`
	PingFrequency  time.Duration `yaml:"ping_frequency"`
	PongTimeout    time.Duration `yaml:"pong_timeout"`
}

// LogConfig defines the logging level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DataConfig says where the entities come from.
type DataConfig struct {
	File string `yaml:"file,omitempty"` // YAML data file; the demo data is used if empty
}

// MetricsConfig defines the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			Path:            "/graphql",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			QueryTimeout:    30 * time.Second,
		},
		WebSocket: WebSocketConfig{
			InitialTimeout: 10 * time.Second,
			PingFrequency:  20 * time.Second,
			PongTimeout:    5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads configuration from a YAML file, starting from the defaults so that only
// the values that differ need to be given.  Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w in config file %q", err, path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w in config file %q", err, path)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("%w: server address is required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("%w: server path %q must start with /", ErrInvalidConfig, c.Server.Path)
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":       c.Server.ReadTimeout,
		"server.write_timeout":      c.Server.WriteTimeout,
		"server.shutdown_timeout":   c.Server.ShutdownTimeout,
		"server.query_timeout":      c.Server.QueryTimeout,
		"websocket.initial_timeout": c.WebSocket.InitialTimeout,
		"websocket.ping_frequency":  c.WebSocket.PingFrequency,
		"websocket.pong_timeout":    c.WebSocket.PongTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidConfig, name)
		}
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q must be text or json", ErrInvalidConfig, c.Log.Format)
	}
	if c.Metrics.Enabled {
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("%w: metrics path %q must start with /", ErrInvalidConfig, c.Metrics.Path)
		}
		if c.Metrics.Path == c.Server.Path {
			return fmt.Errorf("%w: metrics path and server path are both %q", ErrInvalidConfig, c.Server.Path)
		}
	}
	return nil
}

// SlogLevel converts the configured level name to a slog.Level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, l.Level)
	}
	return level, nil
}
