package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the service configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultLogLevel       = "info"
	DefaultDatasetPath    = "data/telemetry.csv"
	DefaultStreamInterval = 5 * time.Second
)

// Config is the full configuration parsed from config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Stream  StreamConfig  `yaml:"stream"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, metrics and WebSocket endpoints
	// listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of: debug | info | warn | error. Applied on hot reload.
	LogLevel string `yaml:"log_level"`

	// AllowedOrigins are the CORS origins permitted to call the API.
	// Defaults to ["*"] — the service is meant to back a browser dashboard.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatasetConfig points at the telemetry CSV loaded once at startup.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// StreamConfig controls the WebSocket stats broadcast.
type StreamConfig struct {
	// Interval is how often connected clients receive a stats frame.
	Interval time.Duration `yaml:"interval"`
}

// Level converts the configured log level to a slog.Level. Call after
// validation; unknown values fall back to info.
func (s ServerConfig) Level() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:       DefaultHTTPPort,
			LogLevel:       DefaultLogLevel,
			AllowedOrigins: []string{"*"},
		},
		Dataset: DatasetConfig{
			Path: DefaultDatasetPath,
		},
		Stream: StreamConfig{
			Interval: DefaultStreamInterval,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("server.allowed_origins must not be empty")
	}
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset.path must not be empty")
	}
	if cfg.Stream.Interval <= 0 {
		return fmt.Errorf("stream.interval must be positive")
	}
	return nil
}
