package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
	Model     ModelConfig     `yaml:"model"`
	Artifact  ArtifactConfig  `yaml:"artifact"`
	Plot      PlotConfig      `yaml:"plot"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

type JournalConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type ModelConfig struct {
	Precision int `yaml:"precision"`
}

type ArtifactConfig struct {
	Codec string `yaml:"codec"`
}

type PlotConfig struct {
	Dir    string  `yaml:"dir"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Journal: JournalConfig{
			Path: "trendify.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Model: ModelConfig{
			Precision: 4,
		},
		Artifact: ArtifactConfig{
			Codec: "zstd",
		},
		Plot: PlotConfig{
			Dir:    os.TempDir(),
			Width:  6,
			Height: 6,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TRENDIFY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TRENDIFY_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TRENDIFY_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRENDIFY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("TRENDIFY_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("TRENDIFY_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRENDIFY_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if token := os.Getenv("TRENDIFY_AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}
	if journal := os.Getenv("TRENDIFY_JOURNAL_PATH"); journal != "" {
		cfg.Journal.Path = journal
	}
	if level := os.Getenv("TRENDIFY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TRENDIFY_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if precision := os.Getenv("TRENDIFY_MODEL_PRECISION"); precision != "" {
		v, err := strconv.Atoi(precision)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRENDIFY_MODEL_PRECISION: %w", err)
		}
		cfg.Model.Precision = v
	}
	if codec := os.Getenv("TRENDIFY_ARTIFACT_CODEC"); codec != "" {
		cfg.Artifact.Codec = codec
	}
	if dir := os.Getenv("TRENDIFY_PLOT_DIR"); dir != "" {
		cfg.Plot.Dir = dir
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values and out-of-range numbers.
func (c *Config) Validate() error {
	c.Transport.Mode = strings.ToLower(strings.TrimSpace(c.Transport.Mode))
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	switch strings.ToLower(c.Artifact.Codec) {
	case "zstd", "lz4", "none":
	default:
		return fmt.Errorf("invalid artifact codec %q: want zstd, lz4 or none", c.Artifact.Codec)
	}
	if c.Model.Precision < 0 || c.Model.Precision > 12 {
		return fmt.Errorf("invalid model precision %d: want 0-12", c.Model.Precision)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Auth.Enabled && c.Auth.Token == "" {
		return fmt.Errorf("auth enabled without a token")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
