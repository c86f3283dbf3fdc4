package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit"`
}

// DatabaseConfig selects the history backend. Driver is "postgres" or
// "sqlite"; for sqlite URL is a file path.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type EngineConfig struct {
	ScoreScale     float64 `yaml:"score_scale"`
	ScorePrecision int     `yaml:"score_precision"`
	MinEntities    int     `yaml:"min_entities"`
	MaxEntities    int     `yaml:"max_entities"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			URL:    "data/decisions.db",
		},
		Engine: EngineConfig{
			ScoreScale:     100,
			ScorePrecision: 1,
			MinEntities:    2,
			MaxEntities:    15,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Engine.MinEntities < 2 {
		return fmt.Errorf("engine.min_entities must be at least 2, got %d", c.Engine.MinEntities)
	}
	if c.Engine.MaxEntities < c.Engine.MinEntities {
		return fmt.Errorf("engine.max_entities (%d) below min_entities (%d)", c.Engine.MaxEntities, c.Engine.MinEntities)
	}
	if c.Engine.ScoreScale <= 0 {
		return fmt.Errorf("engine.score_scale must be positive, got %f", c.Engine.ScoreScale)
	}
	if c.Engine.ScorePrecision < 0 {
		return fmt.Errorf("engine.score_precision must not be negative, got %d", c.Engine.ScorePrecision)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DECISIONS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("DECISIONS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("DECISIONS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("DECISIONS_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimit = n
		}
	}
	if v := os.Getenv("DECISIONS_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DECISIONS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("DECISIONS_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("DECISIONS_SCORE_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.ScoreScale = f
		}
	}
	if v := os.Getenv("DECISIONS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
