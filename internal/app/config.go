package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	API struct {
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Registry struct {
		SchoolPrefix string `toml:"school_prefix"`
	} `toml:"registry"`

	Scoring struct {
		MaxScorePerSubject float64 `toml:"max_score_per_subject"`
	} `toml:"scoring"`

	Cards struct {
		EnableGuard bool   `toml:"enable_guard"`
		RedisURL    string `toml:"redis_url"`
		MaxChecks   int    `toml:"max_checks"`
	} `toml:"cards"`

	Reconcile struct {
		// Cron schedule for the standing repair pass; empty means the
		// reconcile binary runs once and exits.
		Schedule string `toml:"schedule"`
	} `toml:"reconcile"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Registry.SchoolPrefix == "" {
		config.Registry.SchoolPrefix = "YMS"
	}
	if config.Scoring.MaxScorePerSubject == 0 {
		config.Scoring.MaxScorePerSubject = 100
	}

	logger.Debug.Printf("Loaded registry config: %+v", config.Registry)

	return &config, nil
}
