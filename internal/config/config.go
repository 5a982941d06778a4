package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ModelBaseDir string        `env:"MODEL_BASE_DIR" envDefault:"/tmp/trained_models"`
	EpochDelay   time.Duration `env:"TRAIN_EPOCH_DELAY" envDefault:"100ms"`
	Seed         uint64        `env:"TRAIN_SEED" envDefault:"0"`
	ProgressBar  bool          `env:"TRAIN_PROGRESS_BAR" envDefault:"false"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads the process environment. Call cmd.LoadEnvFile first if a
// .env file should be applied.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.EpochDelay < 0 {
		return nil, fmt.Errorf("TRAIN_EPOCH_DELAY must not be negative, got %v", cfg.EpochDelay)
	}

	return &cfg, nil
}
