package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"spinnertip/checker"
)

// Config holds the demo host settings.
type Config struct {
	Addr        string        `env:"ADDR" default:":8000"`
	FactsFile   string        `env:"FACTS_FILE"`
	LogLevel    string        `env:"LOG_LEVEL" default:"info"`
	StatusDelay time.Duration `env:"STATUS_DELAY" default:"3s"`
	FactsRate   float64       `env:"FACTS_RATE" default:"20"`
	FactsBurst  int           `env:"FACTS_BURST" default:"40"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("ADDR is required")
	}
	if cfg.StatusDelay < 0 || cfg.StatusDelay > checker.MaxDelay {
		return fmt.Errorf("STATUS_DELAY must be between 0 and %s, got %s", checker.MaxDelay, cfg.StatusDelay)
	}
	if cfg.FactsRate <= 0 {
		return fmt.Errorf("FACTS_RATE must be positive, got %v", cfg.FactsRate)
	}
	if cfg.FactsBurst < 1 {
		return fmt.Errorf("FACTS_BURST must be at least 1, got %d", cfg.FactsBurst)
	}
	return nil
}
