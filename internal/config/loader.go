package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load loads and validates the hydromon configuration.
//
// It performs the following steps in order:
//  1. Sets the process timezone to UTC to prevent drift bugs.
//  2. Loads a .env file if present (non-fatal if missing; existing
//     environment variables are never overridden).
//  3. Processes envconfig tags to populate the Config struct.
//  4. Validates the populated struct with go-playground/validator.
func Load() (*Config, error) {
	time.Local = time.UTC

	// godotenv.Load silently succeeds if no .env file exists in the working
	// directory, and does not override existing environment variables.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags plus the
// cross-field rules that tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}

	if c.Engine.HighRiskThreshold <= c.Engine.MidRiskThreshold {
		return fmt.Errorf("config: HIGH_RISK_THRESHOLD (%v) must exceed MID_RISK_THRESHOLD (%v)",
			c.Engine.HighRiskThreshold, c.Engine.MidRiskThreshold)
	}
	if c.Engine.MaxHeartRate <= c.Engine.RestingHeartRate {
		return fmt.Errorf("config: MAX_HEART_RATE (%v) must exceed RESTING_HEART_RATE (%v)",
			c.Engine.MaxHeartRate, c.Engine.RestingHeartRate)
	}
	if c.Engine.MaxBodyTemp <= c.Engine.NormalBodyTemp {
		return fmt.Errorf("config: MAX_BODY_TEMP (%v) must exceed NORMAL_BODY_TEMP (%v)",
			c.Engine.MaxBodyTemp, c.Engine.NormalBodyTemp)
	}
	if c.Storage.Backend == "postgres" && c.Storage.PostgresURL == "" {
		return fmt.Errorf("config: DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}
	return nil
}
