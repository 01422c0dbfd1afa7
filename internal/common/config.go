// Package common holds configuration loading for the CLI layer. The core
// packages never read the environment themselves; everything flows down as
// explicit config structs.
package common

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	LLM   LLMConfig
	Batch BatchConfig
	Store StoreConfig
}

// LLMConfig holds provider and call-budget configuration.
type LLMConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float32
	Timeout          time.Duration
	TransportRetries int
	RepairAttempts   int
}

// BatchConfig holds orchestration configuration.
type BatchConfig struct {
	Concurrency   int
	RatePerSecond float64
}

// StoreConfig holds result persistence configuration.
type StoreConfig struct {
	DSN string // empty disables persistence
}

// LoadConfig reads configuration from environment variables with defaults.
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			APIKey:           getEnv("OPENAI_API_KEY", ""),
			BaseURL:          getEnv("OPENAI_BASE_URL", ""),
			Model:            getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature:      getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			Timeout:          getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			TransportRetries: getEnvAsInt("LLM_TRANSPORT_RETRIES", 2),
			RepairAttempts:   getEnvAsInt("LLM_REPAIR_ATTEMPTS", 1),
		},
		Batch: BatchConfig{
			Concurrency:   getEnvAsInt("BATCH_CONCURRENCY", 4),
			RatePerSecond: getEnvAsFloat64("BATCH_RATE_PER_SECOND", 0),
		},
		Store: StoreConfig{
			DSN: getEnv("DB_URL", ""),
		},
	}
}

// Validate checks the loaded configuration before the pipeline starts.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
