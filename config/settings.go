// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Optional file locations (pricing overrides, transcript)

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Settings holds all application configuration.
type Settings struct {
	Agent AgentConfig

	// DefaultProvider picks among several detected credentials.
	DefaultProvider string

	// PricingFile is an optional YAML file of per-model rates.
	PricingFile string

	// TranscriptPath enables the SQLite run transcript when set.
	TranscriptPath string
}

// AgentConfig holds agent execution configuration.
type AgentConfig struct {
	MaxIterations int
	MaxTokens     int
	Temperature   float64
}

// maxIterationsLimit is the hard cap on planning turns per run.
const maxIterationsLimit = 5

// New loads settings from environment variables.
// Returns an error if environment variables contain invalid values.
func New() (Settings, error) {
	maxIterations, err := getEnvPositiveInt("CRAFT_MAX_ITERATIONS", maxIterationsLimit)
	if err != nil {
		return Settings{}, err
	}
	if maxIterations > maxIterationsLimit {
		return Settings{}, fmt.Errorf("invalid value for CRAFT_MAX_ITERATIONS: %d exceeds %d", maxIterations, maxIterationsLimit)
	}

	maxTokens, err := getEnvPositiveInt("CRAFT_MAX_TOKENS", 512)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("CRAFT_TEMPERATURE", 0.2)
	if err != nil {
		return Settings{}, err
	}
	if temperature < 0 || temperature > 2 {
		return Settings{}, fmt.Errorf("invalid value for CRAFT_TEMPERATURE: %v is outside [0, 2]", temperature)
	}

	return Settings{
		Agent: AgentConfig{
			MaxIterations: maxIterations,
			MaxTokens:     maxTokens,
			Temperature:   temperature,
		},
		DefaultProvider: strings.ToLower(strings.TrimSpace(os.Getenv("DEFAULT_PROVIDER"))),
		PricingFile:     os.Getenv("CRAFT_PRICING_FILE"),
		TranscriptPath:  os.Getenv("CRAFT_TRANSCRIPT"),
	}, nil
}

// Environment variable helpers with proper error handling

func getEnvPositiveInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("invalid value for %s: %q: must be positive", key, val)
	}
	return i, nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
