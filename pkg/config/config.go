package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys read by Load.
const (
	EnvSeed         = "MICROGRAD_SEED"
	EnvLearningRate = "MICROGRAD_LEARNING_RATE"
	EnvIterations   = "MICROGRAD_ITERATIONS"
	EnvLayers       = "MICROGRAD_LAYERS"
	EnvLogLevel     = "MICROGRAD_LOG_LEVEL"
)

// TrainingConfig holds the settings of the demo training run.
type TrainingConfig struct {
	Seed         int64
	LearningRate float64
	Iterations   int
	Layers       []int // widths after the input layer
	LogLevel     slog.Level
}

// Default returns the configuration used when no variable is set.
func Default() *TrainingConfig {
	return &TrainingConfig{
		Seed:         1337,
		LearningRate: 0.05,
		Iterations:   20,
		Layers:       []int{4, 4, 1},
		LogLevel:     slog.LevelInfo,
	}
}

// Load loads the training configuration from environment variables.
// It attempts to find a .env file in the current or parent directories.
// Variables already present in the environment take precedence over the file.
func Load() (*TrainingConfig, error) {
	// Try to load .env from current or parent directories
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if s := os.Getenv(EnvSeed); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}

	if s := os.Getenv(EnvLearningRate); s != "" {
		lr, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLearningRate, err)
		}
		if lr <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive, got %g", EnvLearningRate, lr)
		}
		cfg.LearningRate = lr
	}

	if s := os.Getenv(EnvIterations); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvIterations, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative, got %d", EnvIterations, n)
		}
		cfg.Iterations = n
	}

	if s := os.Getenv(EnvLayers); s != "" {
		layers, err := parseLayers(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLayers, err)
		}
		cfg.Layers = layers
	}

	if s := os.Getenv(EnvLogLevel); s != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(s)); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
	}

	return cfg, nil
}

// parseLayers parses a comma-separated list of positive widths.
func parseLayers(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	layers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("layer width must be positive, got %d", n)
		}
		layers = append(layers, n)
	}
	return layers, nil
}

// loadEnvFile attempts to look up until it finds a .env file
func loadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	// Look up to 5 levels
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
