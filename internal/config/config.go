package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"qcompose/internal/circuit"
	"qcompose/internal/grid"
)

// Backend names
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config holds application configuration
type Config struct {
	LogLevel       string
	LogFile        string
	Qubits         int
	Shots          int
	Seed           uint64
	Backend        string
	BackendURL     string
	BackendToken   string
	BackendTimeout time.Duration
	ExportFile     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without
// validating it.
func FromEnv() *Config {
	return &Config{
		LogLevel:       getEnv("QCOMPOSE_LOG_LEVEL", "info"),
		LogFile:        getEnv("QCOMPOSE_LOG_FILE", "qcompose.log"),
		Qubits:         getEnvAsInt("QCOMPOSE_QUBITS", circuit.DefaultQubits),
		Shots:          getEnvAsInt("QCOMPOSE_SHOTS", 1024),
		Seed:           getEnvAsUint("QCOMPOSE_SEED", 0), // 0 seeds from the clock
		Backend:        getEnv("QCOMPOSE_BACKEND", BackendLocal),
		BackendURL:     getEnv("QCOMPOSE_BACKEND_URL", ""),
		BackendToken:   getEnv("QCOMPOSE_BACKEND_TOKEN", ""),
		BackendTimeout: time.Duration(getEnvAsInt("QCOMPOSE_BACKEND_TIMEOUT", 60)) * time.Second,
		ExportFile:     getEnv("QCOMPOSE_EXPORT_FILE", "circuit.py"),
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	maxQubits := c.Layout().MaxQubits
	if c.Qubits < circuit.MinQubits || c.Qubits > maxQubits {
		return fmt.Errorf("QCOMPOSE_QUBITS must be between %d and %d, got %d", circuit.MinQubits, maxQubits, c.Qubits)
	}
	if c.Shots < 1 {
		return fmt.Errorf("QCOMPOSE_SHOTS must be positive, got %d", c.Shots)
	}
	switch c.Backend {
	case BackendLocal:
	case BackendRemote:
		if c.BackendURL == "" {
			return fmt.Errorf("QCOMPOSE_BACKEND_URL is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown QCOMPOSE_BACKEND %q (want %s or %s)", c.Backend, BackendLocal, BackendRemote)
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("QCOMPOSE_BACKEND_TIMEOUT must be positive")
	}
	return nil
}

// Layout is the grid geometry the terminal UI draws with.
func (c *Config) Layout() grid.Layout {
	return grid.TerminalLayout()
}

// Helper functions
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

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
