package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"QCOMPOSE_LOG_LEVEL", "QCOMPOSE_LOG_FILE", "QCOMPOSE_QUBITS", "QCOMPOSE_SHOTS",
		"QCOMPOSE_SEED", "QCOMPOSE_BACKEND", "QCOMPOSE_BACKEND_URL", "QCOMPOSE_BACKEND_TOKEN",
		"QCOMPOSE_BACKEND_TIMEOUT", "QCOMPOSE_EXPORT_FILE",
	} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "qcompose.log", cfg.LogFile)
	assert.Equal(t, 3, cfg.Qubits)
	assert.Equal(t, 1024, cfg.Shots)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, 60*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "circuit.py", cfg.ExportFile)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("QCOMPOSE_QUBITS", "5")
	t.Setenv("QCOMPOSE_SHOTS", "200")
	t.Setenv("QCOMPOSE_SEED", "42")
	t.Setenv("QCOMPOSE_BACKEND", "remote")
	t.Setenv("QCOMPOSE_BACKEND_URL", "http://localhost:8000/run")
	t.Setenv("QCOMPOSE_BACKEND_TIMEOUT", "5")

	cfg := FromEnv()
	assert.Equal(t, 5, cfg.Qubits)
	assert.Equal(t, 200, cfg.Shots)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("QCOMPOSE_QUBITS", "three")
	t.Setenv("QCOMPOSE_SEED", "-1")

	cfg := FromEnv()
	assert.Equal(t, 3, cfg.Qubits)
	assert.Equal(t, uint64(0), cfg.Seed)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Qubits: 3, Shots: 10, Backend: BackendLocal, BackendTimeout: time.Second}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"ok", func(*Config) {}, ""},
		{"zero qubits", func(c *Config) { c.Qubits = 0 }, "QCOMPOSE_QUBITS"},
		{"too many qubits", func(c *Config) { c.Qubits = 9 }, "QCOMPOSE_QUBITS"},
		{"no shots", func(c *Config) { c.Shots = 0 }, "QCOMPOSE_SHOTS"},
		{"unknown backend", func(c *Config) { c.Backend = "aer" }, "unknown QCOMPOSE_BACKEND"},
		{"remote without url", func(c *Config) { c.Backend = BackendRemote }, "QCOMPOSE_BACKEND_URL"},
		{"zero timeout", func(c *Config) { c.BackendTimeout = 0 }, "QCOMPOSE_BACKEND_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLayoutFitsMaxQubits(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, 8, cfg.Layout().MaxQubits)
}
