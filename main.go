package main

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qcompose/internal/config"
	"qcompose/internal/logger"
	"qcompose/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closer, err := logger.OpenFile(logger.Config{Level: cfg.LogLevel}, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()
	logger.SetGlobalLogger(log)

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	log.Info().Str("backend", backend.Name()).Int("qubits", cfg.Qubits).Msg("starting")

	p := tea.NewProgram(newModel(cfg, backend, log), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func newBackend(cfg *config.Config) (sim.Backend, error) {
	if cfg.Backend == config.BackendRemote {
		return sim.NewRemote(sim.RemoteConfig{
			URL:        cfg.BackendURL,
			Token:      cfg.BackendToken,
			HTTPClient: &http.Client{Timeout: cfg.BackendTimeout},
		})
	}
	return sim.NewLocal(cfg.Seed), nil
}
