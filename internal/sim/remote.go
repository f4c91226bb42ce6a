package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"qcompose/internal/circuit"
	"qcompose/internal/export"
)

// RemoteConfig points at an execution service that accepts OpenQASM.
type RemoteConfig struct {
	// URL of the run endpoint.
	URL string

	// Optional bearer token.
	Token string

	// Backend name passed through to the service.
	BackendName string

	HTTPClient *http.Client
}

// Remote submits programs as OpenQASM 2.0 and reads back counts.
type Remote struct {
	config RemoteConfig
}

type remoteJob struct {
	QASM    string `json:"qasm"`
	Shots   int    `json:"shots"`
	Backend string `json:"backend,omitempty"`
}

type remoteResult struct {
	Counts  map[string]int `json:"counts"`
	Success *bool          `json:"success,omitempty"`
	Status  string         `json:"status,omitempty"`
}

func NewRemote(config RemoteConfig) (*Remote, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("remote backend URL is required")
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Remote{config: config}, nil
}

func (r *Remote) Name() string {
	if r.config.BackendName != "" {
		return "remote:" + r.config.BackendName
	}
	return "remote"
}

// Run posts the program and waits for the counts.
func (r *Remote) Run(ctx context.Context, p circuit.Program, shots int) (Result, error) {
	if shots < 1 {
		return Result{}, ErrInvalidShotCount
	}
	if err := Validate(p, true); err != nil {
		return Result{}, err
	}
	qasm, err := export.QASM(p)
	if err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(remoteJob{QASM: qasm, Shots: shots, Backend: r.config.BackendName})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.URL, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.config.Token)
	}

	resp, err := r.config.HTTPClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("job submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("job submission failed: %s (status: %d)", bytes.TrimSpace(msg), resp.StatusCode)
	}

	var out remoteResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decode job result: %w", err)
	}
	if out.Success != nil && !*out.Success {
		return Result{}, fmt.Errorf("job failed: %s", out.Status)
	}

	res := Result{Counts: make(map[string]int, len(out.Counts))}
	for k, v := range out.Counts {
		res.Counts[normalizeBits(k)] += v
		res.Shots += v
	}
	return res, nil
}

// normalizeBits drops the register separators some services put in keys.
func normalizeBits(k string) string {
	return strings.ReplaceAll(k, " ", "")
}
