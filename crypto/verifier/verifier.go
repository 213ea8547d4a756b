// Package verifier adapts the node's evaluate handler to an external ZK
// proof verifier binary. The node treats proof verification as an opaque
// subprocess call; it never links a proving/verifying circuit in-process.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config describes how to invoke the external verifier.
type Config struct {
	// BinaryPath is the path to the verifier executable (e.g. "bb").
	BinaryPath string
	// VerifyingKeyPath is the circuit's verifying key, passed via -k.
	VerifyingKeyPath string
	// Timeout bounds a single verification call.
	Timeout time.Duration
	// TempDir is where per-request proof files are written. Empty means
	// os.TempDir().
	TempDir string
}

// Adapter dispatches proof verification onto a bounded pool of worker
// goroutines, so the blocking subprocess call never runs directly on an
// HTTP request's goroutine.
type Adapter struct {
	cfg Config
	sem chan struct{}
}

// New returns an Adapter that allows at most concurrency verifications to
// run at the same time.
func New(cfg Config, concurrency int) *Adapter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Adapter{cfg: cfg, sem: make(chan struct{}, concurrency)}
}

// Verify writes proof to a uniquely-named temporary file and runs the
// configured verifier binary against it, blocking the caller until the
// result is known or ctx is done. The actual subprocess call happens on a
// dedicated goroutine gated by the adapter's worker pool.
func (a *Adapter) Verify(ctx context.Context, proof []byte) error {
	resultCh := make(chan error, 1)
	go func() {
		select {
		case a.sem <- struct{}{}:
		case <-ctx.Done():
			resultCh <- ctx.Err()
			return
		}
		defer func() { <-a.sem }()
		resultCh <- a.verifyBlocking(ctx, proof)
	}()

	select {
	case err := <-resultCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// verifyBlocking performs the actual subprocess invocation and must only
// ever run on a worker goroutine, never on the request goroutine directly.
func (a *Adapter) verifyBlocking(ctx context.Context, proof []byte) error {
	tempDir := a.cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	proofPath := filepath.Join(tempDir, fmt.Sprintf("voprf-proof-%s.bin", uuid.NewString()))
	if err := os.WriteFile(proofPath, proof, 0o600); err != nil {
		return fmt.Errorf("write temp proof file: %w", err)
	}
	defer func() { _ = os.Remove(proofPath) }()

	timeout := a.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, a.cfg.BinaryPath,
		"verify", "-k", a.cfg.VerifyingKeyPath, "-p", proofPath)
	_, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("proof rejected: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return fmt.Errorf("invoke verifier binary: %w", err)
	}
	return nil
}
