// Package service wraps the node's long-running HTTP API behind a
// Start/Stop lifecycle.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/voprf-id/node/api"
	"github.com/voprf-id/node/crypto/keystore"
	"github.com/voprf-id/node/crypto/verifier"
	"github.com/voprf-id/node/log"
)

// APIService manages the HTTP API server's lifecycle.
type APIService struct {
	keys     *keystore.Store
	verifier *verifier.Adapter
	host     string
	port     int

	mu     sync.Mutex
	API    *api.API
	cancel context.CancelFunc
}

// NewAPI creates a new APIService instance bound to a ready key store and
// ZK proof verifier adapter.
func NewAPI(keys *keystore.Store, verifierAdapter *verifier.Adapter, host string, port int) *APIService {
	return &APIService{
		keys:     keys,
		verifier: verifierAdapter,
		host:     host,
		port:     port,
	}
}

// Start begins the API server. It returns an error if the service is
// already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	serveCtx, cancel := context.WithCancel(ctx)
	as.cancel = cancel

	var err error
	as.API, err = api.New(serveCtx, &api.Config{
		Host:     as.host,
		Port:     as.port,
		KeyStore: as.keys,
		Verifier: as.verifier,
	})
	if err != nil {
		as.cancel()
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}
	return nil
}

// Stop halts the API server.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
	log.Infow("API service stopped", "host", as.host, "port", as.port)
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}
