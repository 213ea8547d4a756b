package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/voprf-id/node/crypto/keystore"
	"github.com/voprf-id/node/crypto/verifier"
	"github.com/voprf-id/node/log"
)

const maxRequestBodyLog = 512 // maximum length of a logged request body

// Config describes everything the request orchestrator needs: the node's
// long-term key, the external ZK verifier adapter, and the listen address.
type Config struct {
	Host string
	Port int

	// KeyStore holds the node's long-term (sk, Y) pair. It must already be
	// ready to serve (EnsureReady succeeded) before New is called; the API
	// layer never generates or persists a key itself.
	KeyStore *keystore.Store

	// Verifier dispatches ZK proof verification to a blocking worker pool,
	// off the HTTP goroutine.
	Verifier *verifier.Adapter
}

// API is the vOPRF node's single HTTP endpoint: POST /api/v1/evaluate.
type API struct {
	router   *chi.Mux
	keys     *keystore.Store
	verifier *verifier.Adapter
}

// New validates conf, builds the router, and starts listening in the
// background. It returns once the listener goroutine has been scheduled,
// not once it is actually accepting connections.
func New(ctx context.Context, conf *Config) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.KeyStore == nil {
		return nil, fmt.Errorf("missing key store")
	}
	if conf.Verifier == nil {
		return nil, fmt.Errorf("missing ZK proof verifier adapter")
	}
	// Fail fast: the key must already be on disk. The API never generates
	// or persists one itself.
	if _, err := conf.KeyStore.EnsureReady(); err != nil {
		return nil, fmt.Errorf("key store not ready: %w", err)
	}

	a := &API{keys: conf.KeyStore, verifier: conf.Verifier}
	a.initRouter()

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.Host, conf.Port)
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           a.router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes.
func (a *API) Router() *chi.Mux {
	return a.router
}

// initRouter builds the middleware chain and registers the node's two
// routes: a health check and the evaluate endpoint.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)
	a.router.Use(loggingMiddleware(maxRequestBodyLog))
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Timeout(45 * time.Second))

	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})

	log.Infow("register handler", "endpoint", EvaluateEndpoint, "method", "POST")
	a.router.Post(EvaluateEndpoint, a.evaluate)
}

// PublicKey exposes the node's public point, as hex-encoded x and y
// coordinates, for callers that need it without reaching into the key
// store directly.
func (a *API) PublicKey() (string, string, error) {
	y, err := a.keys.PublicKey()
	if err != nil {
		return "", "", err
	}
	xb := y.XBytes32()
	yb := y.YBytes32()
	return fmt.Sprintf("%x", xb), fmt.Sprintf("%x", yb), nil
}
