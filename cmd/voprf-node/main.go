// Command voprf-node runs a single node of a verifiable OPRF service:
// initialize provisions and announces the node's long-term key, serve
// runs the HTTP evaluate endpoint against an already-initialized key.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"

	"github.com/voprf-id/node/config"
	"github.com/voprf-id/node/crypto/keystore"
	"github.com/voprf-id/node/crypto/registry"
	"github.com/voprf-id/node/crypto/signatures/ethereum"
	"github.com/voprf-id/node/crypto/verifier"
	"github.com/voprf-id/node/log"
	"github.com/voprf-id/node/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: voprf-node <initialize|serve> [flags]")
		os.Exit(1)
	}
	cmd := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.Log.Level, cfg.Log.Output, nil)
	log.Infow("starting voprf-node", "version", Version, "command", cmd)

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	switch cmd {
	case "initialize":
		if err := runInitialize(cfg); err != nil {
			log.Fatalf("initialize failed: %v", err)
		}
	case "serve":
		if err := runServe(cfg); err != nil {
			log.Fatalf("serve failed: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q, expected initialize or serve\n", cmd)
		os.Exit(1)
	}
}

// dialRegistry builds a registry client from cfg, signed by cfg.Web3.PrivKey
// when one is configured (required for initialize's announcement, optional
// for serve's read-only preflight).
func dialRegistry(ctx context.Context, cfg *config.Config) (*registry.Client, error) {
	addrHex, err := registryContractAddress(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Web3.Rpc == "" {
		return nil, fmt.Errorf("web3.rpc is required to reach the registry")
	}

	var signer *ethereum.Signer
	if cfg.Web3.PrivKey != "" {
		signer, err = ethereum.NewSignerFromHex(cfg.Web3.PrivKey)
		if err != nil {
			return nil, fmt.Errorf("parse web3 private key: %w", err)
		}
	}

	return registry.Dial(ctx, cfg.Web3.Rpc, common.HexToAddress(addrHex), signer)
}

// runInitialize generates a fresh key pair, announces it to the registry,
// and only then persists it to disk, so a node never ends up holding a
// key the registry doesn't know about. An already-initialized node is a
// no-op unless --force is given.
func runInitialize(cfg *config.Config) error {
	store := keystore.New(cfg.Key.Path)
	if store.Exists() && !cfg.Force {
		log.Infow("key already exists, nothing to do (use --force to overwrite)", "key", cfg.Key.Path)
		return nil
	}

	kp, err := keystore.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generate key pair: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg, err := dialRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("dial registry: %w", err)
	}
	pubKey := registry.PublicKeyWords(kp.Y)
	if err := reg.Register(ctx, pubKey); err != nil {
		return fmt.Errorf("announce public key to registry: %w", err)
	}
	log.Infow("announced public key to registry", "x", fmt.Sprintf("%x", pubKey[0]), "y", fmt.Sprintf("%x", pubKey[1]))

	if err := store.Persist(kp); err != nil {
		return fmt.Errorf("persist key pair (already registered, retry persisting manually): %w", err)
	}
	log.Infow("node initialized", "key", cfg.Key.Path)
	return nil
}

// runServe starts the HTTP evaluate endpoint against an already-persisted
// key, after an optional registry preflight check.
func runServe(cfg *config.Config) error {
	store := keystore.New(cfg.Key.Path)
	kp, err := store.EnsureReady()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Web3.Rpc != "" {
		reg, err := dialRegistry(ctx, cfg)
		if err != nil {
			log.Warnw("registry preflight skipped: could not dial registry", "error", err.Error())
		} else {
			registered, err := reg.IsRegistered(ctx, registry.PublicKeyWords(kp.Y))
			if err != nil {
				log.Warnw("registry preflight check failed", "error", err.Error())
			} else if !registered {
				return fmt.Errorf("node public key is not registered; run the initialize command first")
			}
		}
	}

	verifierAdapter := verifier.New(verifier.Config{
		BinaryPath:       cfg.Verifier.BinaryPath,
		VerifyingKeyPath: cfg.Verifier.VerifyingKeyPath,
		Timeout:          cfg.Verifier.Timeout,
	}, cfg.Verifier.ConcurrencyLimit)

	apiService := service.NewAPI(store, verifierAdapter, cfg.API.Host, cfg.API.Port)
	if err := apiService.Start(ctx); err != nil {
		return fmt.Errorf("start API service: %w", err)
	}
	defer apiService.Stop()

	log.Infow("voprf-node is running", "host", cfg.API.Host, "port", cfg.API.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
	return nil
}
