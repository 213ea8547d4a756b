// Package keystore manages the node's long-term secp256k1 key pair: the
// secret scalar sk and its public point Y = sk*G. The key is generated
// once, persisted to a file, and loaded back on every subsequent start.
package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/voprf-id/node/crypto/ecc/secp256k1"
)

// KeyPair is the node's long-term signing/evaluation key.
type KeyPair struct {
	SK *secp256k1.Scalar
	Y  *secp256k1.Point
}

// GenerateKeyPair draws a fresh random scalar and derives its public point.
// It does not touch disk: callers that must announce the key to a registry
// before it is considered valid (see Store.Persist) generate first,
// register, and only then persist.
func GenerateKeyPair() (*KeyPair, error) {
	sk, err := secp256k1.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return &KeyPair{SK: sk, Y: secp256k1.Generator().ScalarMultConstantTime(sk)}, nil
}

// Store manages persistence of a single KeyPair under a file path, and
// caches the loaded key pair behind a lock so concurrent evaluate requests
// share one in-memory copy instead of re-reading the file.
type Store struct {
	path string

	mu   sync.RWMutex
	keys *KeyPair
}

// New returns a Store rooted at path. It does not read or write anything
// until Load, Persist, or EnsureReady is called.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the key file path this store manages.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a key file is already present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the persisted key from disk, decodes it and caches it. It
// fails if no key file is present or the file does not hold a canonical
// 32-byte scalar.
func (s *Store) Load() (*KeyPair, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	sk, err := secp256k1.ScalarFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode key file %s: %w", s.path, err)
	}
	kp := &KeyPair{SK: sk, Y: secp256k1.Generator().ScalarMultConstantTime(sk)}
	s.mu.Lock()
	s.keys = kp
	s.mu.Unlock()
	return kp, nil
}

// Persist writes kp's private key to disk as a raw 32-byte big-endian
// scalar, atomically: the key is written to a temporary file in the same
// directory and then renamed over the final path, so a crash mid-write
// never leaves a half-written key file in place.
func (s *Store) Persist(kp *KeyPair) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".keystore-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp key file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	skBytes := kp.SK.Bytes()
	if _, err := tmp.Write(skBytes[:]); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp key file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp key file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp key file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename temp key file into place: %w", err)
	}

	s.mu.Lock()
	s.keys = kp
	s.mu.Unlock()
	return nil
}

// EnsureReady returns the cached key pair if one has already been loaded,
// otherwise loads it from disk. It never generates a key: generation is an
// explicit, registry-gated operation performed by the CLI's initialize
// command, not an implicit side effect of starting the server.
func (s *Store) EnsureReady() (*KeyPair, error) {
	s.mu.RLock()
	kp := s.keys
	s.mu.RUnlock()
	if kp != nil {
		return kp, nil
	}
	if !s.Exists() {
		return nil, fmt.Errorf("no key found at %s: run the initialize command first", s.path)
	}
	return s.Load()
}

// PublicKey returns the node's public point Y without exposing sk.
func (s *Store) PublicKey() (*secp256k1.Point, error) {
	kp, err := s.EnsureReady()
	if err != nil {
		return nil, err
	}
	return kp.Y, nil
}
