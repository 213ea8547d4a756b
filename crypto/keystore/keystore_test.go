package keystore

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestGenerateThenPersistThenLoadRoundTrip(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "node.key")

	kp, err := GenerateKeyPair()
	c.Assert(err, qt.IsNil)

	store := New(path)
	c.Assert(store.Exists(), qt.IsFalse)
	c.Assert(store.Persist(kp), qt.IsNil)
	c.Assert(store.Exists(), qt.IsTrue)

	loader := New(path)
	loaded, err := loader.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.SK.Bytes(), qt.Equals, kp.SK.Bytes())
	c.Assert(loaded.Y.Equal(kp.Y), qt.IsTrue)
}

func TestEnsureReadyFailsWithoutExistingKey(t *testing.T) {
	c := qt.New(t)

	store := New(filepath.Join(t.TempDir(), "missing.key"))
	_, err := store.EnsureReady()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestEnsureReadyCachesLoadedKey(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "node.key")

	kp, err := GenerateKeyPair()
	c.Assert(err, qt.IsNil)
	store := New(path)
	c.Assert(store.Persist(kp), qt.IsNil)

	first, err := store.EnsureReady()
	c.Assert(err, qt.IsNil)
	second, err := store.EnsureReady()
	c.Assert(err, qt.IsNil)
	c.Assert(first.Y.Equal(second.Y), qt.IsTrue)
}
