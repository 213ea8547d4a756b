package verifier

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

// fakeVerifierScript returns a path to a shell script that mimics "bb
// verify": it exits 0 when the proof file's first byte is 1, exits 1
// otherwise.
func fakeVerifierScript(c *qt.C) string {
	c.Helper()
	if runtime.GOOS == "windows" {
		c.Skip("fake verifier script is a POSIX shell script")
	}
	script := filepath.Join(c.TempDir(), "bb")
	contents := "#!/bin/sh\n" +
		"proof=\"$5\"\n" +
		"first=$(head -c 1 \"$proof\" | od -An -tu1 | tr -d ' ')\n" +
		"if [ \"$first\" = \"1\" ]; then exit 0; fi\n" +
		"echo 'proof invalid' >&2\n" +
		"exit 1\n"
	c.Assert(os.WriteFile(script, []byte(contents), 0o755), qt.IsNil)
	return script
}

func TestVerifyAcceptsValidProof(t *testing.T) {
	c := qt.New(t)

	bin := fakeVerifierScript(c)
	a := New(Config{BinaryPath: bin, VerifyingKeyPath: "vk", Timeout: 2 * time.Second}, 2)
	err := a.Verify(context.Background(), []byte{1, 2, 3})
	c.Assert(err, qt.IsNil)
}

func TestVerifyRejectsInvalidProof(t *testing.T) {
	c := qt.New(t)

	bin := fakeVerifierScript(c)
	a := New(Config{BinaryPath: bin, VerifyingKeyPath: "vk", Timeout: 2 * time.Second}, 2)
	err := a.Verify(context.Background(), []byte{0, 2, 3})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestVerifyRespectsContextCancellation(t *testing.T) {
	c := qt.New(t)

	bin := fakeVerifierScript(c)
	a := New(Config{BinaryPath: bin, VerifyingKeyPath: "vk", Timeout: 2 * time.Second}, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.Verify(ctx, []byte{1})
	c.Assert(err, qt.Not(qt.IsNil))
}
