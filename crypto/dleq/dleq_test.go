package dleq

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/voprf-id/node/crypto/ecc/secp256k1"
)

func fixedScalar(c *qt.C, v int64) *secp256k1.Scalar {
	c.Helper()
	var b [32]byte
	big.NewInt(v).FillBytes(b[:])
	out, err := secp256k1.ScalarFromBytes(b[:])
	c.Assert(err, qt.IsNil)
	return out
}

func TestNewThenVerifySucceeds(t *testing.T) {
	c := qt.New(t)

	g := secp256k1.Generator()
	sk := fixedScalar(c, 12345)
	y := g.ScalarMultConstantTime(sk)

	// H is an independent point: another multiple of G works fine for
	// this property, since DLEQ only requires G and H to be distinct
	// generators of the same group.
	hScalar := fixedScalar(c, 777)
	h := g.ScalarMultConstantTime(hScalar)
	z := h.ScalarMultConstantTime(sk)

	proof, err := New(g, h, y, z, sk)
	c.Assert(err, qt.IsNil)
	c.Assert(Verify(g, h, y, z, proof), qt.IsTrue)
}

func TestVerifyRejectsTamperedZ(t *testing.T) {
	c := qt.New(t)

	g := secp256k1.Generator()
	sk := fixedScalar(c, 12345)
	y := g.ScalarMultConstantTime(sk)

	hScalar := fixedScalar(c, 777)
	h := g.ScalarMultConstantTime(hScalar)
	z := h.ScalarMultConstantTime(sk)

	proof, err := New(g, h, y, z, sk)
	c.Assert(err, qt.IsNil)

	wrongSK := fixedScalar(c, 999)
	wrongZ := h.ScalarMultConstantTime(wrongSK)
	c.Assert(Verify(g, h, y, wrongZ, proof), qt.IsFalse)
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	c := qt.New(t)

	g := secp256k1.Generator()
	sk := fixedScalar(c, 12345)
	y := g.ScalarMultConstantTime(sk)
	hScalar := fixedScalar(c, 777)
	h := g.ScalarMultConstantTime(hScalar)
	z := h.ScalarMultConstantTime(sk)

	proof, err := New(g, h, y, z, sk)
	c.Assert(err, qt.IsNil)

	tampered := &Proof{C: proof.C, S: fixedScalar(c, 1)}
	c.Assert(Verify(g, h, y, z, tampered), qt.IsFalse)
}

// The Fiat-Shamir challenge binds all four group elements in a fixed
// order, so presenting the same proof with any two of them exchanged must
// fail verification.
func TestVerifyRejectsSwappedTranscriptInputs(t *testing.T) {
	c := qt.New(t)

	g := secp256k1.Generator()
	sk := fixedScalar(c, 12345)
	y := g.ScalarMultConstantTime(sk)
	hScalar := fixedScalar(c, 777)
	h := g.ScalarMultConstantTime(hScalar)
	z := h.ScalarMultConstantTime(sk)

	proof, err := New(g, h, y, z, sk)
	c.Assert(err, qt.IsNil)
	c.Assert(Verify(g, h, y, z, proof), qt.IsTrue)

	c.Assert(Verify(h, g, y, z, proof), qt.IsFalse)
	c.Assert(Verify(g, h, z, y, proof), qt.IsFalse)
	c.Assert(Verify(g, y, h, z, proof), qt.IsFalse)
}

func TestProofToWireIsPaddedHex(t *testing.T) {
	c := qt.New(t)

	g := secp256k1.Generator()
	sk := fixedScalar(c, 3)
	y := g.ScalarMultConstantTime(sk)
	z := g.ScalarMultConstantTime(sk)

	proof, err := New(g, g, y, z, sk)
	c.Assert(err, qt.IsNil)

	wire := proof.ToWire()
	c.Assert(wire.C, qt.HasLen, 64)
	c.Assert(wire.S, qt.HasLen, 64)
}
