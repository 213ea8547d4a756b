package secp256k1

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/secp256k1/fp"
	qt "github.com/frankban/quicktest"
)

func TestGeneratorIsOnCurve(t *testing.T) {
	c := qt.New(t)
	c.Assert(Generator().IsOnCurve(), qt.IsTrue)
}

func TestScalarFromBytesRejectsZero(t *testing.T) {
	c := qt.New(t)
	var zero [32]byte
	_, err := ScalarFromBytes(zero[:])
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestScalarFromBytesRejectsOutOfRange(t *testing.T) {
	c := qt.New(t)
	tooBig := Order().Bytes()
	_, err := ScalarFromBytes(tooBig)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestScalarFromBytesRoundTrip(t *testing.T) {
	c := qt.New(t)

	s, err := RandomScalar()
	c.Assert(err, qt.IsNil)
	b := s.Bytes()
	s2, err := ScalarFromBytes(b[:])
	c.Assert(err, qt.IsNil)
	c.Assert(s2.Bytes(), qt.Equals, s.Bytes())
}

func TestScalarMultConstantTimeMatchesVariableTime(t *testing.T) {
	c := qt.New(t)

	g := Generator()
	sk, err := ScalarFromBytes(scalarBytes(big.NewInt(12345)))
	c.Assert(err, qt.IsNil)

	want := g.ScalarMult(sk)
	got := g.ScalarMultConstantTime(sk)
	c.Assert(want.Equal(got), qt.IsTrue)
}

func TestPointFromCoordinatesRejectsOffCurve(t *testing.T) {
	c := qt.New(t)
	_, err := PointFromCoordinates(big.NewInt(1), big.NewInt(2))
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestPointFromCoordinatesRejectsNonCanonicalFieldElement(t *testing.T) {
	c := qt.New(t)

	g := Generator()
	// x + p denotes the same residue as x but is not a canonical SEC1
	// coordinate, so it must be rejected rather than reduced.
	shifted := new(big.Int).Add(g.X(), fp.Modulus())
	_, err := PointFromCoordinates(shifted, g.Y())
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestPointFromCoordinatesRejectsIdentity(t *testing.T) {
	c := qt.New(t)
	_, err := PointFromCoordinates(big.NewInt(0), big.NewInt(0))
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestPointFromCoordinatesAcceptsGenerator(t *testing.T) {
	c := qt.New(t)

	g := Generator()
	p, err := PointFromCoordinates(g.X(), g.Y())
	c.Assert(err, qt.IsNil)
	c.Assert(p.Equal(g), qt.IsTrue)
}

func scalarBytes(v *big.Int) []byte {
	var out [32]byte
	v.FillBytes(out[:])
	return out[:]
}
