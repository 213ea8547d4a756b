package pubinput

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/voprf-id/node/crypto/ecc/secp256k1"
)

func TestParseRejectsWrongLength(t *testing.T) {
	c := qt.New(t)
	_, err := Parse(make([]byte, Length-1))
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseReconstructsGeneratorCoordinates(t *testing.T) {
	c := qt.New(t)

	g := secp256k1.Generator()
	blob := make([]byte, Length)
	copy(blob[:CommitmentLength], []byte("commitment-placeholder-32-bytes"))
	encodeCoordinate(blob[CommitmentLength:CommitmentLength+3*limbLength], g.X())
	encodeCoordinate(blob[CommitmentLength+3*limbLength:], g.Y())

	pi, err := Parse(blob)
	c.Assert(err, qt.IsNil)
	c.Assert(pi.X.Cmp(g.X()), qt.Equals, 0)
	c.Assert(pi.Y.Cmp(g.Y()), qt.Equals, 0)

	p, err := pi.Point()
	c.Assert(err, qt.IsNil)
	c.Assert(p.Equal(g), qt.IsTrue)
}

func TestPointRejectsOffCurveCoordinates(t *testing.T) {
	c := qt.New(t)

	pi := &PublicInputs{X: big.NewInt(1), Y: big.NewInt(2)}
	_, err := pi.Point()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestECPointRoundTrip(t *testing.T) {
	c := qt.New(t)

	g := secp256k1.Generator()
	wire := ECPointFromPoint(g)
	c.Assert(wire.X, qt.HasLen, 64)
	c.Assert(wire.Y, qt.HasLen, 64)

	back, err := PointFromECPoint(wire)
	c.Assert(err, qt.IsNil)
	c.Assert(back.Equal(g), qt.IsTrue)
}

func TestPointFromECPointRejectsBadHex(t *testing.T) {
	c := qt.New(t)

	g := secp256k1.Generator()
	wire := ECPointFromPoint(g)

	short := wire
	short.X = wire.X[:62]
	_, err := PointFromECPoint(short)
	c.Assert(err, qt.Not(qt.IsNil))

	junk := wire
	junk.Y = "zz" + wire.Y[2:]
	_, err = PointFromECPoint(junk)
	c.Assert(err, qt.Not(qt.IsNil))
}

// encodeCoordinate is the test-side inverse of reconstructCoordinate.
func encodeCoordinate(dst []byte, v *big.Int) {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), limbShift1), big.NewInt(1))
	limb0 := new(big.Int).And(v, mask)
	rest := new(big.Int).Rsh(v, limbShift1)
	limb1 := new(big.Int).And(rest, mask)
	limb2 := new(big.Int).Rsh(rest, limbShift1)

	limb0.FillBytes(dst[0:limbLength])
	limb1.FillBytes(dst[limbLength : 2*limbLength])
	limb2.FillBytes(dst[2*limbLength : 3*limbLength])
}
