// Package pubinput decodes the public inputs a client attaches to an
// evaluate request, and provides the wire encoding used to hand curve
// points back to the client in JSON responses.
package pubinput

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/voprf-id/node/crypto/ecc/secp256k1"
)

const (
	// CommitmentLength is the size, in bytes, of the client's commitment
	// to (uid, r) carried alongside the blinded point.
	CommitmentLength = 32
	// limbLength is the size, in bytes, of each of the three 120-bit-ish
	// limbs used to encode a single 256-bit coordinate in a form that is
	// cheap to constrain inside the client's ZK circuit.
	limbLength = 32
	// limbsPerCoordinate limbs are concatenated, least-significant first,
	// to reconstruct one 256-bit coordinate: x = limb0 + limb1*2^120 +
	// limb2*2^240.
	limbsPerCoordinate = 3
	limbShift1         = 120
	limbShift2         = 240

	// Length is the total size of the public-inputs blob: a 32-byte
	// commitment followed by three 32-byte limbs for each of the blinded
	// point's x and y coordinates.
	Length = CommitmentLength + 2*limbsPerCoordinate*limbLength
)

// PublicInputs is the decoded form of the bytes a client submits alongside
// its ZK proof: a binding commitment and the blinded point H = r*Hash(uid).
type PublicInputs struct {
	Commitment [CommitmentLength]byte
	X, Y       *big.Int
}

// Parse decodes a Length-byte public-inputs blob. It does not validate that
// (X, Y) is a point on the curve; callers must feed the result through
// secp256k1.PointFromCoordinates (via Point) before using it.
func Parse(data []byte) (*PublicInputs, error) {
	if len(data) != Length {
		return nil, fmt.Errorf("public inputs must be %d bytes, got %d", Length, len(data))
	}
	pi := &PublicInputs{}
	copy(pi.Commitment[:], data[:CommitmentLength])

	xLimbs := data[CommitmentLength : CommitmentLength+limbsPerCoordinate*limbLength]
	yLimbs := data[CommitmentLength+limbsPerCoordinate*limbLength:]

	pi.X = reconstructCoordinate(xLimbs)
	pi.Y = reconstructCoordinate(yLimbs)
	return pi, nil
}

// reconstructCoordinate combines three limbLength-byte big-endian limbs
// into a single coordinate. The caller guarantees len(limbs) ==
// limbsPerCoordinate*limbLength.
func reconstructCoordinate(limbs []byte) *big.Int {
	limb0 := new(big.Int).SetBytes(limbs[0:limbLength])
	limb1 := new(big.Int).SetBytes(limbs[limbLength : 2*limbLength])
	limb2 := new(big.Int).SetBytes(limbs[2*limbLength : 3*limbLength])

	v := new(big.Int).Lsh(limb1, limbShift1)
	v.Add(v, limb0)
	v.Add(v, new(big.Int).Lsh(limb2, limbShift2))
	return v
}

// CommitmentHex returns the client's commitment as a 0x-prefixed lowercase
// hex string, the form it is surfaced in throughout the rest of the system.
func (pi *PublicInputs) CommitmentHex() string {
	return "0x" + hex.EncodeToString(pi.Commitment[:])
}

// Point validates and returns the blinded point H encoded by pi.
func (pi *PublicInputs) Point() (*secp256k1.Point, error) {
	return secp256k1.PointFromCoordinates(pi.X, pi.Y)
}

// ECPoint is the JSON wire encoding of a curve point: hex-encoded,
// big-endian, 32-byte coordinates.
type ECPoint struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// ECPointFromPoint encodes p for inclusion in an HTTP response.
func ECPointFromPoint(p *secp256k1.Point) ECPoint {
	xb := p.XBytes32()
	yb := p.YBytes32()
	return ECPoint{
		X: fmt.Sprintf("%x", xb),
		Y: fmt.Sprintf("%x", yb),
	}
}

// PointFromECPoint decodes a wire-encoded point. Each coordinate must be
// exactly 64 hex characters, and the decoded pair must name a
// non-identity point on the curve.
func PointFromECPoint(e ECPoint) (*secp256k1.Point, error) {
	x, err := decodeCoordinate(e.X)
	if err != nil {
		return nil, fmt.Errorf("x coordinate: %w", err)
	}
	y, err := decodeCoordinate(e.Y)
	if err != nil {
		return nil, fmt.Errorf("y coordinate: %w", err)
	}
	return secp256k1.PointFromCoordinates(x, y)
}

func decodeCoordinate(s string) (*big.Int, error) {
	if len(s) != 64 {
		return nil, fmt.Errorf("must be 64 hex characters, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return new(big.Int).SetBytes(b), nil
}
