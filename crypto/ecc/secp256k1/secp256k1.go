// Package secp256k1 wraps gnark-crypto's secp256k1 implementation with the
// point and scalar operations the vOPRF node needs: canonical scalar
// decoding, on-curve point validation, and a constant-time scalar
// multiplication for operations that touch the node's private key or a
// DLEQ nonce.
package secp256k1

import (
	"crypto/rand"
	"fmt"
	"math/big"

	secp "github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fp"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
)

// Scalar is an element of the secp256k1 scalar field (the curve's group
// order). The zero scalar is never a valid private key or DLEQ nonce.
type Scalar struct {
	inner fr.Element
}

// Order returns the order of the secp256k1 group.
func Order() *big.Int {
	return fr.Modulus()
}

// RandomScalar draws a uniformly random non-zero scalar from crypto/rand.
func RandomScalar() (*Scalar, error) {
	var s Scalar
	if _, err := s.inner.SetRandom(); err != nil {
		return nil, fmt.Errorf("draw random scalar: %w", err)
	}
	if s.inner.IsZero() {
		return RandomScalar()
	}
	return &s, nil
}

// ScalarFromBytes decodes a canonical 32-byte big-endian scalar. It rejects
// the zero scalar and any value not strictly less than the group order, so
// it is safe to use both for private keys and for peer-supplied nonces.
func ScalarFromBytes(b []byte) (*Scalar, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("scalar must be 32 bytes, got %d", len(b))
	}
	v := new(big.Int).SetBytes(b)
	if v.Sign() == 0 {
		return nil, fmt.Errorf("scalar is zero")
	}
	if v.Cmp(Order()) >= 0 {
		return nil, fmt.Errorf("scalar is not reduced modulo the group order")
	}
	var s Scalar
	s.inner.SetBigInt(v)
	return &s, nil
}

// ScalarFromBigInt reduces an arbitrary non-negative integer modulo the
// group order. Unlike ScalarFromBytes it never errors, so it must only be
// used for values already known to be well-formed (e.g. a DLEQ challenge
// derived from a hash).
func ScalarFromBigInt(v *big.Int) *Scalar {
	var s Scalar
	s.inner.SetBigInt(v)
	return &s
}

// Bytes returns the canonical 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() [32]byte {
	v := new(big.Int)
	s.inner.BigInt(v)
	var out [32]byte
	v.FillBytes(out[:])
	return out
}

// BigInt returns s as a big.Int in [0, Order).
func (s *Scalar) BigInt() *big.Int {
	v := new(big.Int)
	return s.inner.BigInt(v)
}

// IsZero reports whether s is the additive identity.
func (s *Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Sub returns s - o mod Order.
func (s *Scalar) Sub(o *Scalar) *Scalar {
	var r Scalar
	r.inner.Sub(&s.inner, &o.inner)
	return &r
}

// Mul returns s * o mod Order.
func (s *Scalar) Mul(o *Scalar) *Scalar {
	var r Scalar
	r.inner.Mul(&s.inner, &o.inner)
	return &r
}

// Point is a secp256k1 curve point held in affine coordinates.
type Point struct {
	inner secp.G1Affine
}

// Generator returns the secp256k1 base point G.
func Generator() *Point {
	_, aff := secp.Generators()
	return &Point{inner: aff}
}

// PointFromCoordinates builds a point from its affine (x, y) coordinates,
// rejecting values that don't lie on the curve or that encode the point at
// infinity. This is the entry point for every peer-supplied coordinate the
// node decodes (the client's blinded point H, reconstructed from the
// public-input limbs).
func PointFromCoordinates(x, y *big.Int) (*Point, error) {
	if x.Sign() < 0 || x.Cmp(fp.Modulus()) >= 0 {
		return nil, fmt.Errorf("x coordinate is not a canonical field element")
	}
	if y.Sign() < 0 || y.Cmp(fp.Modulus()) >= 0 {
		return nil, fmt.Errorf("y coordinate is not a canonical field element")
	}
	var p Point
	p.inner.X.SetBigInt(x)
	p.inner.Y.SetBigInt(y)
	if p.inner.X.IsZero() && p.inner.Y.IsZero() {
		return nil, fmt.Errorf("point is the identity")
	}
	if !p.inner.IsOnCurve() {
		return nil, fmt.Errorf("point is not on the secp256k1 curve")
	}
	return &p, nil
}

// X returns the affine x-coordinate.
func (p *Point) X() *big.Int {
	v := new(big.Int)
	return p.inner.X.BigInt(v)
}

// Y returns the affine y-coordinate.
func (p *Point) Y() *big.Int {
	v := new(big.Int)
	return p.inner.Y.BigInt(v)
}

// XBytes32 returns the 32-byte big-endian encoding of the x-coordinate.
func (p *Point) XBytes32() [32]byte {
	var out [32]byte
	p.X().FillBytes(out[:])
	return out
}

// YBytes32 returns the 32-byte big-endian encoding of the y-coordinate.
func (p *Point) YBytes32() [32]byte {
	var out [32]byte
	p.Y().FillBytes(out[:])
	return out
}

// IsOnCurve reports whether p satisfies the curve equation.
func (p *Point) IsOnCurve() bool {
	return p.inner.IsOnCurve()
}

// Equal reports whether p and o encode the same affine point.
func (p *Point) Equal(o *Point) bool {
	return p.inner.X.Equal(&o.inner.X) && p.inner.Y.Equal(&o.inner.Y)
}

// Add returns p + o using the library's variable-time Jacobian addition.
// Safe for combining public points; never use it with secret material.
func (p *Point) Add(o *Point) *Point {
	var pj, oj secp.G1Jac
	pj.FromAffine(&p.inner)
	oj.FromAffine(&o.inner)
	pj.AddAssign(&oj)
	var out Point
	out.inner.FromJacobian(&pj)
	return &out
}

// ScalarMult computes s*p using gnark-crypto's scalar multiplication. Its
// running time depends on the bits of s, so it must only be used when s is
// public (e.g. a DLEQ challenge or the client's blinded nonce). For the
// node's private key or DLEQ nonce use ScalarMultConstantTime instead.
func (p *Point) ScalarMult(s *Scalar) *Point {
	var pj secp.G1Jac
	pj.FromAffine(&p.inner)
	pj.ScalarMultiplication(&pj, s.BigInt())
	var out Point
	out.inner.FromJacobian(&pj)
	return &out
}

// ScalarMultConstantTime computes s*p with a fixed-iteration Montgomery
// ladder over all 256 bits of the scalar field, so that the sequence and
// count of point operations never depends on the value of s. Every
// operation that multiplies by the node's private key, or by a DLEQ nonce,
// goes through this method rather than ScalarMult.
func (p *Point) ScalarMultConstantTime(s *Scalar) *Point {
	var r0, r1 secp.G1Jac // r0 = identity, r1 = p
	r1.FromAffine(&p.inner)

	v := s.BigInt()
	for i := 255; i >= 0; i-- {
		bit := v.Bit(i)
		cswapJac(&r0, &r1, bit)
		r1.AddAssign(&r0)
		r0.Double(&r0)
		cswapJac(&r0, &r1, bit)
	}
	var out Point
	out.inner.FromJacobian(&r0)
	return &out
}

// cswapJac conditionally swaps a and b in constant time: when bit is 1 the
// two points are exchanged, when bit is 0 they are left untouched. The
// selection happens coordinate-by-coordinate via fp.Element.Select so that
// no data-dependent branch or memory access pattern appears in the ladder.
func cswapJac(a, b *secp.G1Jac, bit uint) {
	cond := int(bit)
	selectInPlace(&a.X, &b.X, cond)
	selectInPlace(&a.Y, &b.Y, cond)
	selectInPlace(&a.Z, &b.Z, cond)
}

// selectInPlace swaps a and b when cond != 0, leaving them untouched when
// cond == 0, using fp.Element's constant-time Select primitive.
func selectInPlace(a, b *fp.Element, cond int) {
	var newA, newB fp.Element
	newA.Select(cond, a, b)
	newB.Select(cond, b, a)
	*a = newA
	*b = newB
}

// RandomBytes32 returns 32 cryptographically random bytes from crypto/rand.
// Scalars, DLEQ nonces included, are drawn with RandomScalar instead.
func RandomBytes32() ([32]byte, error) {
	var out [32]byte
	if _, err := rand.Read(out[:]); err != nil {
		return out, fmt.Errorf("read random bytes: %w", err)
	}
	return out, nil
}
