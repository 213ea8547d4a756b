// Package dleq implements a Chaum-Pedersen discrete-log-equality proof
// with a Fiat-Shamir transform: a proof that (G, Y) and (H, Z) share the
// same discrete log sk, without revealing sk.
package dleq

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"math/big"

	"github.com/voprf-id/node/crypto/ecc/secp256k1"
)

// Proof is a non-interactive Chaum-Pedersen proof (c, s) for the relation
// Y = sk*G, Z = sk*H.
type Proof struct {
	C *secp256k1.Scalar
	S *secp256k1.Scalar
}

// New constructs a proof that the node's private key sk is the discrete
// log of both Y (with base G) and Z (with base H). The nonce k is drawn
// fresh for every call and both scalar multiplications that touch it or sk
// run through the constant-time ladder.
func New(g, h, y, z *secp256k1.Point, sk *secp256k1.Scalar) (*Proof, error) {
	k, err := secp256k1.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("draw DLEQ nonce: %w", err)
	}
	a := g.ScalarMultConstantTime(k)
	b := h.ScalarMultConstantTime(k)
	c := challenge(g, h, y, z, a, b)
	s := k.Sub(c.Mul(sk))
	return &Proof{C: c, S: s}, nil
}

// Verify checks that proof attests to Y and Z sharing a discrete log
// relative to bases G and H. It reconstructs A' = s*G + c*Y and
// B' = s*H + c*Z and recomputes the challenge over them; this only needs
// to be constant-time if a verifier wants to hide which proofs it checks,
// which this node does not, so ScalarMult (not the constant-time ladder)
// is used here.
func Verify(g, h, y, z *secp256k1.Point, proof *Proof) bool {
	if proof == nil || proof.C == nil || proof.S == nil {
		return false
	}
	aPrime := g.ScalarMult(proof.S).Add(y.ScalarMult(proof.C))
	bPrime := h.ScalarMult(proof.S).Add(z.ScalarMult(proof.C))
	cPrime := challenge(g, h, y, z, aPrime, bPrime)
	return cPrime.BigInt().Cmp(proof.C.BigInt()) == 0
}

// challenge computes c = SHA256(G || H || Y || Z || A || B), where each
// point is encoded in SEC1 uncompressed form, and reduces the digest
// modulo the group order.
func challenge(points ...*secp256k1.Point) *secp256k1.Scalar {
	h := sha256.New()
	for _, p := range points {
		writeUncompressed(h, p)
	}
	digest := h.Sum(nil)
	return secp256k1.ScalarFromBigInt(new(big.Int).SetBytes(digest))
}

// writeUncompressed appends the SEC1 uncompressed encoding of p (0x04 || x
// || y, 65 bytes) to h.
func writeUncompressed(h hash.Hash, p *secp256k1.Point) {
	h.Write([]byte{0x04})
	xb := p.XBytes32()
	yb := p.YBytes32()
	h.Write(xb[:])
	h.Write(yb[:])
}

// Wire is the JSON-serializable encoding of a Proof: hex-encoded,
// big-endian, 32-byte scalars.
type Wire struct {
	C string `json:"c"`
	S string `json:"s"`
}

// ToWire encodes p for inclusion in an HTTP response.
func (p *Proof) ToWire() Wire {
	cb := p.C.Bytes()
	sb := p.S.Bytes()
	return Wire{
		C: fmt.Sprintf("%x", cb),
		S: fmt.Sprintf("%x", sb),
	}
}
