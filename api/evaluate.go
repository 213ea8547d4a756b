package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/voprf-id/node/crypto/dleq"
	"github.com/voprf-id/node/crypto/ecc/secp256k1"
	"github.com/voprf-id/node/crypto/pubinput"
	"github.com/voprf-id/node/log"
)

// evaluate implements POST /api/v1/evaluate: parse the client's public
// inputs, verify its ZK proof off the request goroutine, compute Z = sk*H,
// attach a DLEQ proof binding Z to the node's published key, and respond.
func (a *API) evaluate(w http.ResponseWriter, r *http.Request) {
	log.Debugw("evaluate request", "remote", r.RemoteAddr)

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	pi, h, err := decodePublicInputs(req.Proof.Bytes())
	if err != nil {
		ErrInvalidPoint.WithErr(err).Write(w)
		return
	}
	log.Debugw("public inputs parsed", "remote", r.RemoteAddr, "commitment", pi.CommitmentHex())

	// Proof verification blocks on a subprocess; it must never run
	// directly on this goroutine, so it is dispatched through the
	// verifier adapter's worker pool.
	if err := a.verifier.Verify(r.Context(), req.Proof.Bytes()); err != nil {
		log.Debugw("zk proof rejected", "remote", r.RemoteAddr, "error", err.Error())
		ErrInvalidProof.WithErr(err).Write(w)
		return
	}

	kp, err := a.keys.EnsureReady()
	if err != nil {
		ErrInternal.WithErr(err).Write(w)
		return
	}

	z := h.ScalarMultConstantTime(kp.SK)

	g := secp256k1.Generator()
	proof, err := dleq.New(g, h, kp.Y, z, kp.SK)
	if err != nil {
		ErrInternal.WithErr(err).Write(w)
		return
	}

	httpWriteJSON(w, EvaluateResponse{
		Result:    pubinput.ECPointFromPoint(z),
		DleqProof: proof.ToWire(),
	})
}

// decodePublicInputs parses the client's public inputs out of the proof
// blob and validates the embedded blinded point H. The commitment is
// surfaced only for diagnostics; the external verifier is what actually
// checks it against the proof. The parser is total on any blob of at
// least pubinput.Length bytes; everything past the public inputs is
// opaque verifier payload.
func decodePublicInputs(proof []byte) (*pubinput.PublicInputs, *secp256k1.Point, error) {
	if len(proof) < pubinput.Length {
		return nil, nil, fmt.Errorf("proof too short: need at least %d bytes, got %d", pubinput.Length, len(proof))
	}
	pi, err := pubinput.Parse(proof[:pubinput.Length])
	if err != nil {
		return nil, nil, err
	}
	h, err := pi.Point()
	if err != nil {
		return nil, nil, err
	}
	return pi, h, nil
}
