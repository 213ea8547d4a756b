package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/voprf-id/node/crypto/dleq"
	"github.com/voprf-id/node/crypto/pubinput"
	"github.com/voprf-id/node/types"
)

// ProofBytes is the wire form of the client's ZK proof blob. Clients encode
// it as a JSON array of byte values (the serde default for byte vectors); a
// hex string in the types.HexBytes form is accepted as well. It always
// marshals back out as a byte array.
type ProofBytes []byte

// Bytes returns the underlying byte slice.
func (p ProofBytes) Bytes() []byte {
	return p
}

// MarshalJSON encodes p as a JSON array of byte values.
func (p ProofBytes) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, len(p)*4+2)
	out = append(out, '[')
	for i, b := range p {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(b), 10)
	}
	return append(out, ']'), nil
}

// UnmarshalJSON decodes either a JSON array of byte values or a hex string.
func (p *ProofBytes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var values []int
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("decode proof byte array: %w", err)
		}
		out := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return fmt.Errorf("proof byte %d out of range at index %d", v, i)
			}
			out[i] = byte(v)
		}
		*p = out
		return nil
	}
	var hb types.HexBytes
	if err := hb.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("decode proof hex string: %w", err)
	}
	*p = ProofBytes(hb)
	return nil
}

// EvaluateRequest is the body of POST /api/v1/evaluate: the client's ZK
// proof blob, whose first 224 bytes carry the public inputs (see
// crypto/pubinput).
type EvaluateRequest struct {
	Proof ProofBytes `json:"proof"`
}

// EvaluateResponse is the body returned on a successful evaluation: the
// blinded evaluation result and the DLEQ proof binding it to the node's
// published public key.
type EvaluateResponse struct {
	Result    pubinput.ECPoint `json:"result"`
	DleqProof dleq.Wire        `json:"dleq_proof"`
}
