package api

import (
	"fmt"
	"net/http"
)

// Error codes are stable variant names: clients branch on them, so NEVER
// rename an existing code, only append new ones.
var (
	// ErrMalformedBody covers request bodies that fail JSON decoding
	// before any public input is ever parsed.
	ErrMalformedBody = Error{Code: "MalformedBody", HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed request body")}
	// ErrInvalidPoint covers every malformed or off-curve client input:
	// short public inputs, coordinates outside the base field, points off
	// the curve or at infinity.
	ErrInvalidPoint = Error{Code: "InvalidPoint", HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid elliptic curve point in public inputs")}
	// ErrInvalidProof covers rejection (or failed invocation) of the
	// external zero-knowledge proof verifier.
	ErrInvalidProof = Error{Code: "InvalidProof", HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("zero-knowledge proof verification failed")}
	// ErrInternal covers everything that is the node's own fault.
	ErrInternal = Error{Code: "Internal", HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	// ErrMarshalingServerJSONFailed is an Internal specialization used by
	// the response helpers.
	ErrMarshalingServerJSONFailed = Error{Code: "Internal", HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
)
