package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/voprf-id/node/log"
)

// Error is the JSON-serializable error value returned by every endpoint.
// Code is a stable variant name identifying the error condition;
// HTTPstatus is the status code written to the response; Err carries the
// human-readable (and loggable) detail.
type Error struct {
	Code       string `json:"code"`
	HTTPstatus int    `json:"-"`
	Err        error  `json:"-"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

// WithErr returns a copy of e with Err replaced, preserving Code and
// HTTPstatus. Use it to attach request-specific detail to a sentinel error.
func (e Error) WithErr(err error) Error {
	e.Err = err
	return e
}

// Withf is a convenience wrapper around WithErr that formats the detail.
func (e Error) Withf(format string, args ...any) Error {
	e.Err = fmt.Errorf(format, args...)
	return e
}

// Write serializes the error as JSON and writes it to w with the
// associated HTTP status code.
func (e Error) Write(w http.ResponseWriter) {
	msg := e.Message
	if e.Err != nil {
		msg = e.Err.Error()
	}
	body := Error{Code: e.Code, Message: msg}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPstatus)
	if err := json.NewEncoder(w).Encode(struct {
		Error Error `json:"error"`
	}{Error: body}); err != nil {
		log.Warnw("failed to write error response", "error", err)
	}
}
