package api

// Route constants for the API endpoints.
const (
	// PingEndpoint is a health check endpoint.
	PingEndpoint = "/ping"

	// EvaluateEndpoint is the single vOPRF evaluation endpoint: it takes a
	// client's ZK proof plus public inputs and returns the blinded
	// evaluation together with its DLEQ proof.
	EvaluateEndpoint = "/api/v1/evaluate"
)

// LogExcludedPrefixes defines URL prefixes to exclude from request logging.
var LogExcludedPrefixes = []string{
	PingEndpoint,
}
