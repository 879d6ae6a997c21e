package chi

import healthuc "github.com/kailas-cloud/vecbrowse/internal/usecase/health"

// ErrorCode classifies an error response.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeRemoteError        ErrorCode = "remote_error"
	ErrorCodeSerializationError ErrorCode = "serialization_error"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}
