package types

// SuccessEnvelope wraps a successful JSON payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body returned to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps a failed JSON payload.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Page is the offset-style pagination envelope used by list endpoints.
type Page[T any] struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	Last       bool  `json:"last"`
	Data       []T   `json:"data"`
}
