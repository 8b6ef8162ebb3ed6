// Package responses defines the one JSON envelope every endpoint
// writes, success or failure.
package responses

// APIResponse is the wire envelope. Error carries the client-safe
// message only; the specific cause of auth and lookup failures stays
// in the server log.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// NewSuccessResponse wraps a payload for a 2xx response.
func NewSuccessResponse(message string, data any) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse builds a failure envelope. Details is optional and
// only ever carries validation feedback, never internal error text.
func NewErrorResponse(message string, details string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
		Details: details,
	}
}
