// Package tools implements the LLM-callable tool family and the registry
// that declares and dispatches them. Every tool result embeds Envelope, so
// the model always receives a success flag and, on failure, a message it can
// relay conversationally instead of the request dying.
package tools

// Machine-readable error codes carried in Envelope.Error. The model mostly
// reads Message; these codes exist for callers that branch on failure class
// (quota fallback links, credential remediation).
const (
	ErrUnknownTool   = "unknown_tool"
	ErrBadArgument   = "bad_argument"
	ErrNotFound      = "not_found"
	ErrUnauthorized  = "unauthorized"
	ErrTimeout       = "timeout"
	ErrRateLimited   = "rate_limited"
	ErrQuotaExceeded = "quota_exceeded"
	ErrUnavailable   = "unavailable"
)

// Envelope is the uniform success/failure wrapper embedded by every tool
// result. Handlers convert their own failures into it; a raised error never
// crosses the tool boundary.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK is the success envelope.
func OK() Envelope { return Envelope{Success: true} }

// Fail builds a failure envelope with a human-readable message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// FailCode builds a failure envelope with both a machine code and a message.
func FailCode(code, message string) Envelope {
	return Envelope{Success: false, Error: code, Message: message}
}
