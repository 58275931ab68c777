package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "coverUrl", "error": "is required" }
type FieldError struct {
	// Field is the json, param or query name of the offending input.
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// ActionType names what the client should do next.
type ActionType string

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type every handler and service returns for
// client-visible failures. It is serialized directly to JSON by the
// global error handler.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST", "MEMORY_NOT_FOUND").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: lets the client decide whether to show Message verbatim.
//   - Errors: per-field errors (validation).
//   - Action: optional client instruction.
//   - Silent: write the status code with an empty body.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`

	Action *Action `json:"action"`

	// Silent is never serialized; see the global error handler.
	Silent bool `json:"-"`
}

// Error returns Message, so logging the error shows the client message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError of any code or status.
//
// errors.Is(err, &HTTPError{}) therefore answers "is this a client-facing error",
// not "is this the same error".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
