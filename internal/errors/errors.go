// Package errors defines stable error codes for docscout failure modes.
package errors

import "fmt"

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParseDegraded indicates markdown parsing fell back to a best-effort tree
	ParseDegraded ErrorCode = "PARSE_DEGRADED"
	// IndexFailed indicates the file index could not be built
	IndexFailed ErrorCode = "INDEX_FAILED"
	// GeneratorUnavailable indicates the external generator could not be reached
	GeneratorUnavailable ErrorCode = "GENERATOR_UNAVAILABLE"
	// ScoreParseFailed indicates the generator response could not be parsed
	ScoreParseFailed ErrorCode = "SCORE_PARSE_FAILED"
	// FixtureInvalid indicates a ground-truth fixture is missing required fields
	FixtureInvalid ErrorCode = "FIXTURE_INVALID"
	// ProjectNotFound indicates no persisted project state exists
	ProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"
	// ConfigInvalid indicates the configuration file could not be loaded
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// DiscoveryError represents a docscout error with a stable code.
type DiscoveryError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new DiscoveryError.
func New(code ErrorCode, message string, cause error) *DiscoveryError {
	return &DiscoveryError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new DiscoveryError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *DiscoveryError {
	return &DiscoveryError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *DiscoveryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *DiscoveryError) Unwrap() error {
	return e.cause
}

// Is allows errors.Is matching on code-only sentinel values.
func (e *DiscoveryError) Is(target error) bool {
	t, ok := target.(*DiscoveryError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsCode reports whether err is a DiscoveryError with the given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if de, ok := err.(*DiscoveryError); ok && de.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
