package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// Usage indicates malformed command line input
	Usage ErrorCode = "USAGE"
	// IOError indicates an input file could not be opened or decoded
	IOError ErrorCode = "IO_ERROR"
	// ParseError indicates a scanner could not process its input
	ParseError ErrorCode = "PARSE_ERROR"
	// ExportError indicates a graph could not be written to its destination
	ExportError ErrorCode = "EXPORT_ERROR"
	// ConfigError indicates an unreadable or invalid configuration file
	ConfigError ErrorCode = "CONFIG_ERROR"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// CgraphError represents an error with a stable code, a message and an
// optional cause.
type CgraphError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// NewCgraphError creates a new CgraphError
func NewCgraphError(code ErrorCode, message string, cause error) *CgraphError {
	return &CgraphError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *CgraphError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CgraphError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *CgraphError) WithDetails(details interface{}) *CgraphError {
	e.Details = details
	return e
}

// Usagef reports malformed command line input.
func Usagef(format string, args ...interface{}) *CgraphError {
	return NewCgraphError(Usage, fmt.Sprintf(format, args...), nil)
}

// IO reports a failure to open or decode path. The message is the path, so
// that Error reads like the classic "path: reason" diagnostic.
func IO(path string, cause error) *CgraphError {
	return NewCgraphError(IOError, path, cause)
}

// Parse reports a scanner failure for path.
func Parse(path string, cause error) *CgraphError {
	return NewCgraphError(ParseError, path, cause)
}

// Export reports a failure to write a graph to dest.
func Export(dest string, cause error) *CgraphError {
	return NewCgraphError(ExportError, dest, cause)
}

// Config reports an invalid configuration.
func Config(message string, cause error) *CgraphError {
	return NewCgraphError(ConfigError, message, cause)
}

// CodeOf returns the code of the first CgraphError in err's chain, or
// InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var ce *CgraphError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ExitCode maps an error to a process exit status. Every failure is fatal
// to the run, so anything non-nil exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Diagnostic returns the text printed to stderr for err. I/O failures print
// "path: reason"; everything else prints the message and cause.
func Diagnostic(err error) string {
	var ce *CgraphError
	if !stderrors.As(err, &ce) {
		return err.Error()
	}
	if ce.cause == nil {
		return ce.Message
	}
	return ce.Message + ": " + ce.cause.Error()
}
