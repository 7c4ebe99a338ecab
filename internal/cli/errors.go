package cli

import (
	"errors"
	"strings"
)

// Exit codes for semantic error classification.
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // Missing args, invalid flags
	ExitPanic           = 3  // Internal panic
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to open the store
	ExitIngestFailed    = 12 // A report file could not be loaded
)

// Sentinel errors used to pick an exit code.
var (
	// ErrUsage wraps argument and flag errors.
	ErrUsage = errors.New("usage error")

	// ErrInvalidConfig indicates the resolved configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the store could not be opened.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrIngestFailed indicates a report file aborted the ingest run.
	ErrIngestFailed = errors.New("ingest failed")
)

// ExitCodeForError returns the exit code for err. nil maps to ExitSuccess and
// unclassified errors to ExitGeneralError.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrIngestFailed):
		return ExitIngestFailed
	}

	// Driver errors surfacing outside the open path.
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
