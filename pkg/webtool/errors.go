package webtool

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := publisher.Publish(ctx, config)
//	if errors.Is(err, webtool.ErrApprovalDenied) {
//	    // Handle user denying the service overwrite
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformedDraft indicates a service definition draft could not be
	// parsed or is missing the expected Definition/ConfigurationProperties
	// structure.
	ErrMalformedDraft = errors.New("malformed service definition draft")

	// ErrNoTemplateProperty indicates the draft's property sequence is
	// empty, so there is no existing property to clone when appending a
	// new one.
	ErrNoTemplateProperty = errors.New("no template property to clone")

	// ErrApprovalDenied indicates the user denied approval for overwriting
	// an existing service.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrAuthFailed indicates the portal rejected the supplied credentials.
	ErrAuthFailed = errors.New("portal authentication failed")

	// ErrSolveFailed indicates the route solver reported error messages
	// instead of a result.
	ErrSolveFailed = errors.New("solve failed")

	// ErrStagingFailed indicates the draft could not be staged into a
	// service definition package.
	ErrStagingFailed = errors.New("staging failed")

	// ErrUploadFailed indicates the staged package could not be uploaded
	// or published.
	ErrUploadFailed = errors.New("upload failed")
)

// PortalError is a structured error returned by the portal or server REST
// API. It carries the HTTP status and the platform's own error code so the
// retry classifier can distinguish transient conditions from fatal ones.
type PortalError struct {
	StatusCode int      // HTTP status of the response
	Code       int      // Platform error code from the JSON error envelope
	Message    string   // Primary error message
	Details    []string // Additional detail lines, if any
}

// Error implements the error interface.
func (e *PortalError) Error() string {
	msg := fmt.Sprintf("portal error %d: %s", e.Code, e.Message)
	if e.Code == 0 {
		msg = fmt.Sprintf("portal error (http %d): %s", e.StatusCode, e.Message)
	}
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrMalformedDraft):
		return ExitDraftError
	case errors.Is(err, ErrNoTemplateProperty):
		return ExitDraftError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrAuthFailed):
		return ExitAuthFailed
	case errors.Is(err, ErrSolveFailed):
		return ExitSolveFailed
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
