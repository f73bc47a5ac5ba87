package retry

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/gisops/webtool/pkg/webtool"
)

// Platform error codes the portal REST API reports inside its JSON error
// envelope. Only a handful indicate conditions worth retrying.
const (
	portalCodeTokenExpired = 498 // invalid/expired token; a fresh sign-in fixes it
	portalCodeBusy         = 500 // generic server fault, frequently transient during staging
	portalCodeUnavailable  = 503
)

// PortalErrorClassifier implements ErrorClassifier for portal and server
// REST errors.
type PortalErrorClassifier struct{}

// NewPortalErrorClassifier creates a new portal error classifier.
func NewPortalErrorClassifier() *PortalErrorClassifier {
	return &PortalErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
// Authentication failures are never retried: hammering the token endpoint
// with bad credentials only locks the account.
func (c *PortalErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, webtool.ErrAuthFailed) {
		return false
	}

	var portalErr *webtool.PortalError
	if errors.As(err, &portalErr) {
		return c.isTransientPortalError(portalErr)
	}

	if c.isNetworkError(err) {
		return true
	}

	return c.isConnectionError(err)
}

// isTransientPortalError checks HTTP status and platform error codes for
// transient conditions.
func (c *PortalErrorClassifier) isTransientPortalError(portalErr *webtool.PortalError) bool {
	switch portalErr.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}

	switch portalErr.Code {
	case portalCodeTokenExpired, portalCodeBusy, portalCodeUnavailable:
		return true
	}

	return false
}

// isNetworkError checks for network-level errors.
func (c *PortalErrorClassifier) isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}

		if opErr.Err != nil {
			if errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
				errors.Is(opErr.Err, syscall.ECONNRESET) ||
				errors.Is(opErr.Err, syscall.ENETUNREACH) ||
				errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
				return true
			}
		}
	}

	return false
}

// isConnectionError checks for connection-related errors by message, which
// is all net/http exposes for some failure modes.
func (c *PortalErrorClassifier) isConnectionError(err error) bool {
	errMsg := strings.ToLower(err.Error())

	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"unexpected eof",
		"server closed idle connection",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}

// Verify PortalErrorClassifier implements the interface at compile time
var _ webtool.ErrorClassifier = (*PortalErrorClassifier)(nil)
