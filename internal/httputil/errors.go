package httputil

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/url"
	"strings"
)

// ErrorKind classifies network failures for error reporting.
type ErrorKind int

const (
	// KindNetwork indicates a generic network-related error (fallback
	// when the specific kind is unknown).
	KindNetwork ErrorKind = iota
	// KindNotFound indicates the requested resource was not found (HTTP 404).
	KindNotFound
	// KindParsing indicates an error parsing response data (XML, JSON).
	KindParsing
	// KindValidation indicates data validation failure.
	KindValidation
	// KindRateLimit indicates API rate limit exceeded (HTTP 429).
	KindRateLimit
	// KindTimeout indicates a request timeout.
	KindTimeout
	// KindDNS indicates DNS resolution failure.
	KindDNS
	// KindConnection indicates connection refused or reset.
	KindConnection
	// KindTLS indicates TLS/SSL certificate errors.
	KindTLS
)

// Classify examines an error and returns the most specific ErrorKind.
// It uses Go's error unwrapping to detect specific network error types.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNetwork
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindNetwork
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return KindTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return KindTimeout
		}
		var innerDNS *net.DNSError
		if errors.As(opErr.Err, &innerDNS) {
			return KindDNS
		}
		// Connection refused, reset, etc.
		return KindConnection
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return KindTimeout
		}
		// Check error message for TLS hints.
		if strings.Contains(urlErr.Err.Error(), "certificate") ||
			strings.Contains(urlErr.Err.Error(), "tls") ||
			strings.Contains(urlErr.Err.Error(), "x509") {
			return KindTLS
		}
		// Recurse into the wrapped error.
		return Classify(urlErr.Err)
	}

	return KindNetwork
}

// Suggestion returns an actionable suggestion for the user based on
// the error kind. Returns an empty string if none applies.
func (k ErrorKind) Suggestion() string {
	switch k {
	case KindRateLimit:
		return "Wait a few minutes before retrying, or configure an access token"
	case KindTimeout:
		return "The server took too long to respond; try again or raise ORBIT_API_TIMEOUT"
	case KindDNS:
		return "Hostname did not resolve; check the configured URL and your DNS settings"
	case KindConnection:
		return "Could not reach the server; it may be down or blocked by a firewall"
	case KindTLS:
		return "TLS handshake failed; check the server certificate and your system clock"
	case KindNotFound:
		return "Verify the configured URL is correct"
	case KindNetwork:
		return "Check your network connection and try again"
	default:
		return ""
	}
}
