package httputil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNetwork},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"canceled", context.Canceled, KindNetwork},
		{"dns", &net.DNSError{Name: "bad.example"}, KindDNS},
		{"dns timeout", &net.DNSError{Name: "slow.example", IsTimeout: true}, KindTimeout},
		{"connection", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, KindConnection},
		{"wrapped deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), KindTimeout},
		{"url tls", &url.Error{Op: "Get", URL: "https://x", Err: errors.New("x509: certificate signed by unknown authority")}, KindTLS},
		{"url wrapping dns", &url.Error{Op: "Get", URL: "https://x", Err: &net.DNSError{Name: "x"}}, KindDNS},
		{"plain", errors.New("boom"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSuggestionCoverage(t *testing.T) {
	kinds := []ErrorKind{KindNetwork, KindNotFound, KindRateLimit, KindTimeout, KindDNS, KindConnection, KindTLS}
	for _, k := range kinds {
		if k.Suggestion() == "" {
			t.Errorf("kind %v has no suggestion", k)
		}
	}
	// Parsing and validation failures are not user-actionable.
	if KindParsing.Suggestion() != "" {
		t.Error("parsing errors should not carry a suggestion")
	}
}
