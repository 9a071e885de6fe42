package httputil

import (
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", opts.Timeout)
	}
	if opts.MaxRedirects != 10 {
		t.Errorf("MaxRedirects = %d, want 10", opts.MaxRedirects)
	}
	if opts.EnableCompression {
		t.Error("EnableCompression should default to false")
	}
	if opts.AllowPlainHTTP {
		t.Error("AllowPlainHTTP should default to false")
	}
}

func TestNewSecureClientAppliesDefaults(t *testing.T) {
	c := NewSecureClient(ClientOptions{})

	if c.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", c.Timeout)
	}
	transport, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatal("Transport is not *http.Transport")
	}
	if !transport.DisableCompression {
		t.Error("compression should be disabled by default")
	}
}

func redirectReq(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %q: %v", rawURL, err)
	}
	return &http.Request{URL: u}
}

func TestRedirectCheckerRejectsPlainHTTP(t *testing.T) {
	check := redirectChecker(10, false)

	err := check(redirectReq(t, "http://example.com/path"), nil)
	if err == nil {
		t.Error("expected rejection of http:// redirect")
	}
}

func TestRedirectCheckerAllowsPlainHTTPWhenConfigured(t *testing.T) {
	check := redirectChecker(10, true)

	// 93.184.216.34 is a public IP; no DNS lookup involved.
	err := check(redirectReq(t, "http://93.184.216.34/path"), nil)
	if err != nil {
		t.Errorf("plain HTTP redirect rejected despite AllowPlainHTTP: %v", err)
	}
}

func TestRedirectCheckerRejectsTooManyRedirects(t *testing.T) {
	check := redirectChecker(2, false)

	via := []*http.Request{redirectReq(t, "https://a.example"), redirectReq(t, "https://b.example")}
	err := check(redirectReq(t, "https://93.184.216.34/"), via)
	if err == nil {
		t.Error("expected rejection after exceeding redirect limit")
	}
}

func TestRedirectCheckerRejectsBlockedIPs(t *testing.T) {
	check := redirectChecker(10, false)

	for _, target := range []string{
		"https://127.0.0.1/",
		"https://10.0.0.1/",
		"https://169.254.169.254/latest/meta-data",
		"https://192.168.1.1/",
	} {
		if err := check(redirectReq(t, target), nil); err == nil {
			t.Errorf("expected rejection of redirect to %s", target)
		}
	}
}

func TestValidateIP(t *testing.T) {
	blocked := []string{"127.0.0.1", "10.1.2.3", "172.16.0.1", "192.168.0.1", "169.254.169.254", "0.0.0.0", "::1", "fe80::1"}
	for _, s := range blocked {
		if err := ValidateIP(net.ParseIP(s), s); err == nil {
			t.Errorf("ValidateIP(%s) should fail", s)
		}
	}

	allowed := []string{"93.184.216.34", "8.8.8.8", "2606:4700:4700::1111"}
	for _, s := range allowed {
		if err := ValidateIP(net.ParseIP(s), s); err != nil {
			t.Errorf("ValidateIP(%s) should pass, got %v", s, err)
		}
	}
}
