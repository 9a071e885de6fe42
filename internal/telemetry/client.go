// Package telemetry sends anonymous usage events for completed check
// cycles. Events are fire-and-forget: sending never blocks a check
// and never surfaces errors.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/orbit-updates/orbit/internal/settings"
)

// Environment switches. ORBIT_NO_TELEMETRY set to anything disables
// events; ORBIT_TELEMETRY=0 (or "false") is an alias for users who
// expect that spelling; ORBIT_TELEMETRY_DEBUG prints events to stderr
// instead of sending them.
const (
	EnvNoTelemetry = "ORBIT_NO_TELEMETRY"
	EnvTelemetry   = "ORBIT_TELEMETRY"
	EnvDebug       = "ORBIT_TELEMETRY_DEBUG"
)

// DefaultEndpoint receives telemetry events.
const DefaultEndpoint = "https://telemetry.orbit.dev/event"

// DefaultTimeout bounds the event POST.
const DefaultTimeout = 2 * time.Second

// DisabledByEnv reports whether telemetry is switched off through the
// environment.
func DisabledByEnv() bool {
	switch {
	case os.Getenv(EnvNoTelemetry) != "":
		return true
	case os.Getenv(EnvTelemetry) == "0", os.Getenv(EnvTelemetry) == "false":
		return true
	}
	return false
}

// Client sends telemetry events. Safe for concurrent use.
type Client struct {
	endpoint string
	timeout  time.Duration
	disabled bool
	debug    bool
}

// NewClient creates a client honoring the environment first and the
// user settings file second.
func NewClient() *Client {
	disabled := DisabledByEnv()
	if !disabled {
		s, err := settings.Load()
		disabled = err == nil && !s.Telemetry
	}
	return &Client{
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
		disabled: disabled,
		debug:    os.Getenv(EnvDebug) != "",
	}
}

// NewClientWithOptions creates a client with explicit options.
// Primarily useful for testing.
func NewClientWithOptions(endpoint string, timeout time.Duration, disabled, debug bool) *Client {
	return &Client{endpoint: endpoint, timeout: timeout, disabled: disabled, debug: debug}
}

// IsDisabled reports whether events are dropped.
func (c *Client) IsDisabled() bool { return c.disabled }

// Send dispatches an event asynchronously. A disabled client is a
// no-op; debug mode prints to stderr instead of sending.
func (c *Client) Send(event Event) {
	switch {
	case c.disabled:
	case c.debug:
		if data, err := json.Marshal(event); err == nil {
			fmt.Fprintf(os.Stderr, "[telemetry] %s\n", data)
		}
	default:
		go c.deliver(event)
	}
}

func (c *Client) deliver(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err == nil {
		resp.Body.Close()
	}
}
