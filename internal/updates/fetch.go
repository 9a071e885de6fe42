package updates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/orbit-updates/orbit/internal/httputil"
	"github.com/orbit-updates/orbit/internal/log"
)

const (
	// maxDescriptorSize caps the descriptor response body (4MB).
	// Update descriptors are small; anything larger is suspect.
	maxDescriptorSize = 4 * 1024 * 1024

	// maxFetchRetries bounds transient-failure retries per check.
	maxFetchRetries = 3
)

// Checker fetches the update descriptor and evaluates it against the
// local build.
type Checker struct {
	url    string
	client *http.Client
	logger log.Logger
}

// NewChecker creates a Checker for the given descriptor URL.
// A nil client falls back to the hardened default.
func NewChecker(url string, client *http.Client, logger log.Logger) *Checker {
	if client == nil {
		client = httputil.NewSecureClient(httputil.DefaultOptions())
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Checker{url: url, client: client, logger: logger}
}

// Check runs one full platform check. Fetch and parse failures
// degrade to a ConnectionError result carrying the original error;
// they are never returned as a Go error so that schedulers treat a
// flaky network like "nothing to do" while still logging the cause.
func (c *Checker) Check(ctx context.Context, opts EvaluateOptions) CheckResult {
	data, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("update descriptor fetch failed", "url", c.url, "error", err)
		return CheckResult{State: ConnectionError, Err: wrapFetchError(err, "failed to fetch update descriptor")}
	}

	doc, err := ParseDocument(data, c.logger)
	if err != nil {
		c.logger.Warn("update descriptor parse failed", "url", c.url, "error", err)
		return CheckResult{
			State: ConnectionError,
			Err:   &CheckError{Kind: httputil.KindParsing, Message: "failed to parse update descriptor", Err: err},
		}
	}

	result := Evaluate(doc, opts)
	c.logger.Debug("platform check evaluated",
		"state", result.State.String(),
		"updated", result.UpdatedChannel != nil,
		"new_channel", result.NewChannel != nil)
	return result
}

// Fetch downloads and parses the descriptor without evaluating it.
// Used when the caller needs the raw channel list, e.g. to locate a
// specific build's patch.
func (c *Checker) Fetch(ctx context.Context) (*Document, error) {
	data, err := c.fetch(ctx)
	if err != nil {
		return nil, wrapFetchError(err, "failed to fetch update descriptor")
	}
	doc, err := ParseDocument(data, c.logger)
	if err != nil {
		return nil, &CheckError{Kind: httputil.KindParsing, Message: "failed to parse update descriptor", Err: err}
	}
	return doc, nil
}

// fetch downloads the descriptor with bounded exponential backoff on
// transient failures.
func (c *Checker) fetch(ctx context.Context) ([]byte, error) {
	var data []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// Fall through to read.
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("update server returned 404 for %s", c.url))
		case resp.StatusCode >= 500:
			return fmt.Errorf("update server returned status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("update server returned status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize+1))
		if err != nil {
			return err
		}
		if len(body) > maxDescriptorSize {
			return backoff.Permanent(fmt.Errorf("update descriptor exceeds %d bytes", maxDescriptorSize))
		}
		data = body
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newFetchBackoff(), maxFetchRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return data, nil
}

func newFetchBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return b
}
