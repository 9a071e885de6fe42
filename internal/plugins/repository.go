package plugins

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/httputil"
	"github.com/orbit-updates/orbit/internal/log"
)

// maxListSize caps a repository listing response body (16MB).
const maxListSize = 16 * 1024 * 1024

// Repository is one plugin repository endpoint.
type Repository struct {
	// Host is the listing URL.
	Host string
	// Primary marks the required repository: a failure here aborts
	// the whole scan instead of being skipped.
	Primary bool

	client *http.Client
	logger log.Logger
}

// NewRepository creates a repository client for the given host.
// A nil client falls back to the hardened default.
func NewRepository(host string, primary bool, client *http.Client, logger log.Logger) *Repository {
	if client == nil {
		client = httputil.NewSecureClient(httputil.DefaultOptions())
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Repository{Host: host, Primary: primary, client: client, logger: logger}
}

// RepositoryError is a structured failure from one repository.
type RepositoryError struct {
	Kind httputil.ErrorKind
	Host string
	Err  error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("plugin repository %s: %v", e.Host, e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable suggestion for the user, or an
// empty string if none applies.
func (e *RepositoryError) Suggestion() string {
	return e.Kind.Suggestion()
}

// List fetches the repository's plugin listing for the target build.
// The query carries the build number and the anonymized installation
// id so the server can filter by compatibility and deduplicate
// counts.
func (r *Repository) List(ctx context.Context, target build.Number, installID string) ([]Descriptor, error) {
	u, err := url.Parse(r.Host)
	if err != nil {
		return nil, &RepositoryError{Kind: httputil.KindValidation, Host: r.Host, Err: err}
	}
	q := u.Query()
	q.Set("build", target.String())
	if installID != "" {
		q.Set("uid", installID)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &RepositoryError{Kind: httputil.KindValidation, Host: r.Host, Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &RepositoryError{Kind: httputil.Classify(err), Host: r.Host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := httputil.KindNetwork
		switch resp.StatusCode {
		case http.StatusNotFound:
			kind = httputil.KindNotFound
		case http.StatusTooManyRequests:
			kind = httputil.KindRateLimit
		}
		return nil, &RepositoryError{
			Kind: kind,
			Host: r.Host,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxListSize))
	if err != nil {
		return nil, &RepositoryError{Kind: httputil.Classify(err), Host: r.Host, Err: err}
	}

	descriptors, err := ParseList(data, r.logger)
	if err != nil {
		return nil, &RepositoryError{Kind: httputil.KindParsing, Host: r.Host, Err: err}
	}
	return descriptors, nil
}
