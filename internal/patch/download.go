package patch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
	"github.com/orbit-updates/orbit/internal/httputil"
	"github.com/orbit-updates/orbit/internal/log"
	"github.com/orbit-updates/orbit/internal/updates"
)

// maxPatchSize caps a patch artifact download (2GB).
const maxPatchSize = 2 << 30

// Fetcher downloads patch artifacts into a cache directory and
// verifies them before they are handed to the installer.
type Fetcher struct {
	cacheDir string
	client   *http.Client
	logger   log.Logger
}

// NewFetcher creates a fetcher caching artifacts under cacheDir. A
// nil client falls back to the hardened default. Signature
// verification happens per call: Fetch verifies a signed patch only
// when the caller supplies the signing key.
func NewFetcher(cacheDir string, client *http.Client, logger log.Logger) *Fetcher {
	if client == nil {
		client = httputil.NewSecureClient(httputil.DefaultOptions())
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{cacheDir: cacheDir, client: client, logger: logger}
}

// Fetch downloads the patch, verifies its checksum, signature and
// container, and returns the cached artifact path. A cached artifact
// whose checksum still matches is reused without a download.
func (f *Fetcher) Fetch(ctx context.Context, p updates.Patch, signingKey *crypto.Key) (string, error) {
	if p.URL == "" {
		return "", fmt.Errorf("patch has no download URL")
	}
	if p.Checksum == "" {
		return "", fmt.Errorf("patch has no checksum")
	}
	checksum := strings.ToLower(p.Checksum)

	dest := filepath.Join(f.cacheDir, checksum+filepath.Ext(p.URL))
	if cached, err := checksumMatches(dest, checksum); err == nil && cached {
		f.logger.Debug("patch already cached", "path", dest)
		return dest, nil
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating patch cache: %w", err)
	}

	if err := f.download(ctx, p.URL, dest, checksum); err != nil {
		return "", err
	}

	if p.SignatureURL != "" && signingKey != nil {
		sig, err := FetchSignature(ctx, f.client, p.SignatureURL)
		if err != nil {
			os.Remove(dest)
			return "", err
		}
		if err := VerifySignature(dest, sig, signingKey); err != nil {
			os.Remove(dest)
			return "", err
		}
	}

	format, err := ValidateContainer(dest)
	if err != nil {
		os.Remove(dest)
		return "", err
	}
	f.logger.Info("patch verified", "path", dest, "format", format.String())
	return dest, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, dest, checksum string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building patch request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading patch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading patch: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.cacheDir, ".patch-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hasher := sha256.New()
	_, err = io.Copy(io.MultiWriter(tmp, hasher), io.LimitReader(resp.Body, maxPatchSize))
	closeErr := tmp.Close()
	if err != nil {
		return fmt.Errorf("writing patch: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("writing patch: %w", closeErr)
	}

	got := hex.EncodeToString(hasher.Sum(nil))
	if got != checksum {
		return fmt.Errorf("patch checksum mismatch: expected %s, got %s", checksum, got)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("moving patch into cache: %w", err)
	}
	return nil
}

func checksumMatches(path, checksum string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return false, err
	}
	return hex.EncodeToString(hasher.Sum(nil)) == checksum, nil
}
