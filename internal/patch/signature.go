// Package patch downloads and verifies binary patch artifacts: the
// delta packages transforming one platform build into another.
// Every artifact is checked against its descriptor checksum; a
// detached PGP signature is verified when the descriptor ships one.
package patch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
	"github.com/orbit-updates/orbit/internal/httputil"
)

const (
	// maxKeySize caps a fetched PGP public key (100KB).
	maxKeySize = 100 * 1024
	// maxSignatureSize caps a fetched detached signature (10KB).
	maxSignatureSize = 10 * 1024
	// keyFetchTimeout bounds key and signature fetches.
	keyFetchTimeout = 30 * time.Second
)

var fingerprintPattern = regexp.MustCompile(`^[0-9A-Fa-f]{40}$`)

// ValidateFingerprint checks that a fingerprint is 40 hex characters.
func ValidateFingerprint(fingerprint string) error {
	if !fingerprintPattern.MatchString(fingerprint) {
		return fmt.Errorf("invalid fingerprint: must be 40 hex characters, got %q", fingerprint)
	}
	return nil
}

// KeyCache caches the update server's PGP signing keys on disk so a
// key is fetched at most once per fingerprint.
type KeyCache struct {
	dir    string
	client *http.Client
}

// NewKeyCache creates a key cache rooted at dir. A nil client falls
// back to the hardened default.
func NewKeyCache(dir string, client *http.Client) *KeyCache {
	if client == nil {
		client = httputil.NewSecureClient(httputil.ClientOptions{Timeout: keyFetchTimeout})
	}
	return &KeyCache{dir: dir, client: client}
}

// Get returns the key with the given fingerprint, fetching it from
// keyURL on a cache miss. The key must match the fingerprint exactly;
// a corrupt or mismatched cache entry is discarded and refetched.
func (c *KeyCache) Get(ctx context.Context, fingerprint, keyURL string) (*crypto.Key, error) {
	if err := ValidateFingerprint(fingerprint); err != nil {
		return nil, err
	}
	fingerprint = strings.ToUpper(fingerprint)

	if key, err := c.load(fingerprint); err == nil {
		return key, nil
	}

	key, armored, err := c.fetch(ctx, keyURL, fingerprint)
	if err != nil {
		return nil, err
	}
	if err := c.store(fingerprint, armored); err != nil {
		// The key is still usable this run.
		return key, nil
	}
	return key, nil
}

func (c *KeyCache) load(fingerprint string) (*crypto.Key, error) {
	path := filepath.Join(c.dir, fingerprint+".asc")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := crypto.NewKeyFromArmored(string(data))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("cached key is invalid: %w", err)
	}
	if strings.ToUpper(key.GetFingerprint()) != fingerprint {
		os.Remove(path)
		return nil, fmt.Errorf("cached key fingerprint mismatch")
	}
	return key, nil
}

func (c *KeyCache) fetch(ctx context.Context, keyURL, fingerprint string) (*crypto.Key, string, error) {
	ctx, cancel := context.WithTimeout(ctx, keyFetchTimeout)
	defer cancel()

	data, err := fetchLimited(ctx, c.client, keyURL, maxKeySize)
	if err != nil {
		return nil, "", fmt.Errorf("fetching signing key: %w", err)
	}

	armored := string(data)
	key, err := crypto.NewKeyFromArmored(armored)
	if err != nil {
		return nil, "", fmt.Errorf("parsing signing key: %w", err)
	}
	if got := strings.ToUpper(key.GetFingerprint()); got != fingerprint {
		return nil, "", fmt.Errorf("signing key fingerprint mismatch: expected %s, got %s", fingerprint, got)
	}
	return key, armored, nil
}

func (c *KeyCache) store(fingerprint, armored string) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, fingerprint+".asc"), []byte(armored), 0o600)
}

// FetchSignature downloads a detached signature.
func FetchSignature(ctx context.Context, client *http.Client, signatureURL string) ([]byte, error) {
	if client == nil {
		client = httputil.NewSecureClient(httputil.ClientOptions{Timeout: keyFetchTimeout})
	}
	data, err := fetchLimited(ctx, client, signatureURL, maxSignatureSize)
	if err != nil {
		return nil, fmt.Errorf("fetching signature: %w", err)
	}
	return data, nil
}

// VerifySignature checks a detached PGP signature over the artifact
// at path. Armored and binary signatures are both accepted.
func VerifySignature(path string, signatureData []byte, key *crypto.Key) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading artifact for verification: %w", err)
	}

	signature, err := crypto.NewPGPSignatureFromArmored(string(signatureData))
	if err != nil {
		signature = crypto.NewPGPSignature(signatureData)
	}

	keyRing, err := crypto.NewKeyRing(key)
	if err != nil {
		return fmt.Errorf("building keyring: %w", err)
	}

	message := crypto.NewPlainMessage(data)
	if err := keyRing.VerifyDetached(message, signature, 0); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}

func fetchLimited(ctx context.Context, client *http.Client, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response exceeds %d bytes", limit)
	}
	return data, nil
}
