package plugins

import (
	"github.com/orbit-updates/orbit/internal/build"
)

// Downloader is one candidate plugin update queued by the scanner.
type Downloader struct {
	// ID is the plugin identifier (the dedup key).
	ID string
	// Version is the candidate's version string.
	Version string
	// Host is the repository the candidate came from.
	Host string
	// URL is the plugin download location.
	URL string
	// Until is the candidate's declared compatibility ceiling.
	// May be invalid (unset) when the repository omits it.
	Until build.Number
	// Name is the display name, when the descriptor was resolved.
	Name string
}

// newDownloader builds a candidate from a repository descriptor.
func newDownloader(d Descriptor, host string) *Downloader {
	return &Downloader{
		ID:      d.ID,
		Version: d.Version,
		Host:    host,
		URL:     d.URL,
		Until:   d.Until,
		Name:    d.Name,
	}
}

// Beats reports whether this candidate replaces an already-queued
// one for the same plugin. The queued candidate wins ties: a later
// repository's entry is taken only when its version is STRICTLY
// greater, never on equal versions, regardless of host ordering.
func (d *Downloader) Beats(queued *Downloader) bool {
	if queued == nil {
		return true
	}
	return CompareVersions(d.Version, queued.Version) > 0
}

// Resolves reports whether installing the candidate would make the
// plugin compatible with the target build.
func (d *Downloader) Resolves(target build.Number) bool {
	if !d.Until.IsValid() {
		// No declared ceiling means no known incompatibility.
		return true
	}
	return d.Until.Compare(target) >= 0
}
