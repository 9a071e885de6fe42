// Package updates implements the platform update check: fetching the
// remote update descriptor, evaluating it against the local build, and
// classifying the outcome.
package updates

import (
	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/settings"
)

// State classifies the outcome of a platform check.
type State int

const (
	// NothingLoaded means no check has completed yet.
	NothingLoaded State = iota
	// Loaded means the descriptor was fetched and evaluated.
	Loaded
	// ConnectionError means the descriptor could not be fetched or
	// parsed. The underlying error is preserved in CheckResult.Err
	// for logging; it is not shown to the user verbatim.
	ConnectionError
)

func (s State) String() string {
	switch s {
	case NothingLoaded:
		return "nothing-loaded"
	case Loaded:
		return "loaded"
	case ConnectionError:
		return "connection-error"
	default:
		return "unknown"
	}
}

// Channel is a named update track with its own build sequence.
type Channel struct {
	ID     string
	Name   string
	Status settings.ChannelStatus
	URL    string
	Builds []BuildEntry
}

// Latest returns the channel's newest build entry, or nil when the
// channel lists none.
func (c *Channel) Latest() *BuildEntry {
	var latest *BuildEntry
	for i := range c.Builds {
		if latest == nil || latest.Number.Less(c.Builds[i].Number) {
			latest = &c.Builds[i]
		}
	}
	return latest
}

// BuildEntry is one build advertised by a channel.
type BuildEntry struct {
	Number  build.Number
	Version string
	// Message is the channel's HTML release-notes fragment for this
	// build, unsanitized. Use SanitizeHTML before display.
	Message string
	Patches []Patch
}

// Patch is a binary delta package transforming one build into another.
type Patch struct {
	// From is the build the patch applies on top of.
	From build.Number
	// Size is the approximate download size in megabytes.
	Size int
	// URL is the patch artifact location.
	URL string
	// Checksum is the hex-encoded SHA-256 of the artifact.
	Checksum string
	// SignatureURL locates the detached armored PGP signature.
	SignatureURL string
}

// PatchFrom returns the patch applying on top of the given build,
// or nil when the entry does not ship one.
func (b *BuildEntry) PatchFrom(from build.Number) *Patch {
	for i := range b.Patches {
		if b.Patches[i].From.Compare(from) == 0 {
			return &b.Patches[i]
		}
	}
	return nil
}

// CheckResult is the immutable outcome of one platform check.
type CheckResult struct {
	State State

	// UpdatedChannel carries a newer build within the user's own
	// channel, when one exists.
	UpdatedChannel *Channel

	// NewChannel proposes a different channel offering a strictly
	// newer build than the user's own channel, when one exists.
	NewChannel *Channel

	// Err holds the underlying failure for ConnectionError results.
	Err error
}

// UpdateAvailable reports whether the result proposes anything.
func (r CheckResult) UpdateAvailable() bool {
	return r.State == Loaded && (r.UpdatedChannel != nil || r.NewChannel != nil)
}
