// Package external checks update sources outside the main platform
// distribution, such as separately released tooling published on
// GitHub Releases.
package external

import (
	"context"

	"github.com/orbit-updates/orbit/internal/log"
)

// Component is one updatable component offered by a source.
type Component struct {
	Name           string
	CurrentVersion string
	LatestVersion  string
	// URL points at the release or download page.
	URL string
}

// Update is the result of checking one source: the source name and
// the components it found newer versions for.
type Update struct {
	Source     string
	Components []Component
}

// Source is an update provider for components managed outside the
// platform's own channels.
type Source interface {
	// Name identifies the source in logs and notifications.
	Name() string
	// CheckUpdates compares the installed component versions against
	// the source and returns those with newer versions available.
	CheckUpdates(ctx context.Context, installed map[string]string) ([]Component, error)
}

// CheckAll queries every source in order. A failing source is logged
// and skipped so one unreachable provider never hides the others.
func CheckAll(ctx context.Context, sources []Source, installed map[string]string, logger log.Logger) []Update {
	if logger == nil {
		logger = log.Default()
	}

	var updates []Update
	for _, src := range sources {
		if ctx.Err() != nil {
			return updates
		}
		components, err := src.CheckUpdates(ctx, installed)
		if err != nil {
			logger.Warn("external update source failed", "source", src.Name(), "error", err)
			continue
		}
		if len(components) == 0 {
			continue
		}
		updates = append(updates, Update{Source: src.Name(), Components: components})
	}
	return updates
}
