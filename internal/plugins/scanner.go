package plugins

import (
	"context"
	"sort"

	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/log"
)

// Installed identifies one locally installed, non-bundled plugin.
type Installed struct {
	ID      string
	Version string
}

// ScanResult is the outcome of one plugin scan.
type ScanResult struct {
	// Updates holds one queued candidate per plugin id, sorted by id.
	Updates []*Downloader
	// Incompatible lists plugin ids whose compatibility ceiling is
	// below the target build with no queued update resolving it.
	Incompatible []string
}

// Scanner queries plugin repositories in configured order.
type Scanner struct {
	repos  []*Repository
	logger log.Logger
}

// NewScanner creates a scanner over the given repositories. The
// repositories are queried in slice order; the caller marks which
// are primary.
func NewScanner(repos []*Repository, logger log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{repos: repos, logger: logger}
}

// Scan queries every repository for the installed plugins and
// computes the update and incompatible sets against the target build.
//
// Repository semantics:
//   - repositories are tried sequentially in configured order
//   - an error from a primary repository aborts the scan: no partial
//     result is returned
//   - an error from an optional repository is logged and skipped;
//     plugins resolved from other repositories are unaffected
//   - cancellation is honored between repository queries
//
// Dedup semantics: one candidate per plugin id, first repository
// wins unless a later repository offers a STRICTLY greater version.
// Equal versions keep the earlier host.
//
// Plugins listed in excluded are ignored entirely.
func (s *Scanner) Scan(ctx context.Context, installed []Installed, target build.Number, excluded map[string]bool, installID string) (*ScanResult, error) {
	byID := make(map[string]Installed, len(installed))
	for _, p := range installed {
		if excluded[p.ID] {
			continue
		}
		byID[p.ID] = p
	}

	queued := make(map[string]*Downloader)
	// ceiling tracks the highest compatibility ceiling seen per
	// plugin across all repositories, from current entries as well
	// as updates.
	ceiling := make(map[string]build.Number)
	seen := make(map[string]bool)

	for _, repo := range s.repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		descriptors, err := repo.List(ctx, target, installID)
		if err != nil {
			if repo.Primary {
				s.logger.Error("primary plugin repository failed, aborting scan", "host", repo.Host, "error", err)
				return nil, err
			}
			s.logger.Warn("optional plugin repository failed, continuing", "host", repo.Host, "error", err)
			continue
		}
		s.logger.Debug("plugin repository listed", "host", repo.Host, "plugins", len(descriptors))

		for _, d := range descriptors {
			local, ok := byID[d.ID]
			if !ok {
				continue
			}
			seen[d.ID] = true

			if d.Until.IsValid() {
				if cur, ok := ceiling[d.ID]; !ok || cur.Less(d.Until) {
					ceiling[d.ID] = d.Until
				}
			}

			if CompareVersions(d.Version, local.Version) <= 0 {
				continue
			}

			candidate := newDownloader(d, repo.Host)
			if candidate.Beats(queued[d.ID]) {
				queued[d.ID] = candidate
			}
		}
	}

	result := &ScanResult{}
	for id := range queued {
		result.Updates = append(result.Updates, queued[id])
	}
	sort.Slice(result.Updates, func(i, j int) bool {
		return result.Updates[i].ID < result.Updates[j].ID
	})

	// A plugin is incompatible when every descriptor we saw for it
	// declares a ceiling below the target and no queued update
	// resolves that.
	for id := range seen {
		until, ok := ceiling[id]
		if !ok || until.Compare(target) >= 0 {
			continue
		}
		if d := queued[id]; d != nil && d.Resolves(target) {
			continue
		}
		result.Incompatible = append(result.Incompatible, id)
	}
	sort.Strings(result.Incompatible)

	return result, nil
}
