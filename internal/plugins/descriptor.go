// Package plugins implements the plugin update scan: querying plugin
// repositories for installed plugins and computing the set needing an
// upgrade or found incompatible with the target platform build.
package plugins

import (
	"encoding/xml"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/log"
)

// Resolution tags how much of a descriptor a repository returned.
// Some repositories answer the scan query with id and version only
// and expect a follow-up request for the full record.
type Resolution int

const (
	// Incomplete means only identity fields (id, version) are present.
	Incomplete Resolution = iota
	// Resolved means the full descriptor was returned.
	Resolved
)

// Descriptor is one plugin record from a repository listing.
type Descriptor struct {
	ID      string
	Name    string
	Version string
	Vendor  string
	// URL is the plugin download location.
	URL string
	// Since and Until bound the platform builds the plugin declares
	// compatibility with. Either may be invalid (unset).
	Since build.Number
	Until build.Number

	Resolution Resolution
}

// CompatibleWith reports whether the descriptor declares
// compatibility with the target build.
func (d *Descriptor) CompatibleWith(target build.Number) bool {
	return target.InRange(d.Since, d.Until)
}

// idPattern matches well-formed plugin identifiers: dotted segments
// of word characters and hyphens, like "org.example.navigator".
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)

// ValidID reports whether s is a well-formed plugin identifier.
func ValidID(s string) bool {
	return s != "" && idPattern.MatchString(s)
}

// Wire format of a repository listing.
type xmlPluginList struct {
	XMLName xml.Name    `xml:"plugins"`
	Plugins []xmlPlugin `xml:"plugin"`
}

type xmlPlugin struct {
	ID      string `xml:"id,attr"`
	URL     string `xml:"url,attr"`
	Name    string `xml:"name"`
	Version string `xml:"version"`
	Vendor  string `xml:"vendor"`
	Compat  *struct {
		Since string `xml:"since,attr"`
		Until string `xml:"until,attr"`
	} `xml:"compatibility"`
}

// ParseList parses a repository listing. Entries with malformed ids
// or versions are skipped individually with a warning; a malformed
// document is an error.
func ParseList(data []byte, logger log.Logger) ([]Descriptor, error) {
	if logger == nil {
		logger = log.Default()
	}

	var wire xmlPluginList
	if err := xml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("malformed plugin list: %w", err)
	}

	var out []Descriptor
	for _, p := range wire.Plugins {
		if !ValidID(p.ID) {
			logger.Warn("skipping plugin with malformed id", "id", p.ID)
			continue
		}
		if p.Version == "" {
			logger.Warn("skipping plugin without a version", "id", p.ID)
			continue
		}
		d := Descriptor{
			ID:      p.ID,
			Name:    p.Name,
			Version: p.Version,
			Vendor:  p.Vendor,
			URL:     p.URL,
		}
		if p.Name != "" {
			d.Resolution = Resolved
		}
		if p.Compat != nil {
			if p.Compat.Since != "" {
				since, err := build.Parse(p.Compat.Since)
				if err != nil {
					logger.Warn("ignoring malformed since-build", "id", p.ID, "since", p.Compat.Since)
				} else {
					d.Since = since
				}
			}
			if p.Compat.Until != "" {
				until, err := build.Parse(p.Compat.Until)
				if err != nil {
					logger.Warn("ignoring malformed until-build", "id", p.ID, "until", p.Compat.Until)
				} else {
					d.Until = until
				}
			}
		}
		out = append(out, d)
	}

	return out, nil
}

// CompareVersions orders two plugin version strings.
// Returns 1 if a > b, -1 if a < b, 0 if equal.
//
// Both versions parsing as semver compare semantically; otherwise the
// comparison falls back to component-wise numeric ordering with a
// final lexical tie-break, so "1.10" still beats "1.9" for plugins
// that never adopted semver.
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return compareLoose(a, b)
}
