package plugins

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/orbit-updates/orbit/internal/log"
)

// LoadExcluded reads a newline-delimited exclusion file and returns
// the set of plugin ids the scanner must skip. A missing file means
// no exclusions. Lines that are not valid plugin ids are skipped
// individually with a warning so one bad line never discards the
// rest of the file.
func LoadExcluded(path string, logger log.Logger) (map[string]bool, error) {
	if logger == nil {
		logger = log.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("reading exclusion file: %w", err)
	}

	excluded := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		id := strings.TrimSpace(line)
		if id == "" || strings.HasPrefix(id, "#") {
			continue
		}
		if !ValidID(id) {
			logger.Warn("skipping malformed exclusion entry", "entry", id)
			continue
		}
		excluded[id] = true
	}
	return excluded, nil
}

// SaveExcluded writes the exclusion set back out, one id per line,
// sorted for stable diffs.
func SaveExcluded(path string, excluded map[string]bool) error {
	ids := make([]string, 0, len(excluded))
	for id := range excluded {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing exclusion file: %w", err)
	}
	return nil
}

// LoadPendingRemovals reads the ids of plugins staged for removal on
// next start. The format matches the exclusion file.
func LoadPendingRemovals(path string, logger log.Logger) (map[string]bool, error) {
	return LoadExcluded(path, logger)
}
