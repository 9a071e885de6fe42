package plugins

import (
	"fmt"
	"os"
	"strings"

	"github.com/orbit-updates/orbit/internal/log"
)

// LoadInstalled reads the installed-plugins file: one plugin per
// line, "id version" separated by whitespace. A missing file means no
// plugins. Malformed lines are skipped individually with a warning.
func LoadInstalled(path string, logger log.Logger) ([]Installed, error) {
	if logger == nil {
		logger = log.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading installed plugins: %w", err)
	}

	var installed []Installed
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 || !ValidID(fields[0]) {
			logger.Warn("skipping malformed installed-plugin entry", "entry", line)
			continue
		}
		installed = append(installed, Installed{ID: fields[0], Version: fields[1]})
	}
	return installed, nil
}
