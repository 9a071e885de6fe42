package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/orbit-updates/orbit/internal/config"
	"github.com/orbit-updates/orbit/internal/settings"
)

const (
	// NoticeMarkerFile tracks that the notice has been shown.
	NoticeMarkerFile = "telemetry_notice_shown"

	// NoticeText is displayed once, on first run.
	NoticeText = `orbit collects anonymous usage statistics to improve the tool.
No personal information is collected. See: https://orbit.dev/telemetry

To opt out: orbit config set telemetry false
         or export ORBIT_NO_TELEMETRY=1
`
)

// ShowNoticeIfNeeded prints the telemetry notice on first run and
// records a marker so it is never shown again. Errors are silent;
// the notice is best effort.
func ShowNoticeIfNeeded() {
	if DisabledByEnv() {
		return
	}
	if s, err := settings.Load(); err == nil && !s.Telemetry {
		return
	}
	cfg, err := config.DefaultConfig()
	if err != nil {
		return
	}
	showNoticeIfNeeded(cfg.HomeDir, os.Stderr)
}

func showNoticeIfNeeded(homeDir string, output io.Writer) {
	marker := filepath.Join(homeDir, NoticeMarkerFile)
	if _, err := os.Stat(marker); err == nil {
		return
	}

	fmt.Fprint(output, NoticeText)

	if err := os.MkdirAll(homeDir, 0o755); err == nil {
		_ = os.WriteFile(marker, nil, 0o644)
	}
}
