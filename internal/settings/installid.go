package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/orbit-updates/orbit/internal/config"
)

// InstallationID returns the stable anonymized installation UUID,
// generating and persisting one on first use. Repositories receive it
// as a query parameter so update counts can be deduplicated server
// side without identifying the machine.
func InstallationID() (string, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return "", err
	}
	return installationIDAt(cfg.InstallIDFile)
}

// installationIDAt reads or creates the id file at a specific path.
func installationIDAt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id, nil
		}
		// Corrupt id file: regenerate below.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read installation id: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create orbit home: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to persist installation id: %w", err)
	}
	return id, nil
}
