package main_test

import (
	"bytes"
	"os/exec"
	"testing"
)

// TestHygiene runs the formatting and static-analysis tools the CI
// pipeline enforces. Skipped in short mode; some steps download
// tools.
func TestHygiene(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode: skipping hygiene checks")
	}

	steps := []struct {
		name string
		cmd  []string
	}{
		{"gofmt", []string{"gofmt", "-l", "cmd", "internal"}},
		{"vet", []string{"go", "vet", "./..."}},
		{"tidy", []string{"go", "mod", "tidy", "-diff"}},
		{"golangci-lint", []string{"go", "run", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest", "run", "--timeout=5m"}},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			cmd := exec.Command(step.cmd[0], step.cmd[1:]...)
			var out bytes.Buffer
			cmd.Stdout = &out
			cmd.Stderr = &out
			if err := cmd.Run(); err != nil {
				t.Fatalf("%v: %v\n%s", cmd, err, out.String())
			}
			// gofmt -l reports offenders on stdout with a zero exit.
			if step.name == "gofmt" && out.Len() > 0 {
				t.Errorf("unformatted files:\n%s", out.String())
			}
		})
	}
}
