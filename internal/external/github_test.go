package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orbit-updates/orbit/internal/log"
)

func githubSourceFor(t *testing.T, handler http.HandlerFunc) *GitHubSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	src := NewGitHubSource("orbit-updates", "orbit-lsp", "lsp", "")
	if err := src.SetBaseURL(server.URL + "/"); err != nil {
		t.Fatal(err)
	}
	return src
}

func releaseHandler(tag string, prerelease bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name": %q, "prerelease": %v, "html_url": "https://github.com/orbit-updates/orbit-lsp/releases/tag/%s"}`, tag, prerelease, tag)
	}
}

func TestGitHubSourceNewerRelease(t *testing.T) {
	src := githubSourceFor(t, releaseHandler("v1.2.0", false))

	components, err := src.CheckUpdates(context.Background(), map[string]string{"lsp": "1.1.0"})
	if err != nil {
		t.Fatalf("CheckUpdates failed: %v", err)
	}
	if len(components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(components))
	}
	c := components[0]
	if c.Name != "lsp" || c.LatestVersion != "1.2.0" || c.CurrentVersion != "1.1.0" {
		t.Errorf("unexpected component: %+v", c)
	}
}

func TestGitHubSourceUpToDate(t *testing.T) {
	src := githubSourceFor(t, releaseHandler("v1.1.0", false))

	components, err := src.CheckUpdates(context.Background(), map[string]string{"lsp": "1.1.0"})
	if err != nil {
		t.Fatalf("CheckUpdates failed: %v", err)
	}
	if len(components) != 0 {
		t.Fatalf("expected no components, got %+v", components)
	}
}

func TestGitHubSourcePrereleaseIgnored(t *testing.T) {
	src := githubSourceFor(t, releaseHandler("v2.0.0-rc.1", true))

	components, err := src.CheckUpdates(context.Background(), map[string]string{"lsp": "1.0.0"})
	if err != nil {
		t.Fatalf("CheckUpdates failed: %v", err)
	}
	if len(components) != 0 {
		t.Fatalf("prereleases should be ignored, got %+v", components)
	}
}

func TestGitHubSourceComponentNotInstalled(t *testing.T) {
	src := githubSourceFor(t, releaseHandler("v9.9.9", false))

	components, err := src.CheckUpdates(context.Background(), map[string]string{"other": "1.0.0"})
	if err != nil {
		t.Fatalf("CheckUpdates failed: %v", err)
	}
	if components != nil {
		t.Fatalf("a component the user does not have should be skipped, got %+v", components)
	}
}

type stubSource struct {
	name       string
	components []Component
	err        error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) CheckUpdates(ctx context.Context, installed map[string]string) ([]Component, error) {
	return s.components, s.err
}

func TestCheckAllSkipsFailingSource(t *testing.T) {
	sources := []Source{
		&stubSource{name: "broken", err: errors.New("unreachable")},
		&stubSource{name: "working", components: []Component{{Name: "lsp", LatestVersion: "2.0.0"}}},
	}

	updates := CheckAll(context.Background(), sources, map[string]string{"lsp": "1.0.0"}, log.Default())
	if len(updates) != 1 {
		t.Fatalf("expected 1 update set, got %d", len(updates))
	}
	if updates[0].Source != "working" {
		t.Errorf("source = %q, want working", updates[0].Source)
	}
}

func TestCheckAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources := []Source{&stubSource{name: "working", components: []Component{{Name: "lsp"}}}}
	updates := CheckAll(ctx, sources, nil, nil)
	if len(updates) != 0 {
		t.Fatalf("a cancelled context should stop the fan-out, got %+v", updates)
	}
}
