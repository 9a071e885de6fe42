package external

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubSource checks GitHub Releases of a single repository for a
// newer version of one component.
type GitHubSource struct {
	owner     string
	repo      string
	component string
	client    *github.Client
}

// NewGitHubSource creates a source watching owner/repo releases for
// the named component. An empty token uses unauthenticated access,
// which is fine for public repositories at the check frequency this
// tool runs at.
func NewGitHubSource(owner, repo, component, token string) *GitHubSource {
	var client *github.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	} else {
		client = github.NewClient(nil)
	}
	return &GitHubSource{owner: owner, repo: repo, component: component, client: client}
}

// Name identifies the source in logs and notifications.
func (s *GitHubSource) Name() string {
	return fmt.Sprintf("github.com/%s/%s", s.owner, s.repo)
}

// SetBaseURL points the source at a different API endpoint. Used for
// GitHub Enterprise installs and in tests.
func (s *GitHubSource) SetBaseURL(baseURL string) error {
	client, err := s.client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return fmt.Errorf("configuring API endpoint: %w", err)
	}
	s.client = client
	return nil
}

// CheckUpdates fetches the latest non-draft, non-prerelease release
// and reports the component when that release's tag is newer than the
// installed version. A component not present in installed is skipped.
func (s *GitHubSource) CheckUpdates(ctx context.Context, installed map[string]string) ([]Component, error) {
	current, ok := installed[s.component]
	if !ok {
		return nil, nil
	}

	release, _, err := s.client.Repositories.GetLatestRelease(ctx, s.owner, s.repo)
	if err != nil {
		return nil, fmt.Errorf("fetching latest release: %w", err)
	}
	tag := release.GetTagName()
	if tag == "" || release.GetDraft() || release.GetPrerelease() {
		return nil, nil
	}

	newer, err := tagIsNewer(tag, current)
	if err != nil {
		return nil, err
	}
	if !newer {
		return nil, nil
	}

	return []Component{{
		Name:           s.component,
		CurrentVersion: current,
		LatestVersion:  strings.TrimPrefix(tag, "v"),
		URL:            release.GetHTMLURL(),
	}}, nil
}

func tagIsNewer(tag, current string) (bool, error) {
	latest, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return false, fmt.Errorf("release tag %q is not a version: %w", tag, err)
	}
	installed, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("installed version %q is not a version: %w", current, err)
	}
	return latest.GreaterThan(installed), nil
}
