// Package avatars downloads the avatar images of a repository's contributors.
package avatars

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// Contributor is one account whose avatar should be fetched.
type Contributor struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Source lists the contributors of a repository.
type Source interface {
	Contributors(ctx context.Context) ([]Contributor, error)
}

// GitHubSource lists contributors through the GitHub REST API, requesting
// pages until the API reports no next page.
type GitHubSource struct {
	Client     *http.Client
	APIBase    string // empty means https://api.github.com
	Repository string // owner/name
	Token      string // optional bearer token
}

func (s *GitHubSource) github() (*github.Client, error) {
	client := github.NewClient(s.Client)
	if s.Token != "" {
		client = client.WithAuthToken(s.Token)
	}
	if s.APIBase != "" {
		base, err := url.Parse(strings.TrimRight(s.APIBase, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("avatars: api base %q: %w", s.APIBase, err)
		}
		client.BaseURL = base
	}
	return client, nil
}

// Contributors implements Source.
func (s *GitHubSource) Contributors(ctx context.Context) ([]Contributor, error) {
	owner, name, ok := strings.Cut(s.Repository, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("avatars: repository %q is not owner/name", s.Repository)
	}
	client, err := s.github()
	if err != nil {
		return nil, err
	}

	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var all []Contributor
	for {
		page, resp, err := client.Repositories.ListContributors(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("avatars: list contributors: %w", err)
		}
		for _, c := range page {
			all = append(all, Contributor{Login: c.GetLogin(), AvatarURL: c.GetAvatarURL()})
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}
