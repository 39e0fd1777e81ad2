package avatars

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// GitSource derives contributors from the commit authors of a git
// repository, so no hosting API is needed. Authors with GitHub noreply
// addresses get their GitHub avatar; everyone else gets a Gravatar.
type GitSource struct {
	URL  string // anything go-git can clone
	Size int    // avatar size in pixels requested from the avatar service
}

// Contributors implements Source. The repository is cloned into memory.
func (s *GitSource) Contributors(ctx context.Context) ([]Contributor, error) {
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:        s.URL,
		NoCheckout: true,
	})
	if err != nil {
		return nil, fmt.Errorf("avatars: git clone %s: %w", s.URL, err)
	}

	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("avatars: git log %s: %w", s.URL, err)
	}

	var sigs []object.Signature
	err = iter.ForEach(func(c *object.Commit) error {
		sigs = append(sigs, c.Author)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("avatars: walk commits: %w", err)
	}
	return contributorsFromAuthors(sigs, s.Size), nil
}

// noreplyRe matches 12345+login@users.noreply.github.com and
// login@users.noreply.github.com.
var noreplyRe = regexp.MustCompile(`^(?:(\d+)\+)?([^@]+)@users\.noreply\.github\.com$`)

// contributorsFromAuthors deduplicates authors by email and then by login,
// and sorts them by login so the result is stable across runs.
func contributorsFromAuthors(authors []object.Signature, size int) []Contributor {
	if size <= 0 {
		size = 100
	}
	seenEmail := make(map[string]bool)
	seenLogin := make(map[string]bool)
	var out []Contributor
	for _, a := range authors {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		if email == "" || seenEmail[email] {
			continue
		}
		seenEmail[email] = true

		var c Contributor
		if m := noreplyRe.FindStringSubmatch(email); m != nil {
			c = Contributor{Login: m[2], AvatarURL: fmt.Sprintf("https://github.com/%s.png?size=%d", m[2], size)}
			if m[1] != "" {
				c.AvatarURL = fmt.Sprintf("https://avatars.githubusercontent.com/u/%s?s=%d", m[1], size)
			}
		} else {
			sum := md5.Sum([]byte(email))
			c = Contributor{
				Login:     loginFromAuthor(a.Name, email),
				AvatarURL: fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=identicon", hex.EncodeToString(sum[:]), size),
			}
		}

		// One person committing from several addresses keeps the first.
		if c.Login == "" || seenLogin[c.Login] {
			continue
		}
		seenLogin[c.Login] = true
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Login < out[j].Login })
	return out
}

var nonLoginRe = regexp.MustCompile(`[^a-z0-9._-]+`)

func loginFromAuthor(name, email string) string {
	login := nonLoginRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	login = strings.Trim(login, "-.")
	if login == "" {
		local, _, _ := strings.Cut(email, "@")
		login = strings.Trim(nonLoginRe.ReplaceAllString(local, "-"), "-.")
	}
	return login
}
