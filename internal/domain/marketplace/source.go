// Package marketplace aggregates plugin catalogs from configured remote
// sources into a uniform, searchable corpus.
package marketplace

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Source errors.
var (
	ErrInvalidSource = errors.New("invalid marketplace source")
)

// Source identifies a named remote plugin catalog.
// Identity is the name; two sources never share one.
type Source struct {
	name    string
	baseURL string
}

// NewSource creates a validated marketplace source.
func NewSource(name, baseURL string) (Source, error) {
	if name == "" {
		return Source{}, fmt.Errorf("%w: name is required", ErrInvalidSource)
	}

	if baseURL == "" {
		return Source{}, fmt.Errorf("%w: base URL is required", ErrInvalidSource)
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return Source{}, fmt.Errorf("%w: invalid URL: %w", ErrInvalidSource, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Source{}, fmt.Errorf("%w: URL scheme must be http or https", ErrInvalidSource)
	}

	if parsed.Host == "" {
		return Source{}, fmt.Errorf("%w: URL must have a host", ErrInvalidSource)
	}

	return Source{name: name, baseURL: baseURL}, nil
}

// Name returns the source name.
func (s Source) Name() string {
	return s.name
}

// BaseURL returns the source base URL.
func (s Source) BaseURL() string {
	return s.baseURL
}

// IsZero returns true if the source is empty.
func (s Source) IsZero() bool {
	return s.name == "" && s.baseURL == ""
}

// String returns a string representation.
func (s Source) String() string {
	return fmt.Sprintf("%s (%s)", s.name, s.baseURL)
}

var githubRepoPattern = regexp.MustCompile(`github(?:usercontent)?\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/|$)`)

// Repo extracts the owner/repo pair from the source base URL.
// Returns false when the base URL does not point at a GitHub repository.
func (s Source) Repo() (owner, repo string, ok bool) {
	m := githubRepoPattern.FindStringSubmatch(s.baseURL)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), true
}

// RepoSlug returns the "owner/repo" form of the source repository,
// or the source name when the base URL is not a GitHub repository.
// This is the slug the external installer's add directive expects.
func (s Source) RepoSlug() string {
	owner, repo, ok := s.Repo()
	if !ok {
		return s.name
	}
	return owner + "/" + repo
}
