package github

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepositoryURL extracts owner and name from a repository page URL such as
// https://github.com/acme/widget. Extra path segments are ignored.
func ParseRepositoryURL(raw string) (Repository, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return Repository{}, ErrInvalidRepositoryURL
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return Repository{}, ErrInvalidRepositoryURL
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return Repository{}, ErrInvalidRepositoryURL
	}

	return Repository{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
	}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// APIURL returns the repository endpoint under baseURL, or under
// DefaultBaseURL when baseURL is empty.
func (r Repository) APIURL(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/repos/" + url.PathEscape(r.Owner) + "/" + url.PathEscape(r.Name)
}
