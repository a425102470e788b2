package github

import (
	"errors"
	"testing"
)

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		raw       string
		wantOwner string
		wantName  string
	}{
		{"https://github.com/acme/widget", "acme", "widget"},
		{"https://github.com/acme/widget/", "acme", "widget"},
		{"https://github.com/acme/widget.git", "acme", "widget"},
		{"https://github.com/acme/widget/tree/main/docs", "acme", "widget"},
		{"https://github.com//acme//widget", "acme", "widget"},
		{"  https://github.com/acme/widget  ", "acme", "widget"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			repo, err := ParseRepositoryURL(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.Owner != tt.wantOwner || repo.Name != tt.wantName {
				t.Errorf("got %s, want %s/%s", repo, tt.wantOwner, tt.wantName)
			}
		})
	}
}

func TestParseRepositoryURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://github.com/onlyonepart",
		"https://github.com/",
		"https://github.com",
		"://bad url",
	} {
		t.Run(raw, func(t *testing.T) {
			if _, err := ParseRepositoryURL(raw); !errors.Is(err, ErrInvalidRepositoryURL) {
				t.Errorf("expected ErrInvalidRepositoryURL, got %v", err)
			}
		})
	}
}

func TestRepository_APIURL(t *testing.T) {
	repo, err := ParseRepositoryURL("https://github.com/acme/widget/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := repo.APIURL(""); got != "https://api.github.com/repos/acme/widget" {
		t.Errorf("default base: got %q", got)
	}
	if got := repo.APIURL("http://localhost:9000/"); got != "http://localhost:9000/repos/acme/widget" {
		t.Errorf("custom base: got %q", got)
	}
}
