// Package github is a small client for the GitHub REST API, limited to the
// repository counters shown on product pages.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/allan-kirui57/pynade-hub/internal/ratelimit"
)

const (
	// Outbound pacing shared by every request from this client.
	defaultRPS   = 1.0
	defaultBurst = 5

	defaultTimeout = 15 * time.Second

	limiterKey  = "github"
	acceptValue = "application/vnd.github.v3+json"
	userAgent   = "PynadeHub/1.0"
)

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	Token     string
	BaseURL   string
	RateLimit float64 // requests per second
	RateBurst int
	Timeout   time.Duration
}

// Client is a rate-limited GitHub API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	token   string
	baseURL string
	logger  *slog.Logger
}

// RepositoryStats are the counters read from GET /repos/{owner}/{repo}.
type RepositoryStats struct {
	FullName string
	Stars    int
	Forks    int
	Watchers int
}

type rawRepository struct {
	FullName        string `json:"full_name"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	WatchersCount   int    `json:"watchers_count"`
}

// New creates a new GitHub client.
func New(cfg Config, logger *slog.Logger) *Client {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = defaultBurst
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: ratelimit.New(rps, burst),
		token:   cfg.Token,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// BaseURL is the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetRepository fetches the star, fork and watcher counts of repo.
// Counters missing from the response are reported as zero.
func (c *Client) GetRepository(ctx context.Context, repo Repository) (*RepositoryStats, error) {
	apiURL := repo.APIURL(c.baseURL)

	body, err := c.doRequest(ctx, "getRepository", apiURL)
	if err != nil {
		return nil, err
	}

	var raw rawRepository
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &Error{Op: "getRepository", URL: apiURL, Status: http.StatusOK, Body: truncate(body), Err: fmt.Errorf("decode response: %w", err)}
	}

	return &RepositoryStats{
		FullName: raw.FullName,
		Stars:    raw.StargazersCount,
		Forks:    raw.ForksCount,
		Watchers: raw.WatchersCount,
	}, nil
}

// doRequest executes a GET with rate limiting and maps failures to *Error.
func (c *Client) doRequest(ctx context.Context, op, fullURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, &Error{Op: op, URL: fullURL, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &Error{Op: op, URL: fullURL, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Accept", acceptValue)
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("github request", "url", fullURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: op, URL: fullURL, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, URL: fullURL, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	return nil, &Error{
		Op:     op,
		URL:    fullURL,
		Status: resp.StatusCode,
		Body:   truncate(body),
		Err:    statusError(resp),
	}
}

// statusError maps a non-2xx response to a sentinel.
func statusError(resp *http.Response) error {
	switch code := resp.StatusCode; {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		if remaining, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining")); err == nil && remaining == 0 {
			return ErrRateLimited
		}
		return ErrUnauthorized
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code >= 500:
		return ErrServer
	case code >= 400:
		return ErrBadRequest
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
