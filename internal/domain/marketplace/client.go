package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client errors.
var (
	ErrFetchFailed    = errors.New("fetch failed")
	ErrNetworkError   = errors.New("network error")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrServerError    = errors.New("server error")
	ErrSourceMissing  = errors.New("catalog document not found")
	ErrNotGitHubRepo  = errors.New("source base URL is not a GitHub repository")
	ErrBadCatalogBody = errors.New("malformed catalog payload")
)

const (
	// DefaultAPIBaseURL is the GitHub REST API root.
	DefaultAPIBaseURL = "https://api.github.com"

	// catalogPath is where a marketplace repository keeps its catalog.
	catalogPath = ".claude-plugin/marketplace.json"

	// maxResponseSize limits API response bodies to prevent memory
	// exhaustion (10MB; catalog documents are far smaller).
	maxResponseSize = 10 * 1024 * 1024
)

// FetchError reports a failure fetching one source's catalog. The
// aggregator downgrades it to a warning; it never fails a query.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching catalog for %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClientConfig configures the catalog fetcher.
type ClientConfig struct {
	// APIBaseURL is the GitHub API root (overridable for tests)
	APIBaseURL string
	// Timeout bounds each request
	Timeout time.Duration
	// UserAgent is the User-Agent header value
	UserAgent string
	// AuthToken is an optional GitHub token
	AuthToken string
	// RetryMax is the number of retries after a failed attempt
	RetryMax int
}

// DefaultClientConfig returns sensible defaults. A single retry is the
// upper bound; a failed fetch degrades to cache fallback, never a loop.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIBaseURL: DefaultAPIBaseURL,
		Timeout:    30 * time.Second,
		UserAgent:  "pluginscout/1.0",
		RetryMax:   1,
	}
}

// Client fetches catalog documents over the GitHub contents API.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new catalog client.
func NewClient(config ClientConfig) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = config.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = config.Timeout
	rc.Logger = nil

	return &Client{
		config:     config,
		httpClient: rc.StandardClient(),
	}
}

// contentsResponse is the GitHub contents API envelope: the file body
// arrives base64-encoded inside a JSON wrapper.
type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Fetch retrieves and decodes one source's catalog document. The
// returned bytes are the raw marketplace.json, transport encoding
// already stripped, validated to parse as a catalog document.
func (c *Client) Fetch(ctx context.Context, source Source) ([]byte, error) {
	owner, repo, ok := source.Repo()
	if !ok {
		return nil, &FetchError{Source: source.Name(), Err: fmt.Errorf("%w: %s", ErrNotGitHubRepo, source.BaseURL())}
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.config.APIBaseURL, owner, repo, catalogPath)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, &FetchError{Source: source.Name(), Err: err}
	}

	var envelope contentsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &FetchError{Source: source.Name(), Err: fmt.Errorf("%w: %w", ErrBadCatalogBody, err)}
	}
	if envelope.Content == "" {
		return nil, &FetchError{Source: source.Name(), Err: fmt.Errorf("%w: missing content field", ErrBadCatalogBody)}
	}

	document, err := decodeContent(envelope)
	if err != nil {
		return nil, &FetchError{Source: source.Name(), Err: err}
	}

	// Reject documents that will not normalize before they reach the cache.
	if _, err := ParseDocument(document); err != nil {
		return nil, &FetchError{Source: source.Name(), Err: fmt.Errorf("%w: %w", ErrBadCatalogBody, err)}
	}

	return document, nil
}

// decodeContent strips the transport encoding from the contents payload.
func decodeContent(envelope contentsResponse) ([]byte, error) {
	switch envelope.Encoding {
	case "", "base64":
		// The API inserts newlines into the base64 stream.
		cleaned := strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, envelope.Content)

		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadCatalogBody, err)
		}
		return decoded, nil
	case "none":
		return []byte(envelope.Content), nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrBadCatalogBody, envelope.Encoding)
	}
}

// get performs an HTTP GET against the GitHub API.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: request creation failed", ErrNetworkError)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if c.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// Continue
	case http.StatusNotFound:
		return nil, ErrSourceMissing
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: status %d", ErrServerError, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrNetworkError)
	}

	return data, nil
}
