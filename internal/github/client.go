package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/failure"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "UniCreate/1.0"
	acceptHeader     = "application/vnd.github.v3+json"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL for API requests. Must use HTTPS.
	BaseURL string

	// Token is a bearer token. Empty means anonymous requests.
	Token string

	UserAgent string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger defaults to the "github" prefixed default logger.
	Logger *clog.Logger
}

// Client provides GitHub operations over the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *clog.Logger
	token      string
	userAgent  string
}

var _ GitHub = &Client{}

// NewClient creates a REST client. Returns an error for a non-HTTPS base URL.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "https://") {
		return nil, failure.Newf(failure.KindDomain, "new github client", "API client requires HTTPS (got %q)", baseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = clog.Default().WithPrefix("github")
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        logger,
		token:      cfg.Token,
		userAgent:  userAgent,
	}, nil
}

func (c *Client) WithToken(token string) GitHub {
	clone := *c
	clone.token = token
	return &clone
}

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// do sends a request and decodes a 2xx JSON body into result (if non-nil).
// Failures are classified as transport, http_status, auth (401) or parse.
func (c *Client) do(ctx context.Context, method, path string, requestBody, result any) error {
	op := method + " " + path
	c.log.Debug("Sending request", "method", method, "path", path, "authenticated", c.HasToken())

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return failure.New(failure.KindParse, op, fmt.Errorf("failed to encode request body: %w", err))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return failure.New(failure.KindTransport, op, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)
	if c.HasToken() {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return failure.New(failure.KindTransport, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure.New(failure.KindTransport, op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, body)
		kind := failure.KindHTTPStatus
		if resp.StatusCode == http.StatusUnauthorized {
			kind = failure.KindAuth
		}
		c.log.Warn("request returned error status", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return &failure.Error{Kind: kind, Op: op, StatusCode: resp.StatusCode, Err: apiErr}
	}

	c.log.Debug("Request succeeded", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(body))

	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return failure.New(failure.KindParse, op, fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, requestBody, result any) error {
	return c.do(ctx, http.MethodPost, path, requestBody, result)
}
