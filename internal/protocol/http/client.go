package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/devspace/rickterm/internal/cache"
	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/logger"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// DefaultBaseURL is the public Rick and Morty API root.
const DefaultBaseURL = "https://rickandmortyapi.com/api"

// maxImageSize bounds avatar downloads.
const maxImageSize = 8 << 20

// Client talks to the Rick and Morty REST API.
type Client struct {
	httpClient *http.Client
	config     Config
	cache      cache.Store
	log        *logger.Logger
}

// Config holds HTTP client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	CacheTTL  time.Duration
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new API client with the given options.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: Config{
			BaseURL:   DefaultBaseURL,
			Timeout:   30 * time.Second,
			UserAgent: "rickterm",
		},
	}

	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		client.httpClient.Jar = jar
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// WithTransport sets a custom HTTP transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = transport
	}
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.config.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.config.UserAgent = ua
	}
}

// WithCache serves GET bodies from store for ttl.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.config.CacheTTL = ttl
	}
}

// WithLogger sets the request logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// ListCharacters requests one page of characters matching the filter.
func (c *Client) ListCharacters(ctx context.Context, filter core.Filter) (core.CharacterPage, error) {
	endpoint := c.config.BaseURL + "/character"
	if q := filter.Query().Encode(); q != "" {
		endpoint += "?" + q
	}

	body, err := c.get(ctx, endpoint, true)
	if err != nil {
		return core.CharacterPage{}, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.CharacterPage{}, fmt.Errorf("failed to decode character list: %w", err)
	}

	return resp.toPage(), nil
}

// GetCharacter requests the full record of one character.
func (c *Client) GetCharacter(ctx context.Context, id int) (core.CharacterDetail, error) {
	if err := core.ValidateID(id); err != nil {
		return core.CharacterDetail{}, err
	}

	body, err := c.get(ctx, c.config.BaseURL+"/character/"+strconv.Itoa(id), true)
	if err != nil {
		return core.CharacterDetail{}, err
	}

	var dto characterDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return core.CharacterDetail{}, fmt.Errorf("failed to decode character %d: %w", id, err)
	}

	return dto.toDetail(), nil
}

// FetchImage downloads an avatar. Image bodies are not cached.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if _, err := url.ParseRequestURI(imageURL); err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	return c.get(ctx, imageURL, false)
}

// get executes a GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint string, cacheable bool) ([]byte, error) {
	useCache := cacheable && c.cache != nil && c.config.CacheTTL > 0
	if useCache {
		body, err := c.cache.Get(ctx, endpoint)
		if err == nil {
			c.log.With("url", endpoint).Debug("cache hit")
			return body, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			c.log.Warn(err, "cache read failed")
		}
	}

	requestID := uuid.New().String()
	log := c.log.WithFields(map[string]any{"request_id": requestID, "url": endpoint})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(err, "request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.With("status", resp.StatusCode).With("elapsed_ms", time.Since(start).Milliseconds()).Debug("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewStatusError(resp.StatusCode, resp.Status, apiErrorMessage(body))
	}

	if useCache {
		if err := c.cache.Put(ctx, endpoint, body, c.config.CacheTTL); err != nil {
			log.Warn(err, "cache write failed")
		}
	}

	return body, nil
}

// apiErrorMessage extracts the "error" field the API sends with failures.
func apiErrorMessage(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Error
}
