package api

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/diogo/askchat/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the ask client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts questions to the ask endpoint
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	askPath    string
	timeout    time.Duration
	logger     zerolog.Logger
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the backend base URL (scheme and host)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithAskPath sets the path of the ask endpoint
func WithAskPath(path string) ClientOption {
	return func(c *Client) {
		c.askPath = path
	}
}

// WithTimeout bounds each request. Zero waits indefinitely.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the default tls-client transport
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new ask client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: models.DefaultServerURL,
		askPath: models.DefaultAskPath,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative")
	}

	u, err := url.Parse(client.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", client.baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", client.baseURL)
	}

	if client.httpClient == nil {
		// Deadlines come from the request context, so the transport itself never times out
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the full URL questions are posted to
func (c *Client) Endpoint() string {
	path := c.askPath
	if path == "" {
		path = models.DefaultAskPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(c.baseURL, "/") + path
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections. The client cannot be used afterwards.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if closer, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
