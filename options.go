package tempmail

import (
	"net/http"
	"time"
)

const (
	defaultBaseURL      = "https://web2.temp-mail.org"
	defaultWaitTimeout  = 60 * time.Second
	defaultPollInterval = 2 * time.Second

	// defaultUserAgent matches a current desktop Chrome; the provider
	// profiles non-browser agents before it even issues a challenge.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	pollInterval time.Duration
	userAgent    string
}

// waitConfig holds configuration for one WaitForMessage call.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures a single wait.
type WaitOption func(*waitConfig)

// WithBaseURL sets the provider base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. The client's cookie jar is
// ignored; each session carries its own.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default timeout for WaitForMessage.
// Default: 60 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the default interval between mailbox polls.
// Default: 2 seconds.
func WithPollInterval(interval time.Duration) Option {
	return func(c *clientConfig) {
		c.pollInterval = interval
	}
}

// WithUserAgent overrides the browser-equivalent User-Agent sent on
// every provider request.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithWaitTimeout overrides the client's default timeout for one wait.
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithWaitPollInterval overrides the client's default poll interval for
// one wait.
func WithWaitPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}
