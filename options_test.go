package tempmail

import (
	"net/http"
	"testing"
	"time"
)

func TestOptions(t *testing.T) {
	httpClient := &http.Client{Timeout: 5 * time.Second}

	cfg := &clientConfig{
		baseURL:      defaultBaseURL,
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
		userAgent:    defaultUserAgent,
	}
	opts := []Option{
		WithBaseURL("https://mail.example.com"),
		WithHTTPClient(httpClient),
		WithTimeout(30 * time.Second),
		WithPollInterval(time.Second),
		WithUserAgent("custom-agent/1.0"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL != "https://mail.example.com" {
		t.Errorf("baseURL = %q", cfg.baseURL)
	}
	if cfg.httpClient != httpClient {
		t.Error("httpClient not applied")
	}
	if cfg.timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.timeout)
	}
	if cfg.pollInterval != time.Second {
		t.Errorf("pollInterval = %v", cfg.pollInterval)
	}
	if cfg.userAgent != "custom-agent/1.0" {
		t.Errorf("userAgent = %q", cfg.userAgent)
	}
}

func TestWaitOptions(t *testing.T) {
	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
	}

	WithWaitTimeout(10 * time.Second)(cfg)
	WithWaitPollInterval(250 * time.Millisecond)(cfg)

	if cfg.timeout != 10*time.Second {
		t.Errorf("timeout = %v", cfg.timeout)
	}
	if cfg.pollInterval != 250*time.Millisecond {
		t.Errorf("pollInterval = %v", cfg.pollInterval)
	}
}
