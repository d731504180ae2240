package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lysyi3m/pet-comb/app/cfg"
)

// Client fetches the raw provider document over HTTP. Timeout and retry
// policy beyond the per-request timeout belong to the caller.
type Client struct {
	httpClient *http.Client
	url        string
	params     map[string]string
	userAgent  string
	timeout    time.Duration
}

func NewClient(httpClient *http.Client, providerURL string, config *Config) *Client {
	appCfg := cfg.Get()

	return &Client{
		httpClient: httpClient,
		url:        providerURL,
		params:     config.Params,
		userAgent:  appCfg.UserAgent,
		timeout:    time.Duration(config.Settings.Timeout) * time.Second,
	}
}

func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", c.url, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	query := url.Values{}
	for k, v := range c.params {
		query.Set(k, v)
	}
	req.URL.RawQuery = query.Encode()

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return data, nil
}
