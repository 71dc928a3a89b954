package historian

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal REST client for the process-data historian.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// NewClient constructs a historian client.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("historian: empty base url")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type batchReadRequest struct {
	Tags []string `json:"tags"`
}

type batchReadResponse struct {
	Values map[string]any `json:"values"`
}

// ReadBatch reads the given tag addresses in one call. The whole read fails
// when the historian is unreachable or returns a non-2xx status; partial
// results are never returned.
func (c *Client) ReadBatch(ctx context.Context, addresses []string) (map[string]any, error) {
	if c == nil {
		return nil, errors.New("historian: nil client")
	}
	if len(addresses) == 0 {
		return map[string]any{}, nil
	}

	payload, err := json.Marshal(batchReadRequest{Tags: addresses})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/values/read", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("historian: http %d", resp.StatusCode)
	}
	var decoded batchReadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Values == nil {
		decoded.Values = map[string]any{}
	}
	return decoded.Values, nil
}
