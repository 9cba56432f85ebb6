package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

// Compile-time check: Client implements domain.Provisioner.
var _ domain.Provisioner = (*Client)(nil)

const provisionPath = "/api/provision_org"

// DefaultTimeout bounds a provisioning call unless overridden.
const DefaultTimeout = 15 * time.Second

type provisionRequest struct {
	BotecoUsername string `json:"boteco_username"`
}

// Client calls the internal schema provisioning service.
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client posting to {baseURL}/api/provision_org.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + provisionPath,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProvisionSchema asks the provisioning service to set up the schema for
// botecoUsername. Any non-2xx status or transport failure is a
// *domain.ProvisioningError. There is no retry.
func (c *Client) ProvisionSchema(ctx context.Context, botecoUsername string) error {
	body, err := json.Marshal(provisionRequest{BotecoUsername: botecoUsername})
	if err != nil {
		return &domain.ProvisioningError{Username: botecoUsername, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &domain.ProvisioningError{Username: botecoUsername, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.ProvisioningError{Username: botecoUsername, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.ProvisioningError{
			Username:   botecoUsername,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return nil
}
