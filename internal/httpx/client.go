// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/openlit/harvester/pkg/types"
)

// Client wraps http.Client with the shared rate limiter and default
// headers. Every outbound request the pipeline makes goes through one
// Client instance, so the limiter's spacing holds across sources and the
// acquisition stage alike.
//
// There is no in-run retry: a failed request is a failed source (or a
// failed download strategy) and the pipeline degrades instead.
type Client struct {
	hc        *http.Client
	limiter   *Limiter
	userAgent string
}

// NewClient builds a Client from cfg sharing limiter.
func NewClient(cfg types.HTTPConfig, limiter *Limiter) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = "harvester/0.1"
	}
	return &Client{
		hc:        &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
		userAgent: ua,
	}
}

// Get waits for a limiter slot and issues a GET for url. The optional
// accept value sets the Accept header. The caller owns the response body.
func (c *Client) Get(ctx context.Context, url, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return c.hc.Do(req)
}

// PostJSON waits for a limiter slot and POSTs body as JSON to url.
// Providers whose search endpoint is POST-only (Figshare) use this.
func (c *Client) PostJSON(ctx context.Context, url string, body any, headers map[string]string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.hc.Do(req)
}

// GetWithHeaders is Get with extra request headers (API keys and the like).
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.hc.Do(req)
}
