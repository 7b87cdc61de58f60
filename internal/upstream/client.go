// Package upstream forwards transformed requests to the provider endpoint
// and hands the streaming response back untouched.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// upstreamHTTPTimeout is the maximum time allowed for the upstream request.
// SSE streams can be long-lived, so the timeout is generous.
const upstreamHTTPTimeout = 10 * time.Minute

// Client makes chat completion requests to a provider endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	verbose bool
}

// NewClient creates an upstream client for baseURL. A non-empty apiKey is
// carried as a bearer token via an oauth2 token source.
func NewClient(baseURL, apiKey string, verbose bool) *Client {
	var hc *http.Client
	if apiKey != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = upstreamHTTPTimeout
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		verbose: verbose,
	}
}

// Do sends the prepared body to the chat completions endpoint and returns
// the streaming response for the caller to consume.
func (c *Client) Do(ctx context.Context, body []byte) (*http.Response, error) {
	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	if c.verbose {
		slog.Info("upstream.request", "url", url, "bytes", len(body))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	if c.verbose {
		slog.Info("upstream.response", "status", resp.StatusCode,
			"content_type", resp.Header.Get("Content-Type"))
	}
	return resp, nil
}
