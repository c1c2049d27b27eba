// Package api wraps the ChemViz backend REST endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chemviz/chemviz-tui/internal/session"
)

// DefaultBaseURL is used when neither flag, environment, nor config
// provides a backend address.
const DefaultBaseURL = "http://127.0.0.1:8000"

// DefaultTimeout bounds every request unless configured otherwise.
const DefaultTimeout = 15 * time.Second

// Client is the single configured HTTP client. The bearer token is read
// from the session store on every request, so a login or logout elsewhere
// in the process takes effect immediately.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	log     *zap.Logger
}

// New builds a client for the given backend address.
func New(baseURL string, timeout time.Duration, sess *session.Store, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		session: sess,
		log:     logger,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasToken reports whether a bearer token is currently stored.
func (c *Client) HasToken(ctx context.Context) bool {
	token, err := c.session.Token(ctx)
	return err == nil && token != ""
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, err
	}
	c.log.Debug("api response",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
	)
	return resp, nil
}

// doJSON sends an optional JSON payload and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	resp, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return decodeJSON(resp.Body, out)
}

func decodeJSON(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func closeBody(resp *http.Response) {
	if cerr := resp.Body.Close(); cerr != nil {
		// Best-effort body close.
		_ = cerr
	}
}
