// Package rest provides the HTTP session shared by all LumenDB operations.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is a pooled HTTP session with a fixed bearer credential. The
// authentication header is set at construction and never mutated per call,
// so a Session is safe for concurrent use.
//
// The session imposes no timeout and never retries; cancellation and
// deadlines belong to the caller's context and the injected http.Client.
type Session struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	logger     *slog.Logger
}

// Config holds session construction settings.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewSession creates a session. A nil HTTPClient falls back to
// http.DefaultClient; a nil Logger disables logging.
func NewSession(cfg Config) *Session {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		httpClient: hc,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: "Bearer " + cfg.APIKey,
		logger:     logger,
	}
}

// Response is a raw transport response: status plus body bytes. Interpreting
// either is the caller's job.
type Response struct {
	StatusCode int
	Body       []byte
}

// Success reports whether the status is 2xx.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do performs one request/response cycle. A non-nil error means the exchange
// itself failed (connection, cancellation, body read); HTTP error statuses
// come back as a Response.
func (s *Session) Do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("rest: build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", s.authHeader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: read response %s %s: %w", method, path, err)
	}

	s.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
