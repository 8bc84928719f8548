// Package discord talks to the Discord REST API on behalf of a bot user.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Discord REST API endpoint.
const DefaultBaseURL = "https://discord.com/api/v10"

const userAgent = "DiscordBot (https://github.com/schaermu/guildsync, 1)"

var (
	// ErrInvalidCredentials is returned for 401 responses.
	ErrInvalidCredentials = errors.New("invalid bot credentials")
	// ErrInsufficientPermissions is returned for 403 responses.
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	// ErrInvalidRequest is returned for 400 responses.
	ErrInvalidRequest = errors.New("invalid request")
)

// APIError is returned for any non 2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if kind := e.Unwrap(); kind != nil {
		msg += ": " + kind.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap maps well known status codes to sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusForbidden:
		return ErrInsufficientPermissions
	case http.StatusBadRequest:
		return ErrInvalidRequest
	default:
		return nil
	}
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// Transport is the base round tripper, http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// Client performs authenticated, rate limited requests against the API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a new API client.
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bot"})
	return &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &oauth2.Transport{Source: source, Base: base},
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		logger:  logger,
	}, nil
}

// do sends a request with an optional JSON body and decodes the JSON
// response into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("discord request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}
