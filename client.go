// Package ipcam is a client for the HTTP API exposed by the Android
// "IP Webcam" app. It covers the status and sensor documents, the camera
// control endpoints, and the stream URL scheme.
//
// Basic usage:
//
//	cam := ipcam.NewClient("192.168.1.40",
//		ipcam.WithCredentials("admin", "secret"),
//		ipcam.WithTLS(false),
//	)
//
//	if err := cam.Update(ctx); err != nil {
//		return err
//	}
//	settings, _ := cam.CurrentSettings()
//
// The client is safe for concurrent use.
package ipcam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Defaults matching the IP Webcam app out of the box.
const (
	DefaultPort    = 8080
	DefaultTimeout = 10 * time.Second
)

// Client talks to one Android device running IP Webcam.
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger
	host       string
	username   string
	password   string
	port       int
	timeout    time.Duration
	useTLS     bool

	mu         sync.RWMutex
	statusDoc  string // raw /status.json body
	sensorsDoc string // raw /sensors.json body
	updated    bool
}

// Option configures a Client.
type Option func(*Client)

// WithPort sets the camera port. Default is 8080.
func WithPort(port int) Option {
	return func(c *Client) {
		c.port = port
	}
}

// WithCredentials enables HTTP basic authentication.
// Both username and password must be non-empty for credentials to be sent.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout sets the per-request timeout. Default is 10s.
// Ignored when a custom HTTP client is supplied via WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTLS controls whether https/rtsps URLs are used. Default is true.
func WithTLS(enabled bool) Option {
	return func(c *Client) {
		c.useTLS = enabled
	}
}

// WithHTTPClient supplies a custom HTTP client, e.g. one with a tuned
// transport or a test double. The client is used as-is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger attaches a zerolog logger. Requests are logged at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the camera at host.
func NewClient(host string, opts ...Option) *Client {
	c := &Client{
		host:    host,
		port:    DefaultPort,
		timeout: DefaultTimeout,
		useTLS:  true,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	return c
}

// Host returns the configured camera host.
func (c *Client) Host() string {
	return c.host
}

// get performs a GET against the camera and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	reqURL := c.BaseURL() + path
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("ipcam: create request: %w", err)
	}

	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("host", c.host).
		Str("path", path).
		Msg("camera request")

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCannotConnect, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn().Err(closeErr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrCannotConnect, err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("camera response")

	return body, nil
}

// command performs a GET against a control endpoint. The camera replies with
// a body containing "Ok" on success.
func (c *Client) command(ctx context.Context, path string) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}

	if !strings.Contains(string(body), "Ok") {
		return ErrCommandRejected
	}

	return nil
}

// Snapshot fetches a single JPEG frame from the camera.
func (c *Client) Snapshot(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/shot.jpg")
}
