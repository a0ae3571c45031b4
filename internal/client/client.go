package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/logging"
	"github.com/muurk/papan/internal/settings"
	"github.com/muurk/papan/internal/version"
	"github.com/muurk/papan/internal/widget"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed reads
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	apiPrefix = "/api/v1"
)

// Client talks to a papan server's HTTP API
type Client struct {
	// BaseURL is the server root (e.g., "http://192.168.1.20:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retries for idempotent reads
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration
}

// New creates a client for host and port
func New(host string, port int) *Client {
	return NewWithURL("http://" + net.JoinHostPort(host, strconv.Itoa(port)))
}

// NewWithURL creates a client for a full base URL. A bare host[:port] is
// given an http:// scheme.
func NewWithURL(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Health is the /healthz response
type Health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Displays int    `json:"displays"`
	Time     string `json:"time"`
}

// Ping checks that a papan server answers on BaseURL
func (c *Client) Ping() (*Health, error) {
	var h Health
	if err := c.get("/healthz", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Settings fetches the current record
func (c *Client) Settings() (settings.Config, error) {
	var cfg settings.Config
	err := c.get(apiPrefix+"/settings", &cfg)
	return cfg, err
}

// ReplaceSettings replaces the server's record wholesale
func (c *Client) ReplaceSettings(cfg settings.Config) (settings.Config, error) {
	var out settings.Config
	err := c.sendJSON(http.MethodPut, apiPrefix+"/settings", cfg, &out)
	return out, err
}

// ResetSettings restores the default record
func (c *Client) ResetSettings() (settings.Config, error) {
	var out settings.Config
	err := c.do(http.MethodPost, apiPrefix+"/settings/reset", "", nil, &out)
	return out, err
}

// UploadImage sends an image file as the logo or background
func (c *Client) UploadImage(target, path string) (settings.Config, error) {
	data, err := readFile(path)
	if err != nil {
		return settings.Config{}, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return settings.Config{}, err
	}
	if _, err := fw.Write(data); err != nil {
		return settings.Config{}, err
	}
	if err := mw.Close(); err != nil {
		return settings.Config{}, err
	}

	var out settings.Config
	err = c.do(http.MethodPost, apiPrefix+"/settings/images/"+target, mw.FormDataContentType(), &body, &out)
	return out, err
}

// Announcements lists the board's agenda
func (c *Client) Announcements() ([]announcement.Announcement, error) {
	var items []announcement.Announcement
	err := c.get(apiPrefix+"/announcements", &items)
	return items, err
}

// CreateAnnouncement adds a and returns it with its assigned ID
func (c *Client) CreateAnnouncement(a announcement.Announcement) (announcement.Announcement, error) {
	var out announcement.Announcement
	err := c.sendJSON(http.MethodPost, apiPrefix+"/announcements", a, &out)
	return out, err
}

// UpdateAnnouncement replaces the announcement with a.ID
func (c *Client) UpdateAnnouncement(a announcement.Announcement) error {
	return c.sendJSON(http.MethodPut, apiPrefix+"/announcements/"+strconv.Itoa(a.ID), a, nil)
}

// DeleteAnnouncement removes the announcement with id
func (c *Client) DeleteAnnouncement(id int) error {
	return c.do(http.MethodDelete, apiPrefix+"/announcements/"+strconv.Itoa(id), "", nil, nil)
}

// Stream returns the stream the displays are playing
func (c *Client) Stream() (widget.Source, error) {
	var src widget.Source
	err := c.get(apiPrefix+"/stream", &src)
	return src, err
}

// SetStream overrides the stream for the running session. A blank URL is a
// no-op and returns the current source.
func (c *Client) SetStream(url string) (widget.Source, error) {
	var src widget.Source
	if err := c.sendJSON(http.MethodPut, apiPrefix+"/stream", map[string]string{"url": url}, &src); err != nil {
		return src, err
	}
	if src.URL == "" {
		return c.Stream()
	}
	return src, nil
}

// ClearStream returns the displays to the configured default stream
func (c *Client) ClearStream() (widget.Source, error) {
	var src widget.Source
	err := c.do(http.MethodDelete, apiPrefix+"/stream", "", nil, &src)
	return src, err
}

// get performs an idempotent GET with retries and exponential backoff
func (c *Client) get(path string, out any) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug("Retrying request",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", currentDelay),
			)
			time.Sleep(currentDelay)
			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		err := c.do(http.MethodGet, path, "", nil, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

func (c *Client) sendJSON(method, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(method, path, "application/json", bytes.NewReader(data), out)
}

// do performs a single request and decodes a JSON response into out
func (c *Client) do(method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return classifyNetworkError("failed to create request", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return classifyNetworkError(method+" "+path+" failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyNetworkError("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return newHTTPError(resp.StatusCode, eb)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Type: ErrTypeParse, Message: "failed to parse response", Err: err}
	}
	return nil
}
