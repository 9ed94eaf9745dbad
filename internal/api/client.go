package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the fixed per-request timeout. A timeout is treated
	// identically to a connection failure for retry purposes.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10
)

// Client is the backend API client. Transport-level failures (no response
// received, including timeouts) are retried exactly once with identical
// parameters; any received error response is never retried and is normalized
// into *models.APIError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
	events     interfaces.EventService
	limiter    *rate.Limiter
}

// NewClient creates a new backend API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doJSON performs a JSON request against the backend. body may be nil.
// result may be nil for calls whose response is discarded.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body interface{}, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &models.APIError{Message: "rate limiter interrupted: " + err.Error(), Endpoint: path}
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	resp, err := c.attempt(ctx, method, reqURL, bodyBytes, "application/json", nil, 0)
	if err != nil {
		// No response received: retry exactly once with identical parameters
		if c.logger != nil {
			c.logger.Debug().Str("endpoint", path).Err(err).Msg("Request failed without response, retrying once")
		}
		resp, err = c.attempt(ctx, method, reqURL, bodyBytes, "application/json", nil, 0)
		if err != nil {
			c.notify(0)
			return &models.APIError{Message: err.Error(), Endpoint: path}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp, path)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}

	return nil
}

// attempt issues one HTTP request. A progressFn, when set, observes bytes
// read from the request body as the transport consumes them.
func (c *Client) attempt(ctx context.Context, method, reqURL string, body []byte, contentType string, progressFn interfaces.ProgressFunc, totalBytes int64) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		if progressFn != nil && totalBytes > 0 {
			reader = &progressReader{r: bytes.NewReader(body), total: totalBytes, fn: progressFn}
		} else {
			reader = bytes.NewReader(body)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.ContentLength = int64(len(body))
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().Str("method", method).Str("url", reqURL).Msg("Backend API request")
	}

	return c.httpClient.Do(req)
}

// errorFromResponse normalizes a received error response into *models.APIError.
// Message priority: server-supplied detail, transport-level status text,
// generic fallback.
func (c *Client) errorFromResponse(resp *http.Response, path string) error {
	apiErr := &models.APIError{
		Status:   resp.StatusCode,
		Endpoint: path,
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		// Plain detail string
		var detail string
		if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
			apiErr.Message = detail
			apiErr.Detail = detail
		} else {
			// FastAPI-style per-field validation list
			var items []fieldErrorItem
			if err := json.Unmarshal(envelope.Detail, &items); err == nil {
				for _, item := range items {
					apiErr.FieldErrors = append(apiErr.FieldErrors, models.FieldError{
						Location: joinLoc(item.Loc),
						Message:  item.Msg,
						Kind:     item.Type,
					})
				}
				apiErr.Message = "validation failed"
			}
		}
	}

	if apiErr.Message == "" {
		if text := http.StatusText(resp.StatusCode); text != "" {
			apiErr.Message = text
		} else {
			apiErr.Message = "request failed"
		}
	}

	if c.logger != nil {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("endpoint", path).
			Str("message", apiErr.Message).
			Msg("Backend returned error response")
	}

	c.notify(resp.StatusCode)

	return apiErr
}

// notify emits an advisory user-facing notification classified by status.
// This is UI feedback only, not part of the error contract.
func (c *Client) notify(status int) {
	if c.events == nil {
		return
	}

	var n interfaces.Notification
	switch {
	case status == 0:
		n = interfaces.Notification{Level: interfaces.NotificationError, Message: "Network error. Retry exhausted."}
	case status >= 500:
		n = interfaces.Notification{Level: interfaces.NotificationError, Message: "Server error. Please retry later."}
	case status == 422:
		n = interfaces.Notification{Level: interfaces.NotificationWarning, Message: "Invalid input."}
	case status == 429:
		n = interfaces.Notification{Level: interfaces.NotificationWarning, Message: "Rate limited. Please try again later."}
	default:
		n = interfaces.Notification{Level: interfaces.NotificationWarning, Message: "Request failed."}
	}

	_ = c.events.Publish(context.Background(), interfaces.Event{
		Type:    interfaces.EventNotification,
		Payload: n,
	})
}

func joinLoc(loc []interface{}) string {
	parts := make([]string, 0, len(loc))
	for _, l := range loc {
		parts = append(parts, fmt.Sprintf("%v", l))
	}
	return strings.Join(parts, ".")
}

// progressReader reports fractional progress [0,100] as the request body
// is consumed by the transport.
type progressReader struct {
	r     *bytes.Reader
	total int64
	read  int64
	fn    interfaces.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		percent := float64(p.read) / float64(p.total) * 100
		if percent > 100 {
			percent = 100
		}
		p.fn(percent)
	}
	return n, err
}
