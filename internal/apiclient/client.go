package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"launchpad/client-portal/client-portal-backend/internal/config"
)

// Client normalizes heterogeneous upstream responses into the envelope
// shape. A single attempt is made per call: no retry, no backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mocks      map[string]json.RawMessage
	logger     *zap.Logger
}

// RequestOptions controls a single request
type RequestOptions struct {
	Method string
	Body   any
	Header http.Header
}

// NewClient creates a new API client. A missing base URL is a configuration
// error raised here, before any network call.
func NewClient(cfg config.APIConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api client: missing base URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		mocks:      defaultMocks(),
		logger:     logger,
	}, nil
}

// RegisterMock installs a fallback payload for an exact endpoint path
func (c *Client) RegisterMock(endpoint string, data json.RawMessage) {
	c.mocks[endpoint] = data
}

// Request issues a single upstream call and returns the normalized
// envelope. Transport failures are never surfaced as errors: they fall back
// to the static mock table, or a NOT_FOUND envelope when no mock exists for
// the endpoint path.
func (c *Client) Request(ctx context.Context, endpoint string, opts *RequestOptions) *Envelope {
	method := http.MethodGet
	var bodyReader io.Reader
	var header http.Header

	if opts != nil {
		if opts.Method != "" {
			method = opts.Method
		}
		if opts.Body != nil {
			encoded, err := json.Marshal(opts.Body)
			if err != nil {
				return Err(ErrCodeAPIError, fmt.Sprintf("failed to encode request body: %v", err), nil)
			}
			bodyReader = bytes.NewReader(encoded)
		}
		header = opts.Header
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return Err(ErrCodeAPIError, fmt.Sprintf("invalid request: %v", err), nil)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Upstream request failed, using mock fallback",
			zap.String("endpoint", endpoint), zap.Error(err))
		return c.mockFallback(endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Err(ErrCodeNetworkError, fmt.Sprintf("failed to read response body: %v", err), nil)
	}

	return normalize(resp.StatusCode, body)
}

// mockFallback returns a successful envelope when a mock exists for the
// exact endpoint path, else a NOT_FOUND envelope.
func (c *Client) mockFallback(endpoint string) *Envelope {
	if data, ok := c.mocks[endpoint]; ok {
		return Ok(data)
	}
	return Err(ErrCodeNotFound, "Endpoint not found", nil)
}

// normalize converts a raw HTTP response into an envelope. Bodies already
// matching the envelope shape pass through unchanged.
func normalize(statusCode int, body []byte) *Envelope {
	if isEnvelope(body) {
		var env Envelope
		if err := json.Unmarshal(body, &env); err == nil {
			return &env
		}
	}

	if statusCode >= 200 && statusCode < 300 {
		return Ok(body)
	}

	message := http.StatusText(statusCode)
	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		message = errBody.Message
	}

	var details json.RawMessage
	if json.Valid(body) {
		details = body
	}

	return Err(ErrCodeAPIError, message, details)
}
