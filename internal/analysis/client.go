package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// analysisRequest is the JSON body sent upstream. The credential travels only
// in the authorization header, never in the body.
type analysisRequest struct {
	Model          string `json:"model"`
	Image          string `json:"image"`
	MediaType      string `json:"media_type"`
	MaxNotesLength int    `json:"max_notes_length,omitempty"`
}

// Client wraps low-level HTTP communication with the vision analysis API.
// It performs no retries; retry policy belongs to the caller.
type Client struct {
	logger *zap.Logger
	http   *http.Client
	cfg    ClientConfig
}

// NewClient constructs a vision API client. A nil httpClient gets a default
// with the configured timeout.
func NewClient(logger *zap.Logger, httpClient *http.Client, cfg ClientConfig) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		logger: logger,
		http:   httpClient,
		cfg:    cfg,
	}
}

// Endpoint returns the configured upstream URL for allow-list checks.
func (c *Client) Endpoint() string {
	return c.cfg.Endpoint
}

// Analyze POSTs the image and returns the raw response body of a 2xx reply.
// Non-2xx statuses map to UnexpectedStatusError; network failures, timeouts
// included, map to TransportError.
func (c *Client) Analyze(ctx context.Context, apiKey string, image []byte, mediaType string) ([]byte, error) {
	payload := analysisRequest{
		Model:          c.cfg.Model,
		Image:          base64.StdEncoding.EncodeToString(image),
		MediaType:      mediaType,
		MaxNotesLength: 500,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	setHeaders(req, apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("analysis.upstream_rejected",
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", elapsed))
		return nil, &UnexpectedStatusError{Code: resp.StatusCode}
	}

	c.logger.Debug("analysis.upstream_success",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", elapsed))
	return body, nil
}

// setHeaders sets the required headers for analysis API requests.
func setHeaders(req *http.Request, apiKey string) {
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
