package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ocrclip/internal/apperr"
)

// DefaultTimeout bounds one recognition call when no other timeout is configured.
const DefaultTimeout = 60 * time.Second

// maxErrorBody limits how much of a failed response body is logged.
const maxErrorBody = 512

// Client talks to an OCR HTTP service.
type Client struct {
	httpc *http.Client
	log   zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the total time allowed for one call, including reading the body.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpc.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient returns a client with DefaultTimeout. Later options override earlier ones.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpc: &http.Client{Timeout: DefaultTimeout},
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call posts an encoded image to url and decodes the answer. It makes exactly
// one attempt.
//
// # Errors
//
//   - HTTP kind when the request cannot be sent or the body cannot be read
//   - OcrAPI kind when the service answers with a non-2xx status
//   - JSON kind when the body is not a JSON object with a string or null "data"
func (c *Client) Call(ctx context.Context, b64, url string) (*Response, error) {
	const op = "Call"

	if url == "" {
		return nil, ErrEmptyURL
	}

	payload, err := json.Marshal(NewRequest(b64))
	if err != nil {
		return nil, apperr.Wrap(apperr.JSON, op, err, "cannot encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.HTTP, op, err, "cannot build request")
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().
		Str("url", url).
		Int("payload_bytes", len(payload)).
		Msg("Sending OCR request")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.HTTP, op, err, "OCR request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("body", string(snippet)).
			Msg("OCR API returned an error status")
		return nil, apperr.New(apperr.OcrAPI, op, statusMessage(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.HTTP, op, err, "cannot read OCR response")
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperr.Wrap(apperr.JSON, op, err, "cannot parse OCR response")
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Bool("has_data", out.Data != nil).
		Int("extra_fields", len(out.Extra)).
		Msg("OCR response decoded")

	return &out, nil
}

func statusMessage(code int) string {
	reason := http.StatusText(code)
	if reason == "" {
		reason = "unknown status"
	}
	return fmt.Sprintf("request failed with HTTP status %d (%s)", code, reason)
}
