// Package ocr turns an image file into text by way of an external OCR HTTP service.
//
// The pipeline is file -> base64 -> JSON POST -> JSON response. The service is
// expected to accept
//
//	{"base64": "<image>", "options": {"data.format": "text"}}
//
// and answer with an object carrying the recognized text in "data". Any other
// fields of the answer are preserved in Response.Extra but not interpreted.
//
// Implementation Details:
//   - Whole files are buffered; there is no size limit and no streaming
//   - One attempt per call, no retries
//   - Every call is bounded by the client timeout (DefaultTimeout unless configured)
package ocr

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Recognizer extracts text from an image file.
type Recognizer interface {
	// Recognize returns the text found in the image at imagePath, using the
	// OCR service at url.
	Recognize(ctx context.Context, imagePath, url string) (string, error)
}

// Service chains EncodeFile and Client.Call.
type Service struct {
	client *Client
	log    zerolog.Logger
}

// NewService creates a Service. A nil client selects NewClient().
func NewService(client *Client, log zerolog.Logger) *Service {
	if client == nil {
		client = NewClient(WithLogger(log))
	}
	return &Service{client: client, log: log}
}

// Recognize returns the recognized text. Errors from encoding and from the
// API call are returned unchanged; a response without data yields ErrEmptyResult.
func (s *Service) Recognize(ctx context.Context, imagePath, url string) (string, error) {
	result, err := s.RecognizeWithMetadata(ctx, imagePath, url)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// RecognizeWithMetadata is Recognize plus the extra response fields and timing.
func (s *Service) RecognizeWithMetadata(ctx context.Context, imagePath, url string) (*Result, error) {
	startTime := time.Now()

	b64, err := EncodeFile(imagePath)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("file", imagePath).
		Int("base64_len", len(b64)).
		Msg("Image encoded")

	resp, err := s.client.Call(ctx, b64, url)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrEmptyResult
	}

	processedAt := time.Now()
	return &Result{
		Text:               *resp.Data,
		Extra:              resp.Extra,
		ImageSize:          decodedSize(b64),
		ProcessedAt:        processedAt,
		ProcessingDuration: processedAt.Sub(startTime),
	}, nil
}

// decodedSize returns the byte length of the data encoded in b64.
func decodedSize(b64 string) int64 {
	padding := len(b64) - len(strings.TrimRight(b64, "="))
	return int64(len(b64)/4*3 - padding)
}
