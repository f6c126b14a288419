package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ocrclip/internal/apperr"
	"ocrclip/internal/clipboard"
	"ocrclip/internal/logger"
	"ocrclip/internal/ocr"
)

// OCROutput represents the JSON output structure when --json flag is used
type OCROutput struct {
	Text               string                     `json:"text"`
	Extra              map[string]json.RawMessage `json:"extra,omitempty"`
	FileName           string                     `json:"file_name"`
	FileSize           int64                      `json:"file_size"`
	URL                string                     `json:"url"`
	ProcessedAt        string                     `json:"processed_at"`
	ProcessingDuration string                     `json:"processing_duration"`
}

// copyTarget is the clipboard used by --copy.
var copyTarget = clipboard.System

func recognizeOnce(ctx context.Context, cmd *cobra.Command, service *ocr.Service, imagePath, apiURL string, opts *options) error {
	log := logger.WithComponent("recognize")

	log.Info().
		Str("file", imagePath).
		Str("url", apiURL).
		Bool("json", opts.json).
		Bool("copy", opts.copy).
		Msg("Starting OCR processing")

	result, err := service.RecognizeWithMetadata(ctx, imagePath, apiURL)
	if err != nil {
		return handleOCRError(err, apiURL, log)
	}

	log.Info().
		Int("text_length", len(result.Text)).
		Dur("duration", result.ProcessingDuration).
		Msg("OCR processing completed successfully")

	if opts.copy {
		if err := clipboard.Copy(copyTarget(), result.Text); err != nil {
			log.Error().Err(err).Msg("Failed to copy result")
			return err
		}
		log.Info().Msg("Result copied to clipboard")
	}

	out := cmd.OutOrStdout()
	if !opts.json {
		_, err := fmt.Fprintln(out, result.Text)
		return err
	}

	data, err := json.MarshalIndent(OCROutput{
		Text:               result.Text,
		Extra:              result.Extra,
		FileName:           filepath.Base(imagePath),
		FileSize:           result.ImageSize,
		URL:                apiURL,
		ProcessedAt:        result.ProcessedAt.Format(time.RFC3339),
		ProcessingDuration: result.ProcessingDuration.String(),
	}, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON output")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// handleOCRError provides user-friendly error messages for OCR failures
func handleOCRError(err error, apiURL string, log zerolog.Logger) error {
	log.Error().Err(err).Msg("OCR processing failed")

	var netErr interface{ Timeout() bool }
	timedOut := errors.As(err, &netErr) && netErr.Timeout()

	switch {
	case timedOut || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR request timed out. Try increasing --timeout: %w", err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("OCR processing was canceled")
	case errors.Is(err, ocr.ErrEmptyResult):
		return fmt.Errorf("the OCR service found no text in the image: %w", err)
	case errors.Is(err, apperr.ErrHTTP):
		return fmt.Errorf("cannot reach the OCR service at %s. Is it running?\n\nOriginal error: %w", apiURL, err)
	case errors.Is(err, apperr.ErrIO):
		return fmt.Errorf("cannot read the image file: %w", err)
	case errors.Is(err, apperr.ErrJSON):
		return fmt.Errorf("the OCR service sent an unexpected response. Check that %s is an OCR endpoint: %w", apiURL, err)
	default:
		return err
	}
}
