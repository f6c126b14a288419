package ocr

import (
	"ocrclip/internal/apperr"
)

// Common OCR pipeline errors
var (
	// ErrEmptyResult is returned when the API answers successfully but without
	// any text. A missing result is a failure, not an empty string.
	ErrEmptyResult = apperr.New(apperr.OcrAPI, "Recognize", "OCR API returned an empty result")

	// ErrEmptyURL is returned when no API endpoint was supplied.
	ErrEmptyURL = apperr.New(apperr.Config, "Call", "OCR API URL is empty")
)
