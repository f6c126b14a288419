// Package apperr defines the error taxonomy shared by every ocrclip component.
//
// Each failure carries a Kind from a closed set plus a human-readable message.
// Components return *Error values; the UI turns them into status text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Generic is the catch-all kind, e.g. logger initialization failures.
	Generic Kind = iota
	// IO covers file open/read/write failures.
	IO
	// HTTP covers transport failures: connection refused, timeout, DNS.
	HTTP
	// JSON covers response bodies that are not valid JSON or do not fit the expected shape.
	JSON
	// Base64 covers invalid base64 input.
	Base64
	// Config covers configuration encoding and resolution failures.
	Config
	// OcrAPI covers failures reported by, or inferred from, the OCR service.
	OcrAPI
	// ImageProcessing covers image decode failures during preview.
	ImageProcessing
	// Clipboard covers host clipboard failures.
	Clipboard
)

var kindLabels = map[Kind]string{
	Generic:         "error",
	IO:              "IO error",
	HTTP:            "HTTP request error",
	JSON:            "JSON parse error",
	Base64:          "base64 error",
	Config:          "config error",
	OcrAPI:          "OCR API error",
	ImageProcessing: "image processing error",
	Clipboard:       "clipboard error",
}

// String returns the human-readable label of the kind.
func (k Kind) String() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kind sentinels for use with errors.Is. A sentinel matches any *Error of its kind.
var (
	ErrGeneric         = &Error{Kind: Generic}
	ErrIO              = &Error{Kind: IO}
	ErrHTTP            = &Error{Kind: HTTP}
	ErrJSON            = &Error{Kind: JSON}
	ErrBase64          = &Error{Kind: Base64}
	ErrConfig          = &Error{Kind: Config}
	ErrOcrAPI          = &Error{Kind: OcrAPI}
	ErrImageProcessing = &Error{Kind: ImageProcessing}
	ErrClipboard       = &Error{Kind: Clipboard}
)

// Error is a classified failure.
type Error struct {
	// Kind is the failure class.
	Kind Kind

	// Op is the operation that failed (e.g., "EncodeFile", "Save"). Used for logging.
	Op string

	// Message is the human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target without a
// message matches every error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// New creates an *Error without an underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap classifies err. An error that already is an *Error is returned unchanged.
func Wrap(kind Kind, op string, err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return Generic, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
