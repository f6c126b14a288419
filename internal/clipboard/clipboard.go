// Package clipboard copies recognized text to the host clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"

	"ocrclip/internal/apperr"
)

// ErrNothingToCopy is returned when there is no text to copy.
var ErrNothingToCopy = apperr.New(apperr.Clipboard, "Copy", "nothing to copy")

// errUnsupported is returned by the system clipboard when no backend
// (xclip, xsel, wl-copy, pbcopy, ...) is available.
var errUnsupported = errors.New("no clipboard utility available on this system")

// Clipboard is a text clipboard that can be written to.
type Clipboard interface {
	WriteText(s string) error
}

type system struct{}

// System returns the host clipboard.
func System() Clipboard {
	return system{}
}

func (system) WriteText(s string) error {
	if clipboard.Unsupported {
		return errUnsupported
	}
	return clipboard.WriteAll(s)
}

// Copy writes text to cb. Empty text yields ErrNothingToCopy; backend
// failures are returned as Clipboard-kind errors.
func Copy(cb Clipboard, text string) error {
	if text == "" {
		return ErrNothingToCopy
	}
	if err := cb.WriteText(text); err != nil {
		return apperr.Wrap(apperr.Clipboard, "Copy", err, "copy failed")
	}
	return nil
}

// Memory is an in-process clipboard, used when the host has none and in tests.
type Memory struct {
	Text string
	Err  error
}

// WriteText stores s unless Err is set.
func (m *Memory) WriteText(s string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Text = s
	return nil
}
