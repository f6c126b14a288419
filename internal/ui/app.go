// Package ui is the interactive front end of ocrclip.
//
// A single event loop goroutine owns all UI state. Recognition runs on one
// worker goroutine per request; the worker gets the image path and API URL by
// value and reports back over a channel, so it never touches UI state. The
// loop applies a result only while it is still running.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"ocrclip/internal/clipboard"
	"ocrclip/internal/ocr"
	"ocrclip/internal/preview"
)

// DefaultPreviewWidth is the width of the ASCII preview in characters.
const DefaultPreviewWidth = 48

// State is everything the user sees.
type State struct {
	ImagePath  string
	APIURL     string
	Preview    *preview.Image
	Result     string
	Status     string
	Processing bool
}

// Options configures an App.
type Options struct {
	// ImagePath preselects an image, e.g. from --file.
	ImagePath string

	// APIURL is the OCR endpoint.
	APIURL string

	// Out receives everything the UI renders. Defaults to os.Stdout.
	Out io.Writer

	// PreviewWidth is the ASCII preview width; 0 selects DefaultPreviewWidth,
	// a negative value disables the preview.
	PreviewWidth int
}

type result struct {
	text string
	err  error
}

// App is the terminal UI.
type App struct {
	recognizer ocr.Recognizer
	clipboard  clipboard.Clipboard
	log        zerolog.Logger
	out        io.Writer
	width      int

	state   State
	results chan result
}

// New creates an App. The preselected image, if any, is loaded right away.
func New(recognizer ocr.Recognizer, cb clipboard.Clipboard, log zerolog.Logger, opts Options) *App {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	width := opts.PreviewWidth
	if width == 0 {
		width = DefaultPreviewWidth
	}

	a := &App{
		recognizer: recognizer,
		clipboard:  cb,
		log:        log,
		out:        out,
		width:      width,
		state:      State{APIURL: opts.APIURL, Status: "ready"},
		// One slot: at most one worker is in flight, and it must be able to
		// finish even after the loop has stopped.
		results: make(chan result, 1),
	}
	if opts.ImagePath != "" {
		a.selectImage(opts.ImagePath)
	}
	return a
}

// State returns a copy of the current UI state. Call it only from the
// goroutine running Run, or after Run has returned.
func (a *App) State() State {
	return a.state
}

// Run reads commands from in until "quit", end of input, or ctx is done.
// At end of input a pending OCR result is still applied before returning;
// "quit" and cancellation drop it.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.abandon()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			a.log.Warn().Err(err).Msg("Input closed with error")
		}
	}()

	a.println("ocrclip: type \"help\" for commands")
	a.renderStatus()

	input := lines
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-input:
			if !ok {
				if !a.state.Processing {
					return nil
				}
				input = nil
				continue
			}
			if quit := a.handle(ctx, line); quit {
				return nil
			}
		case res := <-a.results:
			a.apply(res)
			if input == nil {
				return nil
			}
		}
	}
}

// handle executes one command line. It reports whether the UI should stop.
func (a *App) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false
	case "open", "o":
		if arg == "" {
			a.setStatus("error: usage: open <image path>")
			return false
		}
		if !preview.Supported(arg) {
			a.setStatus(fmt.Sprintf("error: unsupported image type, want one of %s", strings.Join(preview.Extensions, " ")))
			return false
		}
		a.selectImage(arg)
	case "ocr", "r":
		a.performOCR(ctx)
	case "copy", "c":
		a.copyResult()
	case "url", "u":
		if arg != "" {
			a.state.APIURL = arg
			a.setStatus("API URL set to " + arg)
		} else {
			a.setStatus("API URL: " + a.state.APIURL)
		}
	case "show", "s":
		a.render()
	case "help", "h", "?":
		a.println(helpText)
	case "quit", "q", "exit":
		return true
	default:
		a.setStatus(fmt.Sprintf("error: unknown command %q, type \"help\"", cmd))
	}
	return false
}

func (a *App) selectImage(path string) {
	a.state.ImagePath = path
	a.state.Preview = nil
	a.setStatus("selected image: " + path)

	img, err := preview.Load(path)
	if err != nil {
		a.log.Error().Err(err).Str("file", path).Msg("Failed to load image preview")
		a.setStatus("error: " + err.Error())
		return
	}
	a.state.Preview = img
	a.renderPreview()
}

func (a *App) performOCR(ctx context.Context) {
	if a.state.Processing {
		a.setStatus("OCR already in progress")
		return
	}
	if a.state.ImagePath == "" {
		a.log.Error().Msg("OCR requested without an image")
		a.setStatus("error: select an image first")
		return
	}

	path, url := a.state.ImagePath, a.state.APIURL
	rec, results := a.recognizer, a.results
	a.state.Processing = true
	a.setStatus("processing image...")
	a.log.Info().Str("file", path).Str("url", url).Msg("Starting OCR")

	go func() {
		text, err := rec.Recognize(ctx, path, url)
		results <- result{text: text, err: err}
	}()
}

// abandon forgets an in-flight request. The worker keeps its own channel,
// so its result lands where no loop reads it.
func (a *App) abandon() {
	if !a.state.Processing {
		return
	}
	a.log.Info().Msg("Discarding pending OCR result")
	a.state.Processing = false
	a.state.Status = "ready"
	a.results = make(chan result, 1)
}

func (a *App) apply(res result) {
	a.state.Processing = false

	if res.err != nil {
		a.log.Error().Err(res.err).Msg("OCR failed")
		a.setStatus(res.err.Error())
		return
	}

	chars := utf8.RuneCountInString(res.text)
	a.log.Info().Int("chars", chars).Msg("OCR succeeded")
	a.state.Result = res.text
	a.renderResult()
	a.setStatus(fmt.Sprintf("OCR complete, %d characters recognized", chars))
}

func (a *App) copyResult() {
	err := clipboard.Copy(a.clipboard, a.state.Result)
	switch {
	case errors.Is(err, clipboard.ErrNothingToCopy):
		a.log.Warn().Msg("Nothing to copy")
		a.setStatus("error: nothing to copy")
	case err != nil:
		a.log.Error().Err(err).Msg("Copy to clipboard failed")
		a.setStatus(err.Error())
	default:
		a.log.Info().Int("chars", utf8.RuneCountInString(a.state.Result)).Msg("Result copied to clipboard")
		a.setStatus("result copied to clipboard")
	}
}

func (a *App) setStatus(msg string) {
	a.state.Status = msg
	a.renderStatus()
}
