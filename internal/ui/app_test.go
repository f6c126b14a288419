package ui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ocrclip/internal/apperr"
	"ocrclip/internal/clipboard"
)

// fakeRecognizer returns a fixed answer, optionally waiting on release first.
type fakeRecognizer struct {
	text    string
	err     error
	release chan struct{}
	calls   chan string
}

func (f *fakeRecognizer) Recognize(ctx context.Context, imagePath, url string) (string, error) {
	if f.calls != nil {
		f.calls <- imagePath + " " + url
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 8))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 2)
	}
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(rec *fakeRecognizer, cb clipboard.Clipboard, opts Options) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	opts.Out = &out
	if opts.APIURL == "" {
		opts.APIURL = "http://127.0.0.1:1224/api/ocr"
	}
	return New(rec, cb, zerolog.Nop(), opts), &out
}

func TestScriptedSession(t *testing.T) {
	path := writePNG(t)
	cb := &clipboard.Memory{}
	app, out := newTestApp(&fakeRecognizer{text: "héllo"}, cb, Options{})

	script := "open " + path + "\nocr\n"
	if err := app.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	state := app.State()
	if state.Result != "héllo" {
		t.Errorf("Result = %q", state.Result)
	}
	if state.Processing {
		t.Error("Processing still set after the result arrived")
	}
	if state.Status != "OCR complete, 5 characters recognized" {
		t.Errorf("Status = %q", state.Status)
	}
	if state.Preview == nil || state.Preview.Width != 16 {
		t.Errorf("Preview = %+v", state.Preview)
	}
	if !strings.Contains(out.String(), "----- result -----\nhéllo\n") {
		t.Errorf("result not rendered:\n%s", out.String())
	}

	// Copy in a second session over the same state.
	if err := app.Run(context.Background(), strings.NewReader("copy\n")); err != nil {
		t.Fatal(err)
	}
	if cb.Text != "héllo" {
		t.Errorf("clipboard = %q", cb.Text)
	}
	if app.State().Status != "result copied to clipboard" {
		t.Errorf("Status = %q", app.State().Status)
	}
}

func TestPreselectedImage(t *testing.T) {
	path := writePNG(t)
	app, _ := newTestApp(&fakeRecognizer{}, &clipboard.Memory{}, Options{ImagePath: path, PreviewWidth: -1})

	state := app.State()
	if state.ImagePath != path || state.Preview == nil {
		t.Errorf("preselection not applied: %+v", state)
	}
}

func TestOCRWithoutImage(t *testing.T) {
	calls := make(chan string, 1)
	app, _ := newTestApp(&fakeRecognizer{calls: calls}, &clipboard.Memory{}, Options{})

	app.handle(context.Background(), "ocr")

	if app.State().Status != "error: select an image first" {
		t.Errorf("Status = %q", app.State().Status)
	}
	if app.State().Processing {
		t.Error("Processing set without an image")
	}
	select {
	case <-calls:
		t.Error("recognizer called without an image")
	default:
	}
}

func TestSecondOCRWhileProcessing(t *testing.T) {
	rec := &fakeRecognizer{text: "done", release: make(chan struct{}), calls: make(chan string, 2)}
	app, _ := newTestApp(rec, &clipboard.Memory{}, Options{ImagePath: writePNG(t), APIURL: "http://ocr.test"})
	ctx := context.Background()

	app.handle(ctx, "ocr")
	if !app.State().Processing {
		t.Fatal("Processing not set")
	}
	<-rec.calls

	app.handle(ctx, "ocr")
	if app.State().Status != "OCR already in progress" {
		t.Errorf("Status = %q", app.State().Status)
	}

	close(rec.release)
	app.apply(<-app.results)

	if app.State().Result != "done" || app.State().Processing {
		t.Errorf("state after result: %+v", app.State())
	}
	select {
	case c := <-rec.calls:
		t.Errorf("second request reached the recognizer: %s", c)
	default:
	}
}

func TestWorkerGetsPathAndURL(t *testing.T) {
	path := writePNG(t)
	rec := &fakeRecognizer{text: "x", calls: make(chan string, 1)}
	app, _ := newTestApp(rec, &clipboard.Memory{}, Options{ImagePath: path})

	app.handle(context.Background(), "url http://other:9000/api/ocr")
	app.handle(context.Background(), "ocr")

	if got := <-rec.calls; got != path+" http://other:9000/api/ocr" {
		t.Errorf("worker received %q", got)
	}
	app.apply(<-app.results)
}

func TestOCRFailureKeepsUIUsable(t *testing.T) {
	failure := apperr.New(apperr.OcrAPI, "Call", "request failed with HTTP status 500 (Internal Server Error)")
	app, _ := newTestApp(&fakeRecognizer{err: failure}, &clipboard.Memory{}, Options{ImagePath: writePNG(t)})

	if err := app.Run(context.Background(), strings.NewReader("ocr\n")); err != nil {
		t.Fatal(err)
	}
	state := app.State()
	if !strings.Contains(state.Status, "500") {
		t.Errorf("Status = %q", state.Status)
	}
	if state.Processing || state.Result != "" {
		t.Errorf("state after failure: %+v", state)
	}

	app.handle(context.Background(), "show")
	if state := app.State(); state.Processing {
		t.Error("UI stuck in processing")
	}
}

func TestCopyBeforeOCR(t *testing.T) {
	cb := &clipboard.Memory{Text: "untouched"}
	app, _ := newTestApp(&fakeRecognizer{}, cb, Options{})

	app.handle(context.Background(), "copy")

	if app.State().Status != "error: nothing to copy" {
		t.Errorf("Status = %q", app.State().Status)
	}
	if cb.Text != "untouched" {
		t.Error("clipboard modified")
	}
}

func TestCopyDenied(t *testing.T) {
	cb := &clipboard.Memory{Err: errors.New("access denied")}
	app, _ := newTestApp(&fakeRecognizer{}, cb, Options{})
	app.state.Result = "text"

	app.handle(context.Background(), "copy")

	if !strings.Contains(app.State().Status, "access denied") {
		t.Errorf("Status = %q", app.State().Status)
	}
}

func TestQuitDropsPendingResult(t *testing.T) {
	rec := &fakeRecognizer{text: "late", release: make(chan struct{})}
	app, _ := newTestApp(rec, &clipboard.Memory{}, Options{ImagePath: writePNG(t)})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background(), strings.NewReader("ocr\nquit\n")) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	if app.State().Processing {
		t.Error("Processing still set after quit")
	}
	close(rec.release)
	if app.State().Result != "" {
		t.Errorf("result applied after quit: %q", app.State().Result)
	}

	// A later session starts clean and only sees its own result.
	app.recognizer = &fakeRecognizer{text: "fresh"}
	if err := app.Run(context.Background(), strings.NewReader("ocr\n")); err != nil {
		t.Fatal(err)
	}
	state := app.State()
	if state.Result != "fresh" {
		t.Errorf("second session result = %q, want %q", state.Result, "fresh")
	}
	if state.Status != "OCR complete, 5 characters recognized" {
		t.Errorf("second session status = %q", state.Status)
	}
}

func TestOpenRejectsUnsupportedType(t *testing.T) {
	app, _ := newTestApp(&fakeRecognizer{}, &clipboard.Memory{}, Options{})

	app.handle(context.Background(), "open notes.pdf")

	if app.State().ImagePath != "" {
		t.Error("unsupported file selected")
	}
	if !strings.HasPrefix(app.State().Status, "error: unsupported image type") {
		t.Errorf("Status = %q", app.State().Status)
	}
}

func TestOpenUndecodableImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	app, _ := newTestApp(&fakeRecognizer{}, &clipboard.Memory{}, Options{})

	app.handle(context.Background(), "open "+path)

	state := app.State()
	if state.ImagePath != path {
		t.Error("path must stay selected even without a preview")
	}
	if state.Preview != nil || !strings.HasPrefix(state.Status, "error: ") {
		t.Errorf("state = %+v", state)
	}
}

func TestUnknownCommand(t *testing.T) {
	app, _ := newTestApp(&fakeRecognizer{}, &clipboard.Memory{}, Options{})
	if quit := app.handle(context.Background(), "frobnicate"); quit {
		t.Error("unknown command quit the UI")
	}
	if !strings.Contains(app.State().Status, "unknown command") {
		t.Errorf("Status = %q", app.State().Status)
	}
}
