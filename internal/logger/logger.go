package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ocrclip/internal/apperr"
)

// FileTimeFormat is the timestamp layout of log file lines.
const FileTimeFormat = "2006-01-02 15:04:05.000"

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // trace, debug, info, warn, error
	Format     string // console, json
	TimeFormat string // layout used for console timestamps
	Output     string // stdout, stderr, or file path
	Mirror     bool   // copy info and above to stdout when Output is a file
}

// DefaultConfig returns the per-user file logger mirrored to stdout.
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		Format:     "console",
		TimeFormat: FileTimeFormat,
		Output:     LogPath(),
		Mirror:     true,
	}
}

// LogPath returns the per-user log file location.
func LogPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".ocrclip", "ocrclip.log")
}

var (
	mu          sync.Mutex
	installed   bool
	activeClose io.Closer = nopCloser{}

	stdoutMirror = &mirrorWriter{out: os.Stdout}
)

// Setup installs the process-wide logger. Only the first successful call has
// an effect; later calls return nil and leave the installed logger in place.
func Setup(config LogConfig) error {
	mu.Lock()
	defer mu.Unlock()

	if installed {
		return nil
	}

	l, closer, err := newLogger(config, stdoutMirror)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(l.GetLevel())
	zerolog.TimeFieldFormat = time.RFC3339Nano

	log.Logger = l
	activeClose = closer
	installed = true
	return nil
}

// Close flushes and closes the log file opened by Setup.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return activeClose.Close()
}

// MuteMirror stops copying events of the process-wide logger to stdout.
// Commands whose stdout must stay machine readable call it before writing.
func MuteMirror() {
	stdoutMirror.set(io.Discard)
}

// New builds a logger instance without touching global state.
// The returned Closer releases the log file, if one was opened.
func New(config LogConfig) (zerolog.Logger, io.Closer, error) {
	return newLogger(config, os.Stdout)
}

func newLogger(config LogConfig, mirror io.Writer) (zerolog.Logger, io.Closer, error) {
	const op = "logger.New"

	level, err := parseLevel(config.Level)
	if err != nil {
		return zerolog.Nop(), nil, apperr.Wrap(apperr.Generic, op, err, "invalid log level")
	}

	var (
		output io.Writer
		closer io.Closer = nopCloser{}
		toFile bool
	)
	switch config.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(config.Output), 0o755); err != nil {
			return zerolog.Nop(), nil, apperr.Wrap(apperr.Generic, op, err, "cannot create log directory")
		}
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, apperr.Wrap(apperr.Generic, op, err, "cannot open log file")
		}
		output, closer, toFile = file, file, true
	}

	timeFormat := config.TimeFormat
	if timeFormat == "" {
		timeFormat = FileTimeFormat
	}

	switch strings.ToLower(config.Format) {
	case "json":
		// JSON format is the default for zerolog
	default:
		output = lineWriter(output, timeFormat)
	}

	// Each sink filters on its own level; the logger passes the lower of the two.
	writers := []io.Writer{&zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: output},
		Level:  level,
	}}
	minLevel := level
	if config.Mirror && toFile && mirror != nil {
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{Out: mirror, TimeFormat: time.Kitchen}},
			Level:  zerolog.InfoLevel,
		})
		if zerolog.InfoLevel < minLevel {
			minLevel = zerolog.InfoLevel
		}
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(minLevel).
		With().
		Timestamp().
		Logger()

	return l, closer, nil
}

// lineWriter renders events as "[timestamp] [LEVEL] message key=value...".
func lineWriter(out io.Writer, timeFormat string) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatTimestamp: func(i interface{}) string {
			s, ok := i.(string)
			if !ok {
				return "[]"
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return "[" + s + "]"
			}
			return "[" + t.Local().Format(timeFormat) + "]"
		},
		FormatLevel: func(i interface{}) string {
			s, _ := i.(string)
			return "[" + strings.ToUpper(s) + "]"
		},
	}
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(s))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// mirrorWriter is the stdout sink of the installed logger; it can be
// redirected after Setup.
type mirrorWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (m *mirrorWriter) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.out.Write(p)
}

func (m *mirrorWriter) set(w io.Writer) {
	m.mu.Lock()
	m.out = w
	m.mu.Unlock()
}

// WithComponent returns a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// Info logs an info message
func Info(msg string) {
	log.Info().Msg(msg)
}

// Debug logs a debug message
func Debug(msg string) {
	log.Debug().Msg(msg)
}

// Error logs an error message
func Error(err error, msg string) {
	log.Error().Err(err).Msg(msg)
}
