package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"ocrclip/internal/apperr"
)

// DefaultURL is the OCR endpoint used when neither a flag nor the config file names one.
const DefaultURL = "http://127.0.0.1:1224/api/ocr"

// Config is the persisted user preference record. An empty field means "not set".
type Config struct {
	File string `toml:"file,omitempty"`
	URL  string `toml:"url,omitempty"`
}

// Default returns the configuration used on first run.
func Default() *Config {
	return &Config{URL: DefaultURL}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".ocrclip", "ocrclip.toml")
}

// MergeWithArgs resolves the effective image path and API URL: an explicit
// override wins, then the stored value, then DefaultURL for the URL. An image
// path has no default.
func (c *Config) MergeWithArgs(file, url string) (string, string, error) {
	if file == "" {
		file = c.File
	}
	if file == "" {
		return "", "", apperr.New(apperr.Config, "MergeWithArgs", "image file path is required (use --file or set file in the config)")
	}

	return file, c.ResolveURL(url), nil
}

// ResolveURL applies the URL part of MergeWithArgs on its own.
func (c *Config) ResolveURL(url string) string {
	switch {
	case url != "":
		return url
	case c.URL != "":
		return c.URL
	default:
		return DefaultURL
	}
}

// UpdateWithArgs stores any non-empty override in c.
func (c *Config) UpdateWithArgs(file, url string) {
	if file != "" {
		c.File = file
	}
	if url != "" {
		c.URL = url
	}
}

// Store reads and writes a Config at a fixed path.
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore returns a store for path. An empty path selects DefaultPath.
func NewStore(path string, log zerolog.Logger) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path, log: log}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the config file. A missing or unreadable file yields Default();
// read and parse errors are logged, never returned.
func (s *Store) Load() *Config {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Str("path", s.path).Msg("No config file, using defaults")
		} else {
			s.log.Error().Err(err).Str("path", s.path).Msg("Failed to read config file")
		}
		return Default()
	}

	cfg := &Config{}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("Config file is not valid TOML, using defaults")
		return Default()
	}

	s.log.Debug().Str("path", s.path).Str("file", cfg.File).Str("url", cfg.URL).Msg("Config loaded")
	return cfg
}

// Save overwrites the config file with cfg, creating its directory if needed.
func (s *Store) Save(cfg *Config) error {
	const op = "Save"

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return apperr.Wrap(apperr.Config, op, err, "cannot encode config")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperr.Wrap(apperr.IO, op, err, "cannot create config directory")
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return apperr.Wrap(apperr.IO, op, err, "cannot write config file")
	}

	s.log.Info().Str("path", s.path).Msg("Config saved")
	return nil
}
