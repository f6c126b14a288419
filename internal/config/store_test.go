package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"ocrclip/internal/apperr"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
	if cfg.URL != DefaultURL {
		t.Errorf("URL = %q, want %q", cfg.URL, DefaultURL)
	}
}

func TestDefaultPath(t *testing.T) {
	if !strings.HasSuffix(DefaultPath(), filepath.Join(".ocrclip", "ocrclip.toml")) {
		t.Errorf("DefaultPath() = %q", DefaultPath())
	}
}

func TestMergeWithArgs(t *testing.T) {
	stored := &Config{File: "default.png", URL: "http://default.com/api"}

	tests := []struct {
		name     string
		cfg      *Config
		file     string
		url      string
		wantFile string
		wantURL  string
	}{
		{"overrides win", stored, "cli.png", "http://cli.com/api", "cli.png", "http://cli.com/api"},
		{"overrides win over empty config", &Config{}, "a.png", "http://x", "a.png", "http://x"},
		{"stored values", stored, "", "", "default.png", "http://default.com/api"},
		{"mixed", stored, "cli2.png", "", "cli2.png", "http://default.com/api"},
		{"url falls back to default", &Config{File: "f.png"}, "", "", "f.png", DefaultURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, url, err := tt.cfg.MergeWithArgs(tt.file, tt.url)
			if err != nil {
				t.Fatalf("MergeWithArgs: %v", err)
			}
			if file != tt.wantFile || url != tt.wantURL {
				t.Errorf("got (%q, %q), want (%q, %q)", file, url, tt.wantFile, tt.wantURL)
			}
		})
	}
}

func TestMergeWithArgsMissingFile(t *testing.T) {
	cfg := &Config{URL: "http://test.com/api"}

	_, _, err := cfg.MergeWithArgs("", "")
	if err == nil {
		t.Fatal("expected an error without any file path")
	}
	if !apperr.IsKind(err, apperr.Config) {
		t.Errorf("kind = %v, want Config", err)
	}
	if !strings.Contains(err.Error(), "file path") {
		t.Errorf("message %q does not mention the file path", err)
	}
}

func TestUpdateWithArgs(t *testing.T) {
	cfg := Default()

	cfg.UpdateWithArgs("test.png", "")
	if cfg.File != "test.png" || cfg.URL != DefaultURL {
		t.Errorf("after file update: %+v", cfg)
	}

	cfg.UpdateWithArgs("", "http://test.com/api")
	if cfg.File != "test.png" || cfg.URL != "http://test.com/api" {
		t.Errorf("after url update: %+v", cfg)
	}

	other := Default()
	other.UpdateWithArgs("image.jpg", "http://example.com/api")
	if other.File != "image.jpg" || other.URL != "http://example.com/api" {
		t.Errorf("after full update: %+v", other)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ocrclip", "ocrclip.toml")
	store := NewStore(path, zerolog.Nop())

	want := &Config{File: "test.png", URL: "http://test.com/api"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := store.Load()
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestSaveOmitsUnsetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocrclip.toml")
	store := NewStore(path, zerolog.Nop())

	if err := store.Save(Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "file") {
		t.Errorf("unset file was written: %q", data)
	}

	got := store.Load()
	if got.File != "" || got.URL != DefaultURL {
		t.Errorf("Load() = %+v", got)
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()

	missing := NewStore(filepath.Join(dir, "missing.toml"), zerolog.Nop())
	if got := missing.Load(); *got != *Default() {
		t.Errorf("missing file: Load() = %+v", got)
	}

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("file = [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := NewStore(broken, zerolog.Nop()).Load(); *got != *Default() {
		t.Errorf("broken file: Load() = %+v", got)
	}
}

func TestSaveWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(filepath.Join(blocker, "ocrclip.toml"), zerolog.Nop())
	err := store.Save(Default())
	if !apperr.IsKind(err, apperr.IO) {
		t.Errorf("Save into a file path: got %v, want IO kind", err)
	}
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("OCR_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OCRCLIP_CONFIG", "/tmp/custom.toml")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.OCRTimeout.Seconds() != 5 {
		t.Errorf("OCRTimeout = %s", s.OCRTimeout)
	}
	if s.ConfigPath != "/tmp/custom.toml" {
		t.Errorf("ConfigPath = %q", s.ConfigPath)
	}
	if lc := s.GetLoggerConfig(); lc.Level != "debug" {
		t.Errorf("logger level = %q", lc.Level)
	}
}

func TestSettingsRejectBadTimeout(t *testing.T) {
	t.Setenv("OCR_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected an error for an unparsable timeout")
	}

	t.Setenv("OCR_TIMEOUT", "-1s")
	if _, err := Load(); err == nil {
		t.Error("expected an error for a negative timeout")
	}
}
