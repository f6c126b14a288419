package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ocrclip/internal/logger"
)

// Settings holds process settings read from the environment (and .env).
type Settings struct {
	// ConfigPath is the TOML preference file location.
	ConfigPath string

	// OCRTimeout bounds a single OCR HTTP call.
	OCRTimeout time.Duration

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
	LogMirror     bool
}

// DefaultOCRTimeout is used when OCR_TIMEOUT is not set.
const DefaultOCRTimeout = 60 * time.Second

// DefaultSettings returns the settings used when the environment sets nothing.
func DefaultSettings() *Settings {
	return &Settings{
		ConfigPath:    DefaultPath(),
		OCRTimeout:    DefaultOCRTimeout,
		LogLevel:      "info",
		LogFormat:     "console",
		LogTimeFormat: logger.FileTimeFormat,
		LogOutput:     logger.LogPath(),
		LogMirror:     true,
	}
}

// Load reads Settings from the environment, falling back to DefaultSettings.
func Load() (*Settings, error) {
	d := DefaultSettings()
	settings := &Settings{
		ConfigPath:    getEnv("OCRCLIP_CONFIG", d.ConfigPath),
		LogLevel:      getEnv("LOG_LEVEL", d.LogLevel),
		LogFormat:     getEnv("LOG_FORMAT", d.LogFormat),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", d.LogTimeFormat),
		LogOutput:     getEnv("LOG_OUTPUT", d.LogOutput),
		LogMirror:     getEnv("LOG_MIRROR", "true") != "false",
		OCRTimeout:    d.OCRTimeout,
	}

	if raw := os.Getenv("OCR_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config validation failed: OCR_TIMEOUT: %w", err)
		}
		settings.OCRTimeout = d
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return settings, nil
}

func (s *Settings) validate() error {
	if s.OCRTimeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT must be positive, got %s", s.OCRTimeout)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if s.ConfigPath == "" {
		return fmt.Errorf("OCRCLIP_CONFIG must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the settings
func (s *Settings) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      s.LogLevel,
		Format:     s.LogFormat,
		TimeFormat: s.LogTimeFormat,
		Output:     s.LogOutput,
		Mirror:     s.LogMirror,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
