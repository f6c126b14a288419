package main

import (
	"log"

	"github.com/joho/godotenv"

	"ocrclip/cmd"
	"ocrclip/internal/config"
	"ocrclip/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load settings
	settings, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		settings = config.DefaultSettings()
	}

	// Initialize logger; fall back to stdout if the log file cannot be opened
	if err := logger.Setup(settings.GetLoggerConfig()); err != nil {
		fallback := logger.DefaultConfig()
		fallback.Output = "stdout"
		if err := logger.Setup(fallback); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		logger.Error(err, "Could not initialize file logger, logging to stdout")
	}
	defer logger.Close()

	logger.Debug("Starting ocrclip")

	cmd.Execute(settings)

	logger.Info("ocrclip shutdown")
}
