package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ocrclip/internal/clipboard"
	"ocrclip/internal/config"
	"ocrclip/internal/logger"
	"ocrclip/internal/ocr"
	"ocrclip/internal/ui"
)

var version = "1.0.0"

// options holds the parsed command-line flags.
type options struct {
	file    string
	url     string
	save    bool
	timeout time.Duration
	print   bool
	json    bool
	copy    bool
}

func newRootCmd(settings *config.Settings) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ocrclip",
		Short: "Recognize text in images with a local OCR service",
		Long: `ocrclip sends an image to a locally running OCR HTTP service, shows the
recognized text and copies it to the clipboard.

Without --print an interactive session starts; type "help" for its commands.
Flags override the values stored in the config file; --save writes the
effective values back.

Environment variables:
  OCRCLIP_CONFIG - config file path (default ~/.ocrclip/ocrclip.toml)
  OCR_TIMEOUT    - per-request timeout, e.g. 30s (default 60s)
  LOG_LEVEL      - trace, debug, info, warn, error (default info)
  LOG_OUTPUT     - log file path, stdout or stderr (default ~/.ocrclip/ocrclip.log)`,
		Example: `  # Interactive session with a preselected image
  ocrclip -f screenshot.png

  # Recognize once and print the text
  ocrclip -f screenshot.png --print

  # Use another endpoint and remember it
  ocrclip -u http://192.168.1.20:1224/api/ocr --save

  # Print metadata as JSON and copy the text
  ocrclip -f scan.jpg --print --json --copy`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = settings.OCRTimeout
			}
			return run(cmd, settings, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Image file path")
	cmd.Flags().StringVarP(&opts.url, "url", "u", "", fmt.Sprintf("OCR API URL (default %s)", config.DefaultURL))
	cmd.Flags().BoolVarP(&opts.save, "save", "s", false, "Save the effective file and URL to the config file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", config.DefaultOCRTimeout, "Timeout for one OCR request")
	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "Recognize --file once and print the text instead of starting a session")
	cmd.Flags().BoolVar(&opts.json, "json", false, "With --print: output the result with metadata as JSON")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "With --print: also copy the text to the clipboard")

	return cmd
}

func run(cmd *cobra.Command, settings *config.Settings, opts *options) error {
	if opts.print && opts.json {
		logger.MuteMirror()
	}
	log := logger.WithComponent("root")

	store := config.NewStore(settings.ConfigPath, logger.WithComponent("config"))
	cfg := store.Load()

	if opts.save {
		cfg.UpdateWithArgs(opts.file, opts.url)
		if err := store.Save(cfg); err != nil {
			log.Error().Err(err).Str("path", store.Path()).Msg("Failed to save config")
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "config saved to %s\n", store.Path())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ocrLog := logger.WithComponent("ocr")
	client := ocr.NewClient(ocr.WithTimeout(opts.timeout), ocr.WithLogger(ocrLog))
	service := ocr.NewService(client, ocrLog)

	if opts.print {
		imagePath, apiURL, err := cfg.MergeWithArgs(opts.file, opts.url)
		if err != nil {
			return err
		}
		return recognizeOnce(ctx, cmd, service, imagePath, apiURL, opts)
	}

	imagePath := opts.file
	if imagePath == "" {
		imagePath = cfg.File
	}
	apiURL := cfg.ResolveURL(opts.url)

	log.Info().
		Str("file", imagePath).
		Str("url", apiURL).
		Dur("timeout", opts.timeout).
		Msg("Starting interactive session")

	app := ui.New(service, clipboard.System(), logger.WithComponent("ui"), ui.Options{
		ImagePath: imagePath,
		APIURL:    apiURL,
		Out:       cmd.OutOrStdout(),
	})
	return app.Run(ctx, cmd.InOrStdin())
}

// Execute runs the root command with settings loaded by main.
func Execute(settings *config.Settings) {
	log := logger.WithComponent("cmd")

	if err := newRootCmd(settings).ExecuteContext(context.Background()); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
