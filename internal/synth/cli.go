package synth

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/gestus/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "gen_frames_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission) //nolint:gosec // path is operator supplied
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return err
		}
	}

	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the frame generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Gestus Frame Generator
======================

Writes a synthetic perception stream (JSON Lines) for the gestus analyzer.

Usage:
  go run ./cmd/gen-frames [options]

Options:
  -frames int
        Number of frames to generate (default 600)
  -scenario string
        One of idle, wave, handshake, dance, anomaly, mixed (default "mixed")
  -seed uint
        Seed for the pose jitter (default 1)
  -width int
        Frame width in pixels (default 640)
  -height int
        Frame height in pixels (default 480)
  -output string
        Output file (default: frames_TIMESTAMP_ID.jsonl)
  -log string
        Log file for tool output (default: gen_frames_TIMESTAMP.log)
  -verify
        Analyze the generated stream and check the expected events fire
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Mixed stream with default settings
  go run ./cmd/gen-frames

  # A dancing clip, checked against the analyzer
  go run ./cmd/gen-frames -scenario dance -frames 300 -verify

  # Feed the result to the analyzer
  go run ./cmd/gen-frames -output clip.jsonl && go run ./cmd -input clip.jsonl
`)
}
