package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/gestus/internal/synth"
)

// Default configuration constants.
const (
	defaultTimeout = 5 * time.Minute
)

func main() {
	var (
		frames     = flag.Int("frames", synth.DefaultFrames, "Number of frames to generate")
		scenario   = flag.String("scenario", synth.ScenarioMixed, "Scenario: idle, wave, handshake, dance, anomaly or mixed")
		seed       = flag.Uint64("seed", synth.DefaultSeed, "Seed for the pose jitter")
		width      = flag.Int("width", synth.DefaultWidth, "Frame width in pixels")
		height     = flag.Int("height", synth.DefaultHeight, "Frame height in pixels")
		outputFile = flag.String("output", "", "Output file (default: frames_TIMESTAMP_ID.jsonl)")
		logFile    = flag.String("log", "", "Log file for tool output (default: gen_frames_TIMESTAMP.log)")
		verify     = flag.Bool("verify", false, "Analyze the generated stream and check the expected events fire")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		synth.ShowHelp()
		return
	}

	// Setup logging
	if err := synth.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	config := &synth.Config{
		Frames:     *frames,
		Scenario:   *scenario,
		Seed:       *seed,
		Width:      *width,
		Height:     *height,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verify:     *verify,
		Verbose:    *verbose,
	}

	if _, err := synth.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called explicitly above
	}
}
