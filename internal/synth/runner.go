package synth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gestus/internal/adapters/perception"
	service "github.com/okian/gestus/internal/app"
	"github.com/okian/gestus/internal/domain/report"
	"github.com/okian/gestus/pkg/logger"
)

// Run generates the configured stream and, when asked, verifies it against
// the analyzer.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}

	if config.Frames <= 0 {
		return stats, fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, config.Frames)
	}
	if config.OutputFile == "" {
		config.OutputFile = DefaultOutputFile()
	}

	logger.Get().Info(ctx, "starting synthetic stream generation",
		logger.String("scenario", config.Scenario),
		logger.Int("frames", config.Frames),
		logger.Any("seed", config.Seed),
		logger.String("output", config.OutputFile),
		logger.Bool("verify", config.Verify))

	gen, err := NewGenerator(config)
	if err != nil {
		return stats, err
	}

	// Step 1: Write frames
	if err := writeStream(ctx, config, gen, stats); err != nil {
		return stats, fmt.Errorf("stream generation failed: %w", err)
	}

	// Step 2: Verify against the analyzer
	if config.Verify {
		if err := verifyStream(ctx, config, stats); err != nil {
			return stats, err
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "generation completed successfully")
	return stats, nil
}

// DefaultOutputFile returns a unique timestamped JSONL file name.
func DefaultOutputFile() string {
	timestamp := time.Now().Format("20060102_150405")
	return "frames_" + timestamp + "_" + uuid.NewString()[:8] + ".jsonl"
}

// writeStream writes every frame to the output file.
func writeStream(ctx context.Context, config *Config, gen *Generator, stats *Stats) error {
	// Ensure the directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if err := gen.Generate(ctx, perception.NewWriter(file), config.Frames, stats); err != nil {
		return err
	}

	logger.Get().Info(ctx, "frames saved to file",
		logger.String("filename", config.OutputFile),
		logger.Int("frames", stats.FramesGenerated))
	return nil
}

// verifyStream analyzes the written stream and checks every scenario that
// was generated produced its event.
func verifyStream(ctx context.Context, config *Config, stats *Stats) error {
	src, err := perception.Open(ctx, config.OutputFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	defer func() { _ = src.Close() }()

	svc := service.New(service.WithLogger(logger.Named("verify")), service.WithProgressEvery(0))
	summary, err := svc.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}

	return Verify(&summary, stats)
}

// Verify compares an analysis summary with what the generator produced.
func Verify(summary *report.Summary, stats *Stats) error {
	if summary.Frames != stats.FramesGenerated {
		return fmt.Errorf("%w: analyzed %d frames, generated %d", ErrVerification, summary.Frames, stats.FramesGenerated)
	}

	expect := []struct {
		scenario string
		count    int
	}{
		{ScenarioWave, summary.Waves},
		{ScenarioHandshake, summary.Handshakes},
		{ScenarioDance, summary.Dances},
		{ScenarioAnomaly, summary.AnomalyCount},
	}
	for _, e := range expect {
		generated := stats.ScenarioFrames[e.scenario] > 0
		if generated && e.count == 0 {
			return fmt.Errorf("%w: no %s detected", ErrVerification, e.scenario)
		}
		if !generated && e.count > 0 {
			return fmt.Errorf("%w: %d unexpected %s detections", ErrVerification, e.count, e.scenario)
		}
	}

	logger.Get().Info(context.Background(), "verification passed",
		logger.Int("waves", summary.Waves),
		logger.Int("handshakes", summary.Handshakes),
		logger.Int("dances", summary.Dances),
		logger.Int("anomalies", summary.AnomalyCount))
	return nil
}

// displayFinalStats logs the final generation statistics.
func displayFinalStats(stats *Stats) {
	var framesPerSecond float64
	if stats.Duration > 0 {
		framesPerSecond = float64(stats.FramesGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("framesGenerated", stats.FramesGenerated),
		logger.Any("scenarioFrames", stats.ScenarioFrames),
		logger.Duration("duration", stats.Duration),
		logger.Float64("framesPerSecond", framesPerSecond))
}
