package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/gestus/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.WaveCooldown, convey.ShouldEqual, 30)
				convey.So(cfg.AnomalyEmotions, convey.ShouldResemble, []string{"disgust", "fear", "surprise"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GESTUS_ADDR", ":8080")
			_ = os.Setenv("GESTUS_QUEUE_SIZE", "64")
			_ = os.Setenv("GESTUS_WAVE_COOLDOWN", "15")
			_ = os.Setenv("GESTUS_HANDS_PROXIMITY", "0.08")
			_ = os.Setenv("GESTUS_INPUT", "clip.jsonl")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WaveCooldown, convey.ShouldEqual, 15)
				convey.So(cfg.HandsProximity, convey.ShouldEqual, 0.08)
				convey.So(cfg.Input, convey.ShouldEqual, "clip.jsonl")
				convey.So(cfg.HandshakeCooldown, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When the watched emotions are overridden with a shorter list", func() {
			_ = os.Setenv("GESTUS_ANOMALY_EMOTIONS", "angry,fear")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the list is replaced, not merged", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.AnomalyEmotions, convey.ShouldResemble, []string{"angry", "fear"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 256
dance_cooldown: 45
motion_history_size: 40
dance_min_snapshots: 12
anomaly_threshold: 75
anomaly_emotions:
  - fear
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GESTUS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 256)
				convey.So(cfg.DanceCooldown, convey.ShouldEqual, 45)
				convey.So(cfg.MotionHistorySize, convey.ShouldEqual, 40)
				convey.So(cfg.DanceMinSnapshots, convey.ShouldEqual, 12)
				convey.So(cfg.AnomalyThreshold, convey.ShouldEqual, 75)
				convey.So(cfg.AnomalyEmotions, convey.ShouldResemble, []string{"fear"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 256
wave_cooldown: 40
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GESTUS_CONFIG", tmpFile)
			_ = os.Setenv("GESTUS_ADDR", ":8080")
			_ = os.Setenv("GESTUS_WAVE_COOLDOWN", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")     // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 256)    // From file
				convey.So(cfg.WaveCooldown, convey.ShouldEqual, 10)  // Overridden by env
				convey.So(cfg.DanceCooldown, convey.ShouldEqual, 30) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GESTUS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("GESTUS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("GESTUS_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config that fails validation", func() {
			_ = os.Setenv("GESTUS_DANCE_MIN_SNAPSHOTS", "50")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "dance_min_snapshots")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"GESTUS_CONFIG",
		"GESTUS_ADDR",
		"GESTUS_INPUT",
		"GESTUS_QUEUE_SIZE",
		"GESTUS_WAVE_COOLDOWN",
		"GESTUS_HANDS_PROXIMITY",
		"GESTUS_ANOMALY_EMOTIONS",
		"GESTUS_DANCE_MIN_SNAPSHOTS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "gestus-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
