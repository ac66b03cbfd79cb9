package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/gestus/pkg/logger"
)

// Environment variable names.
const (
	envPrefix     = "GESTUS_"
	envConfigFile = "GESTUS_CONFIG"
	maxThreshold  = 100
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GESTUS_CONFIG is set
//  3. env (prefix GESTUS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like GESTUS_WAVE_COOLDOWN -> wave_cooldown (flat keys).
	// List values are comma separated.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Slices merge element-wise on decode, so the watched emotions start
	// empty and fall back to the defaults only when nothing overrides them.
	cfg := *base
	cfg.AnomalyEmotions = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if len(cfg.AnomalyEmotions) == 0 {
		cfg.AnomalyEmotions = defaultAnomalyEmotions()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Keys whose env values are comma separated lists.
var listKeys = map[string]struct{}{ //nolint:gochecknoglobals // static lookup table
	"anomaly_emotions": {},
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first invalid field wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}

	positive := []struct {
		name  string
		value int
	}{
		{"queue_size", c.QueueSize},
		{"timeline_capacity", c.TimelineCapacity},
		{"motion_history_size", c.MotionHistorySize},
		{"dance_min_snapshots", c.DanceMinSnapshots},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value int
	}{
		{"progress_every", c.ProgressEvery},
		{"wave_cooldown", c.WaveCooldown},
		{"handshake_cooldown", c.HandshakeCooldown},
		{"dance_cooldown", c.DanceCooldown},
		{"dance_ignore_window", c.DanceIgnoreWindow},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.DanceMinSnapshots > c.MotionHistorySize {
		return fmt.Errorf("%w: dance_min_snapshots (%d) exceeds motion_history_size (%d)",
			ErrInvalidConfig, c.DanceMinSnapshots, c.MotionHistorySize)
	}
	if c.DanceMinRange <= 0 {
		return fmt.Errorf("%w: dance_min_range must be positive", ErrInvalidConfig)
	}
	if c.HandsProximity <= 0 {
		return fmt.Errorf("%w: hands_proximity must be positive", ErrInvalidConfig)
	}
	if c.UpperBodyMaxRatio <= 0 {
		return fmt.Errorf("%w: upper_body_max_ratio must be positive", ErrInvalidConfig)
	}
	if c.AnomalyThreshold <= 0 || c.AnomalyThreshold > maxThreshold {
		return fmt.Errorf("%w: anomaly_threshold must be within (0, 100], got %g", ErrInvalidConfig, c.AnomalyThreshold)
	}
	for _, e := range c.AnomalyEmotions {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("%w: anomaly_emotions contains an empty label", ErrInvalidConfig)
		}
	}
	return nil
}
