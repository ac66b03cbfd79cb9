package service

import (
	"github.com/okian/gestus/internal/config"
	"github.com/okian/gestus/internal/domain/anomaly"
	"github.com/okian/gestus/internal/domain/cooldown"
	"github.com/okian/gestus/internal/domain/engine"
	"github.com/okian/gestus/internal/domain/gesture"
	"github.com/okian/gestus/internal/domain/history"
)

// NewEngine builds a detection engine from configuration.
func NewEngine(cfg *config.Config) *engine.Engine {
	return engine.New(
		engine.WithClassifier(gesture.New(
			gesture.WithHandsProximity(cfg.HandsProximity),
			gesture.WithDanceMinSnapshots(cfg.DanceMinSnapshots),
			gesture.WithDanceMinRange(cfg.DanceMinRange),
		)),
		engine.WithAnomalyDetector(anomaly.New(
			anomaly.WithThreshold(cfg.AnomalyThreshold),
			anomaly.WithEmotions(cfg.AnomalyEmotions...),
		)),
		engine.WithUpperBodyMaxRatio(cfg.UpperBodyMaxRatio),
		engine.WithCooldownOptions(
			cooldown.WithReload(cooldown.Wave, cfg.WaveCooldown),
			cooldown.WithReload(cooldown.Handshake, cfg.HandshakeCooldown),
			cooldown.WithReload(cooldown.Dance, cfg.DanceCooldown),
			cooldown.WithReload(cooldown.DanceIgnore, cfg.DanceIgnoreWindow),
		),
		engine.WithHistoryOptions(history.WithCapacity(cfg.MotionHistorySize)),
	)
}
