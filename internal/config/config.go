// Package config defines analyzer configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the optional HTTP listen address, e.g. ":9080".
	// Empty disables the HTTP surface.
	Addr string `koanf:"addr"`

	// Input is the perception stream to analyze (JSON lines).
	Input string `koanf:"input"`

	// Output is the annotated output path; the report is written next to it.
	Output string `koanf:"output"`

	// JSONSummary additionally writes the summary as JSON when set.
	JSONSummary string `koanf:"json_summary"`

	// QueueSize bounds the in-memory frame queue between reader and worker.
	QueueSize int `koanf:"queue_size"`

	// TimelineCapacity bounds the annotation timeline kept for /timeline.
	TimelineCapacity int `koanf:"timeline_capacity"`

	// ProgressEvery logs progress every N frames; 0 disables it.
	ProgressEvery int `koanf:"progress_every"`

	// Cooldowns, in frames.
	WaveCooldown      int `koanf:"wave_cooldown"`
	HandshakeCooldown int `koanf:"handshake_cooldown"`
	DanceCooldown     int `koanf:"dance_cooldown"`
	DanceIgnoreWindow int `koanf:"dance_ignore_window"`

	// MotionHistorySize bounds the dance motion history.
	MotionHistorySize int `koanf:"motion_history_size"`

	// DanceMinSnapshots is the history length required before dance is judged.
	DanceMinSnapshots int `koanf:"dance_min_snapshots"`

	// DanceMinRange is the pooled vertical range, in normalized units, a
	// dance must exceed.
	DanceMinRange float64 `koanf:"dance_min_range"`

	// HandsProximity is the wrist distance below which hands are together.
	HandsProximity float64 `koanf:"hands_proximity"`

	// UpperBodyMaxRatio is the face/frame height ratio under which the
	// upper body counts as visible.
	UpperBodyMaxRatio float64 `koanf:"upper_body_max_ratio"`

	// AnomalyThreshold is the emotion score, in (0, 100], at or above which a
	// face is anomalous.
	AnomalyThreshold float64 `koanf:"anomaly_threshold"`

	// AnomalyEmotions lists the watched emotion labels in check order.
	AnomalyEmotions []string `koanf:"anomaly_emotions"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              "",
		Output:            "output.jsonl",
		QueueSize:         1024,
		TimelineCapacity:  4096,
		ProgressEvery:     500,
		WaveCooldown:      30,
		HandshakeCooldown: 30,
		DanceCooldown:     30,
		DanceIgnoreWindow: 20,
		MotionHistorySize: 30,
		DanceMinSnapshots: 10,
		DanceMinRange:     0.05,
		HandsProximity:    0.05,
		UpperBodyMaxRatio: 0.6,
		AnomalyThreshold:  60,
		AnomalyEmotions:   defaultAnomalyEmotions(),
	}
}

func defaultAnomalyEmotions() []string {
	return []string{"disgust", "fear", "surprise"}
}
