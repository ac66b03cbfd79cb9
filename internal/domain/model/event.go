package model

// EventKind identifies a countable activity event.
type EventKind string

// Event kinds emitted by the detection engine.
const (
	EventWave      EventKind = "wave"
	EventHandshake EventKind = "handshake"
	EventDance     EventKind = "dance"
	EventAnomaly   EventKind = "anomaly"
)

// Fired tells the rendering layer which events fired on a frame.
type Fired struct {
	Wave      bool `json:"wave"`
	Handshake bool `json:"handshake"`
	Dance     bool `json:"dance"`
}

// Any reports whether at least one gesture event fired.
func (f Fired) Any() bool {
	return f.Wave || f.Handshake || f.Dance
}

// Kinds lists the fired gesture kinds in a stable order.
func (f Fired) Kinds() []EventKind {
	var out []EventKind
	if f.Wave {
		out = append(out, EventWave)
	}
	if f.Handshake {
		out = append(out, EventHandshake)
	}
	if f.Dance {
		out = append(out, EventDance)
	}
	return out
}
