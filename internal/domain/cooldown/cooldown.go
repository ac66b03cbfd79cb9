// Package cooldown tracks per-event countdowns that suppress re-firing.
package cooldown

import "github.com/okian/gestus/internal/domain/model"

// Kind names a countdown slot.
type Kind string

// Countdown kinds. DanceIgnore is not an event; it is the window after a
// wave during which dance detection is suppressed.
const (
	Wave        Kind = Kind(model.EventWave)
	Handshake   Kind = Kind(model.EventHandshake)
	Dance       Kind = Kind(model.EventDance)
	DanceIgnore Kind = "dance-ignore"
)

// Default reload values, in frames.
const (
	defaultEventReload       = 30
	defaultDanceIgnoreReload = 20
)

// Kinds lists every countdown slot in a stable order.
var Kinds = []Kind{Wave, Handshake, Dance, DanceIgnore}

// Registry holds one countdown per kind. Countdowns never go negative.
type Registry struct {
	reload    map[Kind]int
	linked    map[Kind][]Kind
	remaining map[Kind]int
}

// New creates a registry with all countdowns at zero.
func New(opts ...Option) *Registry {
	r := &Registry{
		reload: map[Kind]int{
			Wave:        defaultEventReload,
			Handshake:   defaultEventReload,
			Dance:       defaultEventReload,
			DanceIgnore: defaultDanceIgnoreReload,
		},
		linked: map[Kind][]Kind{
			Wave: {DanceIgnore},
		},
		remaining: make(map[Kind]int, len(Kinds)),
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	for _, k := range Kinds {
		r.remaining[k] = 0
	}
	return r
}

// Ready reports whether kind may fire.
func (r *Registry) Ready(kind Kind) bool {
	return r.remaining[kind] == 0
}

// Trigger reloads kind and every kind linked to it.
func (r *Registry) Trigger(kind Kind) {
	r.remaining[kind] = r.reload[kind]
	for _, l := range r.linked[kind] {
		r.remaining[l] = r.reload[l]
	}
}

// Tick decrements every non-zero countdown by one. Call once per frame,
// after all trigger decisions for that frame.
func (r *Registry) Tick() {
	for k, v := range r.remaining {
		if v > 0 {
			r.remaining[k] = v - 1
		}
	}
}

// Remaining returns the countdown for kind.
func (r *Registry) Remaining(kind Kind) int {
	return r.remaining[kind]
}

// Reload returns the configured reload value for kind.
func (r *Registry) Reload(kind Kind) int {
	return r.reload[kind]
}

// Snapshot returns a copy of all countdowns.
func (r *Registry) Snapshot() map[Kind]int {
	out := make(map[Kind]int, len(r.remaining))
	for k, v := range r.remaining {
		out[k] = v
	}
	return out
}
