// Package cooldown tracks per-event countdowns that suppress re-firing.
package cooldown

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithReload sets the number of frames kind stays suppressed after firing.
// Negative values are ignored.
func WithReload(kind Kind, frames int) Option {
	return func(r *Registry) {
		if frames >= 0 {
			r.reload[kind] = frames
		}
	}
}

// WithLinked makes triggering kind also reload each of the linked kinds,
// replacing any previous links for kind.
func WithLinked(kind Kind, linked ...Kind) Option {
	return func(r *Registry) {
		r.linked[kind] = append([]Kind(nil), linked...)
	}
}
