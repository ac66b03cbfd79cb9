// Package history provides bounded sliding windows over recent observations.
package history

type config struct {
	capacity int
}

// Option applies a configuration option to a Window.
type Option func(*config)

// WithCapacity sets the maximum number of items kept.
// Values <= 0 keep the default.
func WithCapacity(capacity int) Option {
	return func(c *config) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}
