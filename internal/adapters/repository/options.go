package repository

import "time"

// Option applies a configuration option to the TimelineStore.
type Option func(*TimelineStore)

// WithCapacity sets how many annotations are retained. Older ones are
// evicted first.
func WithCapacity(n int) Option {
	return func(s *TimelineStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock overrides the time source used to stamp annotations.
func WithClock(now func() time.Time) Option {
	return func(s *TimelineStore) {
		if now != nil {
			s.now = now
		}
	}
}
