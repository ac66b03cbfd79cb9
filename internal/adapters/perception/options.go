package perception

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithFrameSize sets the frame size used when a record omits it.
func WithFrameSize(width, height int) Option {
	return func(r *Reader) {
		if width > 0 && height > 0 {
			r.defaultWidth = width
			r.defaultHeight = height
		}
	}
}

// WithMaxLineSize sets the longest record line the reader accepts.
func WithMaxLineSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxLineSize = n
		}
	}
}
