package perception

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/gestus/internal/domain/model"
)

// Default reader configuration constants.
const (
	defaultMaxLineSize = 1 << 20
	initialBufferSize  = 64 * 1024
)

// Source yields frames in stream order. Next returns io.EOF after the last
// frame.
type Source interface {
	Next(ctx context.Context) (model.Frame, error)
	Close() error
}

// Reader decodes a JSON Lines perception stream.
type Reader struct {
	br            *bufio.Reader
	buf           []byte
	closer        io.Closer
	line          int
	defaultWidth  int
	defaultHeight int
	maxLineSize   int
}

// Open opens the stream at path. Failure is reported as ErrStreamOpen.
func Open(ctx context.Context, path string, opts ...Option) (*Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStreamOpen, path, err)
	}
	f, err := os.Open(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreamOpen, err)
	}
	r := NewReader(f, opts...)
	r.closer = f
	return r, nil
}

// NewReader reads records from src. Close is a no-op unless the Reader
// was created by Open.
func NewReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{maxLineSize: defaultMaxLineSize}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	r.br = bufio.NewReaderSize(src, min(initialBufferSize, r.maxLineSize))
	return r
}

// Next returns the next frame. Blank lines are skipped. A line that does
// not decode, or is longer than the line limit, still yields a frame with a
// face failure and no pose, so the frame is counted.
func (r *Reader) Next(ctx context.Context) (model.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return model.Frame{}, err
		}
		line, tooLong, err := r.readLine()
		if errors.Is(err, io.EOF) {
			return model.Frame{}, io.EOF
		}
		if err != nil {
			return model.Frame{}, fmt.Errorf("%w: line %d: %w", ErrStreamRead, r.line+1, err)
		}
		r.line++

		if tooLong {
			return r.malformed(fmt.Errorf("record exceeds %d bytes", r.maxLineSize)), nil
		}

		raw := bytes.TrimSpace(line)
		if len(raw) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return r.malformed(err), nil
		}

		f := rec.Frame()
		if f.Width <= 0 || f.Height <= 0 {
			f.Width, f.Height = r.defaultWidth, r.defaultHeight
		}
		return f, nil
	}
}

// malformed is the frame for an unusable line.
func (r *Reader) malformed(cause error) model.Frame {
	f := model.Frame{Width: r.defaultWidth, Height: r.defaultHeight}
	f.Faces.Err = fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, r.line, cause)
	return f
}

// readLine returns the next line without its newline. A line longer than
// maxLineSize is consumed to its end and reported with tooLong set; its
// content is not returned. io.EOF is only returned when nothing was read.
func (r *Reader) readLine() (line []byte, tooLong bool, err error) {
	buf := r.buf[:0]
	n := 0
	for {
		chunk, rerr := r.br.ReadSlice('\n')
		n += len(chunk)
		if n <= r.maxLineSize+1 {
			buf = append(buf, chunk...)
		}

		switch {
		case errors.Is(rerr, bufio.ErrBufferFull):
			continue
		case errors.Is(rerr, io.EOF):
			if n == 0 {
				return nil, false, io.EOF
			}
		case rerr != nil:
			return nil, false, rerr
		}

		r.buf = buf
		if n > r.maxLineSize+1 || (n == r.maxLineSize+1 && buf[len(buf)-1] != '\n') {
			return nil, true, nil
		}
		return bytes.TrimSuffix(buf, []byte("\n")), false, nil
	}
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int { return r.line }

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
