package perception

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/gestus/internal/domain/model"
)

// Writer encodes frames as a JSON Lines perception stream.
type Writer struct {
	enc   *json.Encoder
	count int
}

// NewWriter writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write appends one frame.
func (w *Writer) Write(f model.Frame) error {
	if err := w.enc.Encode(NewRecord(f)); err != nil {
		return fmt.Errorf("encode frame %d: %w", w.count+1, err)
	}
	w.count++
	return nil
}

// Count returns the number of frames written.
func (w *Writer) Count() int { return w.count }
