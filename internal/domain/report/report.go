package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// reportSuffix is appended to the output base name to form the report path.
const reportSuffix = "_report.txt"

// EmotionCount is one row of the emotion table.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// Summary is the finalized, read-only view of a run.
type Summary struct {
	Frames        int            `json:"frames"`
	Waves         int            `json:"waves"`
	Handshakes    int            `json:"handshakes"`
	Dances        int            `json:"dances"`
	Emotions      []EmotionCount `json:"emotions"`
	AnomalyCount  int            `json:"anomaly_count"`
	AnomalyFrames []int          `json:"anomaly_frames"`
}

// Summarize builds a Summary from statistics. Emotions are listed in the
// order they were first seen.
func Summarize(s *Statistics) Summary {
	out := Summary{
		Frames:        s.Frames,
		Waves:         s.Waves,
		Handshakes:    s.Handshakes,
		Dances:        s.Dances,
		Emotions:      make([]EmotionCount, 0, len(s.emotionOrder)),
		AnomalyCount:  len(s.AnomalyFrames),
		AnomalyFrames: append([]int{}, s.AnomalyFrames...),
	}
	for _, e := range s.emotionOrder {
		out.Emotions = append(out.Emotions, EmotionCount{Emotion: e, Count: s.emotionCounts[e]})
	}
	return out
}

// WriteText renders the human-readable report.
func (s Summary) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "VIDEO ANALYSIS REPORT")
	fmt.Fprintln(bw, "=====================")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Total frames analyzed: %d\n", s.Frames)
	fmt.Fprintf(bw, "Total waves detected: %d\n", s.Waves)
	fmt.Fprintf(bw, "Total handshakes detected: %d\n", s.Handshakes)
	fmt.Fprintf(bw, "Total dances detected: %d\n", s.Dances)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Emotions detected:")
	for _, e := range s.Emotions {
		fmt.Fprintf(bw, "- %s: %d\n", e.Emotion, e.Count)
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Total frames with possible anomalies: %d\n", s.AnomalyCount)
	if len(s.AnomalyFrames) > 0 {
		fmt.Fprintf(bw, "Anomaly frames: %s\n", formatFrames(s.AnomalyFrames))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	return nil
}

// WriteJSON renders the summary as indented JSON.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	return nil
}

// Path derives the report path from an output path: "out/video.mp4"
// becomes "out/video_report.txt".
func Path(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + reportSuffix
}

func formatFrames(frames []int) string {
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = strconv.Itoa(f)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
