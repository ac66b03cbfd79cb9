// Package report accumulates run statistics and renders the final summary.
package report

import "github.com/okian/gestus/internal/domain/model"

// Statistics accumulates counters over a whole run. Counters only grow and
// anomaly frames are appended in processing order.
type Statistics struct {
	Frames        int
	Waves         int
	Handshakes    int
	Dances        int
	AnomalyFrames []int
	emotionCounts map[string]int
	emotionOrder  []string
}

// NewStatistics returns empty statistics.
func NewStatistics() *Statistics {
	return &Statistics{emotionCounts: make(map[string]int)}
}

// RecordEmotion counts one occurrence of a dominant emotion label.
func (s *Statistics) RecordEmotion(label string) {
	if _, ok := s.emotionCounts[label]; !ok {
		s.emotionOrder = append(s.emotionOrder, label)
	}
	s.emotionCounts[label]++
}

// RecordAnomaly appends a frame index to the anomaly list.
func (s *Statistics) RecordAnomaly(frame int) {
	s.AnomalyFrames = append(s.AnomalyFrames, frame)
}

// RecordEvent increments the counter for kind. Unknown kinds are ignored.
func (s *Statistics) RecordEvent(kind model.EventKind) {
	switch kind {
	case model.EventWave:
		s.Waves++
	case model.EventHandshake:
		s.Handshakes++
	case model.EventDance:
		s.Dances++
	}
}

// EmotionCount returns how often label was the dominant emotion.
func (s *Statistics) EmotionCount(label string) int {
	return s.emotionCounts[label]
}

// Clone returns a deep copy.
func (s *Statistics) Clone() *Statistics {
	c := &Statistics{
		Frames:        s.Frames,
		Waves:         s.Waves,
		Handshakes:    s.Handshakes,
		Dances:        s.Dances,
		AnomalyFrames: append([]int(nil), s.AnomalyFrames...),
		emotionCounts: make(map[string]int, len(s.emotionCounts)),
		emotionOrder:  append([]string(nil), s.emotionOrder...),
	}
	for k, v := range s.emotionCounts {
		c.emotionCounts[k] = v
	}
	return c
}
