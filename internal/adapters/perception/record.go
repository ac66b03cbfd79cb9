// Package perception reads pre-computed per-frame perception output.
//
// The stream is JSON Lines: one Record per video frame, in frame order.
package perception

import (
	"fmt"

	"github.com/okian/gestus/internal/domain/model"
)

// Record is the wire form of one frame's perception output.
type Record struct {
	Width     int                            `json:"width,omitempty"`
	Height    int                            `json:"height,omitempty"`
	Pose      map[model.Landmark]model.Point `json:"pose,omitempty"`
	Faces     []FaceRecord                   `json:"faces,omitempty"`
	FaceError string                         `json:"face_error,omitempty"`
}

// FaceRecord is the wire form of one detected face.
type FaceRecord struct {
	Region          model.Region       `json:"region"`
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion,omitempty"`
}

// Frame converts the record to a domain frame. An empty pose means no
// person; a face error turns the face result into a failure.
func (r Record) Frame() model.Frame {
	f := model.Frame{Width: r.Width, Height: r.Height}

	if len(r.Pose) > 0 {
		f.Pose = make(model.Landmarks, len(r.Pose))
		for name, p := range r.Pose {
			f.Pose[name] = p
		}
	}

	if r.FaceError != "" {
		f.Faces.Err = fmt.Errorf("%w: %s", ErrFaceAnalysis, r.FaceError)
		return f
	}

	for _, fr := range r.Faces {
		f.Faces.Faces = append(f.Faces.Faces, model.FaceObservation{
			Region:   fr.Region,
			Dominant: fr.DominantEmotion,
			Emotions: fr.Emotion,
		})
	}
	return f
}

// NewRecord is the inverse of Record.Frame.
func NewRecord(f model.Frame) Record {
	r := Record{Width: f.Width, Height: f.Height}

	if len(f.Pose) > 0 {
		r.Pose = make(map[model.Landmark]model.Point, len(f.Pose))
		for name, p := range f.Pose {
			r.Pose[name] = p
		}
	}

	if f.Faces.Err != nil {
		r.FaceError = f.Faces.Err.Error()
		return r
	}

	for _, face := range f.Faces.Faces {
		r.Faces = append(r.Faces, FaceRecord{
			Region:          face.Region,
			DominantEmotion: face.Dominant,
			Emotion:         face.Emotions,
		})
	}
	return r
}
