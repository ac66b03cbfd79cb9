package model

// Region is a face bounding box in pixels.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Valid reports whether the region describes an actual detection.
func (r Region) Valid() bool {
	return r.W > 0 && r.H > 0
}

// FaceObservation is one detected face in one frame.
type FaceObservation struct {
	Region   Region             // bounding box
	Dominant string             // dominant emotion label
	Emotions map[string]float64 // emotion label -> intensity, classifier scale
}

// FaceResult is what the emotion collaborator returned for a frame.
// A non-nil Err means the collaborator failed and Faces must be ignored.
type FaceResult struct {
	Faces []FaceObservation
	Err   error
}

// Frame carries the perception output for a single video frame.
type Frame struct {
	Index  int        // 1-based position in the stream, assigned by the engine
	Width  int        // frame width in pixels
	Height int        // frame height in pixels
	Pose   Landmarks  // nil when no person was detected
	Faces  FaceResult // face/emotion collaborator result
}
