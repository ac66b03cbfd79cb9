// Package model contains domain models passed between layers.
package model

// Landmark names a body keypoint reported by the pose estimator.
type Landmark string

// Landmarks understood by the classifiers. Names follow the pose
// estimator's snake_case output so records decode without translation.
const (
	Nose          Landmark = "nose"
	LeftEye       Landmark = "left_eye"
	RightEye      Landmark = "right_eye"
	LeftShoulder  Landmark = "left_shoulder"
	RightShoulder Landmark = "right_shoulder"
	LeftElbow     Landmark = "left_elbow"
	RightElbow    Landmark = "right_elbow"
	LeftWrist     Landmark = "left_wrist"
	RightWrist    Landmark = "right_wrist"
	LeftHip       Landmark = "left_hip"
	RightHip      Landmark = "right_hip"
	LeftKnee      Landmark = "left_knee"
	RightKnee     Landmark = "right_knee"
	LeftAnkle     Landmark = "left_ankle"
	RightAnkle    Landmark = "right_ankle"
)

// Point is a 2-D coordinate normalized to the frame size. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmarks is the set of keypoints detected for one person in one frame.
// Any subset may be present.
type Landmarks map[Landmark]Point

// Get returns the point for name and whether it was detected.
func (l Landmarks) Get(name Landmark) (Point, bool) {
	p, ok := l[name]
	return p, ok
}

// Snapshot slot indices.
const (
	SlotLeftShoulder = iota
	SlotRightShoulder
	SlotLeftHip
	SlotRightHip
	SlotLeftKnee
	SlotRightKnee
	SlotLeftAnkle
	SlotRightAnkle
	SlotLeftWrist
	SlotRightWrist
	SnapshotSize
)

// snapshotOrder maps each snapshot slot to its landmark.
var snapshotOrder = [SnapshotSize]Landmark{
	LeftShoulder, RightShoulder,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
	LeftWrist, RightWrist,
}

// PoseSnapshot is the fixed, ordered body outline kept in motion history.
type PoseSnapshot [SnapshotSize]Point

// Snapshot builds the fixed-order PoseSnapshot. ok is false when any of the
// ten required landmarks is missing.
func (l Landmarks) Snapshot() (PoseSnapshot, bool) {
	var s PoseSnapshot
	for i, name := range snapshotOrder {
		p, ok := l[name]
		if !ok {
			return PoseSnapshot{}, false
		}
		s[i] = p
	}
	return s, true
}

// SnapshotLandmark returns the landmark stored at slot i.
func SnapshotLandmark(i int) Landmark {
	return snapshotOrder[i]
}
