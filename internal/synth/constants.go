package synth

// Scenario names.
const (
	ScenarioIdle      = "idle"
	ScenarioWave      = "wave"
	ScenarioHandshake = "handshake"
	ScenarioDance     = "dance"
	ScenarioAnomaly   = "anomaly"
	ScenarioMixed     = "mixed"
)

// Scenarios lists every scenario the generator understands.
var Scenarios = []string{
	ScenarioIdle,
	ScenarioWave,
	ScenarioHandshake,
	ScenarioDance,
	ScenarioAnomaly,
	ScenarioMixed,
}

// mixedCycle is the block order used by the mixed scenario.
var mixedCycle = []string{
	ScenarioIdle,
	ScenarioWave,
	ScenarioIdle,
	ScenarioDance,
	ScenarioHandshake,
	ScenarioAnomaly,
}

// Default generation constants.
const (
	DefaultFrames = 600
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultSeed   = 1

	mixedBlockFrames = 60
)

// Pose geometry, normalized to the frame.
const (
	jitter = 0.004

	eyeY         = 0.22
	shoulderY    = 0.35
	hipY         = 0.6
	kneeY        = 0.78
	ankleY       = 0.95
	restWristY   = 0.58
	raisedWristY = 0.1
	handshakeY   = 0.48
	handshakeGap = 0.02

	danceAmplitude = 0.05
	dancePeriod    = 16.0

	faceWidthRatio  = 0.2
	faceHeightRatio = 0.3
)

// Emotion score ranges on the classifier's 0-100 scale.
const (
	calmBase        = 70.0
	calmRange       = 20.0
	distressedBase  = 70.0
	distressedRange = 25.0
)

// File permission constants.
const (
	logFilePermission   = 0o600
	directoryPermission = 0o750
)
