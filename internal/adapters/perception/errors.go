package perception

import "errors"

// Sentinel kinds for perception stream errors.
var (
	// ErrStreamOpen means the stream could not be opened. It is fatal.
	ErrStreamOpen = errors.New("perception stream open failed")
	// ErrStreamRead means the stream broke mid-way and cannot continue.
	ErrStreamRead = errors.New("perception stream read failed")
	// ErrMalformedRecord marks a line that could not be decoded. It only
	// affects that frame.
	ErrMalformedRecord = errors.New("malformed perception record")
	// ErrFaceAnalysis carries a failure reported by the face collaborator.
	ErrFaceAnalysis = errors.New("face analysis failed")
)
