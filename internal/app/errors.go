package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrAlreadyRunning = errors.New("analysis already running")
	ErrWriteOutput    = errors.New("write analysis output failed")
)
