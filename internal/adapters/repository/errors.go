package repository

import "errors"

// Sentinel kinds for timeline errors.
var (
	ErrInvalidLimit = errors.New("invalid timeline limit")
	ErrUnknownKind  = errors.New("unknown annotation kind")
)
