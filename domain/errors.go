package domain

import "errors"

var (
	ErrUnexpectedBreakdownShape = errors.New("breakdown response is not a scene list")
	ErrInvalidShotList          = errors.New("invalid shot list")
	ErrVideoJobFailed           = errors.New("video generation job failed")
	ErrVideoJobTimedOut         = errors.New("video generation job timed out")
)
