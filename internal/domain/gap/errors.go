package gap

import "errors"

// Sentinel kinds for gap classification.
var (
	ErrOutOfRange   = errors.New("time gap out of range")
	ErrUnknownLabel = errors.New("unknown gap label")
)
