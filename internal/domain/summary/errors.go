package summary

import "errors"

// Sentinel kinds for summary errors.
var (
	ErrInvalidPair = errors.New("invalid count pair")
)
