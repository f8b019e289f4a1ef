package service

import "errors"

// Sentinel errors for the service.
var (
	// ErrNoSource is returned by New when no source is given.
	ErrNoSource = errors.New("no source configured")
	// ErrSink wraps failures of report outputs.
	ErrSink = errors.New("write report output")
)
