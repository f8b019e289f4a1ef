package repository

import "errors"

// Sentinel kinds for report store errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrNoReport     = errors.New("no report stored yet")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
