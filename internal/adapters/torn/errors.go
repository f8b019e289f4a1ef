package torn

import "errors"

// Sentinel errors returned by the client.
var (
	// ErrAPI is returned when the API answers with an error envelope or a
	// non-200 status.
	ErrAPI = errors.New("torn api error")
	// ErrDecode is returned when a response body cannot be decoded.
	ErrDecode = errors.New("decode torn response")
	// ErrNoWar is returned when the faction has no ranked war to score.
	ErrNoWar = errors.New("no ranked war found")
	// ErrInvalidClient is returned by New for unusable arguments.
	ErrInvalidClient = errors.New("invalid torn client")
)
