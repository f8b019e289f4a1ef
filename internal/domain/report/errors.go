package report

import "errors"

// Sentinel kinds for report errors. Missing input is distinct from a
// report whose values are all zero.
var (
	ErrNoChains  = errors.New("no chains in window")
	ErrNoActions = errors.New("no chain hits after filtering")
)
