package output

import "errors"

// Sentinel errors returned by sinks.
var (
	// ErrSpreadsheetURL is returned when no spreadsheet id can be found in a URL.
	ErrSpreadsheetURL = errors.New("could not extract spreadsheet ID from URL")
	// ErrOutputDir is returned when the CSV directory is unusable.
	ErrOutputDir = errors.New("invalid output directory")
)
