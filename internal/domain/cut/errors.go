package cut

import "errors"

// Sentinel kinds for cut distribution errors.
var (
	ErrIntegrity = errors.New("cut integrity violation")
)
