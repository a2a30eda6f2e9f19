package affiliate

import "errors"

// Error taxonomy shared by the service and the transport layer. Handlers map
// these to HTTP statuses; everything else is treated as an operational error.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("already exists")
	ErrNotFound   = errors.New("not found")
)
