package access

import (
	"github.com/rotisserie/eris"
)

var (
	// The region graph or hospital features could not be fetched.
	ErrDataUnavailable = eris.New("access: data unavailable")
	// Malformed candidate site, rejected before any computation.
	ErrInvalidInput = eris.New("access: invalid input")
)
