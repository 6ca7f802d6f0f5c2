package domain

import (
	"errors"
	"fmt"
)

// Closed-set violations are all ErrInvalidArgument; ErrInvalidFilter and
// ErrInvalidMode narrow it for callers that want to tell them apart.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFilter   = fmt.Errorf("%w: invalid filter", ErrInvalidArgument)
	ErrInvalidMode     = fmt.Errorf("%w: invalid map mode", ErrInvalidArgument)

	// ErrMissingColumn is returned when a result set lacks a column the
	// flow schema requires.
	ErrMissingColumn = errors.New("missing column")
)
