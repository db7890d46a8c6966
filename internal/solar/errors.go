package solar

import "errors"

// Errors returned by zone resolution. All of them are input validation
// failures; callers match them with errors.Is.
var (
	ErrOutOfRange    = errors.New("coordinate out of range")
	ErrInvalidName   = errors.New("not a valid solar time zone name")
	ErrMissingInput  = errors.New("longitude or time zone name is required")
	ErrInvalidScheme = errors.New("unknown time zone type")
	ErrUnknownField  = errors.New("unknown field")
)
