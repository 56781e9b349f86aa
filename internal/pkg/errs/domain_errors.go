package errs

import "errors"

// Error categories surfaced to callers. Usecase sentinels are Marked with
// exactly one of these so the HTTP layer can map them without knowing the
// individual sentinel.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state")
)
