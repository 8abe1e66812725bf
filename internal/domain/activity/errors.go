package activity

import "errors"

var (
	// ErrInvalidInput indicates a malformed activity entry.
	ErrInvalidInput = errors.New("invalid activity input")
)
