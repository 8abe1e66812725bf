package repository

import "errors"

var (
	// ErrInvalidInput is returned when query options fail validation
	ErrInvalidInput = errors.New("invalid input")
)
