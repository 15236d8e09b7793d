package service

import "errors"

// Service errors. The API layer maps these to HTTP status codes.
var (
	// ErrOperationNotFound indicates that an operation is neither queued,
	// running nor recorded in the result history.
	ErrOperationNotFound = errors.New("operation not found")

	// ErrInvalidLimit indicates a non-positive or excessive page size.
	ErrInvalidLimit = errors.New("invalid result limit")
)
