package storage

import "errors"

// Common client storage errors
var (
	// ErrCorruptEntry indicates that a stored value could not be decoded
	ErrCorruptEntry = errors.New("corrupt session entry")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
