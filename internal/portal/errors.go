package portal

import "errors"

// Registry errors
var (
	// ErrNotRegistered is returned when an operation references an id
	// that has no live registration. It signals a registration or
	// unregistration ordering bug in the caller and is never swallowed.
	ErrNotRegistered = errors.New("id not registered")

	// ErrEmptyID is returned when registering with a blank id.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyChildID is returned when appending a child with a blank id.
	ErrEmptyChildID = errors.New("child id cannot be empty")
)
