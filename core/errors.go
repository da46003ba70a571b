package core

import "errors"

var (
	// ErrInvalidRole is returned when an append names a role outside the
	// recognized enum. The offending store is left untouched.
	ErrInvalidRole = errors.New("invalid role")

	// ErrStorageUnavailable wraps failures of the underlying storage medium
	// (closed database handle, unreachable key-value server). Backends surface
	// it unchanged and never retry; retry policy belongs to the host.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
