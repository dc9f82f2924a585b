package store

import "errors"

// Sentinel errors returned by store implementations. Services and handlers
// match on these with errors.Is instead of inspecting backend error text.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates the operation would violate a uniqueness
	// constraint.
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidEntity indicates the entity failed a database constraint
	// (foreign key, check, not-null).
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists indicates a user with the given email already exists.
	ErrEmailExists = errors.New("email already exists")

	// ErrResourceNotFound indicates the cloud resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrCacheEntryNotFound indicates no cached recommendation exists for
	// the given key.
	ErrCacheEntryNotFound = errors.New("cached recommendation not found")
)
