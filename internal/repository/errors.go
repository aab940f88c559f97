package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, e.g. a second active payment transaction for a booking.
	ErrDuplicate = errors.New("entity already exists")

	// ErrStaleStatus is returned by conditional status updates when the
	// row was not in the expected status, meaning another writer got
	// there first.
	ErrStaleStatus = errors.New("entity not in expected status")
)
