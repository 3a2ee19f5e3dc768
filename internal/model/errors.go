package model

import "errors"

var (
	// ErrNotFound is returned by a storage tier that has no data for a key.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedUsage is returned by sharing-set operations the protocol layer must never call.
	ErrUnsupportedUsage = errors.New("unsupported usage of sender key store")

	// ErrDeserialization marks corrupted or incompatible record bytes.
	ErrDeserialization = errors.New("failed to deserialize sender key record")

	// ErrStorage marks a failed durable or remote write.
	ErrStorage = errors.New("sender key storage failure")

	// ErrNotAuthenticated is reported when no user is logged in.
	ErrNotAuthenticated = errors.New("no authenticated user")

	ErrInvalidIdentity = errors.New("invalid sender key identity")
	ErrEmptyRecord     = errors.New("sender key record is empty")
	ErrRecordTooLarge  = errors.New("sender key record is too large")
	ErrStoreClosed     = errors.New("sender key store is closed")
)
