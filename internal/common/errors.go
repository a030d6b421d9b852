// Package common defines shared constants and sentinel errors used across
// client and server layers of Scenic. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Store-level errors. A failed write means no partial durable change
	// can be assumed; the caller must abort the surrounding operation.
	ErrStoreWrite = errors.New("store write failed")

	// Remote/network errors. Retriable only by an explicit re-invocation.
	ErrNetwork = errors.New("network failure")

	// Cache errors: a record flag claims a cached file that is missing on disk.
	ErrCacheInconsistent = errors.New("cache inconsistent")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")
)
