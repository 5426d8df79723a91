// Package provider defines the byte store that history records live in.
//
// Implementations MUST be byte-for-byte transparent: Get returns exactly the
// bytes previously passed to Set for a key, with no framing added, no
// re-encoding and no mutation. Stores that compress internally must fully
// reverse it on Get.
//
// The keyspace "hist:" is owned by the history package. Foreign values
// written under it fail frame validation on read and are deleted.
package provider

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by providers used after Close.
var ErrClosed = errors.New("provider: closed")

// Provider is a minimal byte store with TTLs, safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	// IO or remote failures return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. ttl <= 0 means no expiry where the store allows it.
	// cost is a hint for admission-based stores and may be ignored.
	// ok=false means the store declined the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
