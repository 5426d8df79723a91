// Package seqstore hands out per-user history sequence numbers.
//
// Sequences start at 1 and only grow. The history store addresses record n
// of a user by (namespace, user, n), so listing newest first is a walk from
// Current down to 1.
package seqstore

import "context"

// SeqStore abstracts where sequence counters live. Use Local for a single
// process and Redis when several replicas share one history.
type SeqStore interface {
	// Current returns the last issued sequence; missing => 0.
	Current(ctx context.Context, key string) (uint64, error)
	// Next atomically increments and returns the new sequence.
	Next(ctx context.Context, key string) (uint64, error)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
