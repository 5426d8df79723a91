// Package history records transformations per user and lists them back,
// newest first.
//
// The cipher library never depends on this package: the service hands each
// successful call to a Sink. KV is the bundled Store; it keeps one framed,
// serialized record per key in any provider.Provider and numbers records
// through a seqstore.SeqStore.
package history

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoUser   = errors.New("history: entry has no user")
	ErrRejected = errors.New("history: provider rejected write")
	ErrTooLarge = errors.New("history: record too large")
	ErrNotUTF8  = errors.New("history: text is not valid UTF-8")
)

// Entry is one transformation. Input is the text the caller supplied and
// Output the text returned, whatever the direction.
//
// Ciphers pass invalid UTF-8 through unchanged. The JSON, CBOR and Protobuf
// codecs refuse such entries with ErrNotUTF8 instead of rewriting the bytes;
// Msgpack and BSON store them byte for byte.
type Entry struct {
	ID        string    `json:"id" cbor:"id" msgpack:"id" bson:"id"`
	User      string    `json:"user" cbor:"user" msgpack:"user" bson:"user"`
	Method    string    `json:"method" cbor:"method" msgpack:"method" bson:"method"`
	Decrypt   bool      `json:"decrypt" cbor:"decrypt" msgpack:"decrypt" bson:"decrypt"`
	Input     string    `json:"input" cbor:"input" msgpack:"input" bson:"input"`
	Output    string    `json:"output" cbor:"output" msgpack:"output" bson:"output"`
	CreatedAt time.Time `json:"created_at" cbor:"created_at" msgpack:"created_at" bson:"created_at"`

	// Seq is assigned by the store and carried in the record frame, not the
	// payload.
	Seq uint64 `json:"-" cbor:"-" msgpack:"-" bson:"-"`
}

// Sink accepts finished transformations. Record returns the entry as stored,
// with ID, CreatedAt and Seq filled in.
type Sink interface {
	Record(ctx context.Context, e Entry) (Entry, error)
}

// Store is a Sink that can also list what it recorded.
type Store interface {
	Sink
	// List returns up to limit entries of user, newest first. limit <= 0
	// returns everything still retained.
	List(ctx context.Context, user string, limit int) ([]Entry, error)
	Close(ctx context.Context) error
}
