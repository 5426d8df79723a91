package crypter

import (
	"context"
	"time"

	"github.com/samber/mo"

	"github.com/unkn0wn-root/crypter/cipher"
	"github.com/unkn0wn-root/crypter/history"
)

// Crypter runs cipher calls and records them. Safe for concurrent use.
type Crypter interface {
	Do(ctx context.Context, req Request) (Result, error)
	Encrypt(ctx context.Context, user string, m cipher.Method, text string, p cipher.Params) (string, error)
	Decrypt(ctx context.Context, user string, m cipher.Method, text string, p cipher.Params) (string, error)

	// History lists the user's recorded calls, newest first.
	History(ctx context.Context, user string, limit int) ([]history.Entry, error)
	Catalog() []CatalogItem
	Close(ctx context.Context) error
}

// Request is one transformation. User may be empty, in which case nothing
// is recorded.
type Request struct {
	User      string
	Method    cipher.Method
	Direction cipher.Direction
	Text      string
	Params    cipher.Params
}

// Result carries the transformed text and, when the call was recorded, the
// stored entry.
type Result struct {
	Text  string
	Entry mo.Option[history.Entry]
}

// CatalogItem is one entry of the fixed method list shown to users.
type CatalogItem struct {
	Method cipher.Method
	ID     string
	Label  string
}

// Options tune the service. All fields are optional.
type Options struct {
	History history.Sink // nil => nothing is recorded
	Logger  Logger       // nil => NopLogger
	Hooks   Hooks        // nil => NopHooks

	// Defaults fill the Shift and Keyword of requests that leave them unset,
	// before the cipher package's own defaults apply.
	Defaults cipher.Params
	// Rand draws substitution keys for requests without their own.
	Rand cipher.Rand

	// StrictHistory makes a failed history write return *HistoryError
	// alongside the result.
	StrictHistory bool

	Now func() time.Time // nil => time.Now
}

func New(opts Options) (Crypter, error) {
	return newService(opts)
}
