package crypter

import (
	"errors"
	"fmt"
)

// ErrHistoryUnavailable is returned by History when the configured sink
// cannot list entries, or none is configured.
var ErrHistoryUnavailable = errors.New("crypter: history listing not available")

// HistoryError reports a history store failure. For Op "record" the
// transformation itself succeeded and its text is still returned.
type HistoryError struct {
	Op   string // "record" or "list"
	User string
	Err  error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("crypter: history %s for %q: %v", e.Op, e.User, e.Err)
}

func (e *HistoryError) Unwrap() error { return e.Err }
