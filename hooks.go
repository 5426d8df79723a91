package crypter

// Hooks are callbacks for high-signal events. Implementations MUST be cheap
// and non-blocking; wrap slow ones with hooks/async.
type Hooks interface {
	// Ciphertext could not be decoded. reason is the cipher sentinel text,
	// e.g. "missing key delimiter".
	DecodeFailed(method, reason string)

	// The transformation succeeded but its history entry was not stored.
	HistoryWriteFailed(user string, err error)

	// Listing a user's history failed.
	HistoryReadFailed(user string, err error)

	// history.KV deleted an unreadable record. Wire it through
	// history.Options.OnSelfHeal.
	// reason ∈ {"corrupt", "unknown_codec", "value_decode", "seq_or_user_mismatch"}
	HistorySelfHeal(storageKey, reason string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) DecodeFailed(string, string)      {}
func (NopHooks) HistoryWriteFailed(string, error) {}
func (NopHooks) HistoryReadFailed(string, error)  {}
func (NopHooks) HistorySelfHeal(string, string)   {}
