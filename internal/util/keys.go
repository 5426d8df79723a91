package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// segment writes s as "<len>:<s>". A length prefix keeps keys injective
// when namespaces or user ids contain ':'.
func segment(s string) string { return strconv.Itoa(len(s)) + ":" + s }

// RecordKey is the storage key of the seq-th history record of user:
// hist:<len(ns)>:<ns>:<len(user)>:<user>:<seq>.
func RecordKey(ns, user string, seq uint64) string {
	return "hist:" + segment(ns) + ":" + segment(user) + ":" + strconv.FormatUint(seq, 10)
}

// SeqKey is the counter key for user, relative to the sequence store's own
// namespace.
func SeqKey(user string) string { return "user:" + user }

// CounterKey scopes a SeqKey to namespace ns: seq:<len(ns)>:<ns>:<k>.
func CounterKey(ns, k string) string { return "seq:" + segment(ns) + ":" + k }

// Redact returns a short stable token for s, for logs that must not carry
// user ids or key material.
func Redact(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
