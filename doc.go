// Package crypter is the entry point for callers that transform text with
// the cipher package and keep a per-user history of what they did.
//
// Components:
//   - cipher: the codec library. Pure functions, a static Method table and
//     Dispatch. Usable on its own.
//   - history.Sink / history.Store: where successful calls are recorded.
//     history.KV stores framed records in any provider.Provider and numbers
//     them per user through a seqstore.SeqStore.
//   - Logger / Hooks: structured logs and high-signal callbacks, with
//     adapters for zap, logrus and slog.
//
// Call flow:
//
//	res, err := c.Do(ctx, crypter.Request{User: "ada", Method: cipher.MethodVigenere,
//	    Direction: cipher.Encode, Text: "attack at dawn"})
//	// res.Text is the ciphertext; res.Entry holds the stored history entry.
//
// Only successful calls from a non-empty user are recorded. A failed history
// write never changes the transformed text; with Options.StrictHistory it is
// additionally reported as a *HistoryError.
package crypter
