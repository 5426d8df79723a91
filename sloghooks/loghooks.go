// Package sloghooks reports crypter.Hooks events through a *slog.Logger.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/crypter"
	"github.com/unkn0wn-root/crypter/internal/util"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DecodeFailedEvery uint64
	SelfHealEvery     uint64
	// Optional user/key redactor. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	decodeCtr   atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ crypter.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	if opts.Redact == nil {
		opts.Redact = util.Redact
	}
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n <= 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) DecodeFailed(method, reason string) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeCtr) {
		return
	}
	h.l.Info("crypter.decode_failed",
		"method", method,
		"reason", reason)
}

func (h *Hooks) HistoryWriteFailed(user string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("crypter.history_write_failed",
		"user", h.opts.Redact(user),
		"err", err)
}

func (h *Hooks) HistoryReadFailed(user string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("crypter.history_read_failed",
		"user", h.opts.Redact(user),
		"err", err)
}

func (h *Hooks) HistorySelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("crypter.history_self_heal",
		"key", h.opts.Redact(storageKey),
		"reason", reason)
}
