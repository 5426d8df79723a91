// Package asynchook moves crypter.Hooks calls onto a bounded worker pool so
// slow sinks never stall a cipher call. Events are dropped when the queue
// is full.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{DecodeFailedEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := crypter.New(crypter.Options{History: store, Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/crypter"
)

type Hooks struct {
	inner   crypter.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
}

var _ crypter.Hooks = (*Hooks)(nil)

func New(inner crypter.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events sent after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.closed.Store(true)
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	if h.closed.Load() {
		h.dropped.Add(1)
		return
	}
	defer func() {
		// lost the race with Close
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) DecodeFailed(m, r string)             { h.try(func() { h.inner.DecodeFailed(m, r) }) }
func (h *Hooks) HistoryWriteFailed(u string, e error) { h.try(func() { h.inner.HistoryWriteFailed(u, e) }) }
func (h *Hooks) HistoryReadFailed(u string, e error)  { h.try(func() { h.inner.HistoryReadFailed(u, e) }) }
func (h *Hooks) HistorySelfHeal(k, r string)          { h.try(func() { h.inner.HistorySelfHeal(k, r) }) }
