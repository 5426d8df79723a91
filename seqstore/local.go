package seqstore

import (
	"context"
	"sync"
)

// Local keeps counters in-process. They are lost on restart, after which a
// fresh counter overwrites old records from slot 1 upward.
type Local struct {
	mu   sync.RWMutex
	seqs map[string]uint64
}

var _ SeqStore = (*Local)(nil)

func NewLocal() *Local {
	return &Local{seqs: make(map[string]uint64)}
}

func (s *Local) Current(_ context.Context, k string) (uint64, error) {
	s.mu.RLock()
	n := s.seqs[k]
	s.mu.RUnlock()
	return n, nil
}

func (s *Local) Next(_ context.Context, k string) (uint64, error) {
	s.mu.Lock()
	s.seqs[k]++
	n := s.seqs[k]
	s.mu.Unlock()
	return n, nil
}

func (s *Local) Close(context.Context) error { return nil }
