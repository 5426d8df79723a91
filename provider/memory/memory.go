// Package memory is an in-process Provider backed by a concurrent skip list.
// It is the default history store and the one used in tests.
package memory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zhangyunhao116/skipmap"

	pr "github.com/unkn0wn-root/crypter/provider"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type Provider struct {
	m      *skipmap.StringMap[entry]
	now    func() time.Time
	closed atomic.Bool
}

var _ pr.Provider = (*Provider)(nil)

// New returns an empty store. A nil clock uses time.Now.
func New(now func() time.Time) *Provider {
	if now == nil {
		now = time.Now
	}
	return &Provider{m: skipmap.NewString[entry](), now: now}
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	if p.closed.Load() {
		return nil, false, pr.ErrClosed
	}
	e, ok := p.m.Load(key)
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && p.now().After(e.exp) {
		p.m.Delete(key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if p.closed.Load() {
		return false, pr.ErrClosed
	}
	var exp time.Time
	if ttl > 0 {
		exp = p.now().Add(ttl)
	}
	// copy so later caller mutations cannot leak into the store
	p.m.Store(key, entry{v: append([]byte(nil), value...), exp: exp})
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	if p.closed.Load() {
		return pr.ErrClosed
	}
	p.m.Delete(key)
	return nil
}

// Len counts stored keys, including ones that expired but were not read yet.
func (p *Provider) Len() int { return p.m.Len() }

// Keys returns stored keys in ascending order.
func (p *Provider) Keys() []string {
	out := make([]string, 0, p.m.Len())
	p.m.Range(func(k string, _ entry) bool {
		out = append(out, k)
		return true
	})
	return out
}

func (p *Provider) Close(_ context.Context) error {
	p.closed.Store(true)
	return nil
}
