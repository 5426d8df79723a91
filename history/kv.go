package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/crypter/internal/util"
	"github.com/unkn0wn-root/crypter/internal/wire"
	pr "github.com/unkn0wn-root/crypter/provider"
	"github.com/unkn0wn-root/crypter/seqstore"
)

const defaultMaxScan = 1000

// Self-heal reasons passed to Options.OnSelfHeal.
const (
	HealCorrupt  = "corrupt"
	HealCodec    = "unknown_codec"
	HealDecode   = "value_decode"
	HealMismatch = "seq_or_user_mismatch"
)

// Options configure a KV store. Namespace and Provider are required.
type Options struct {
	Namespace string // e.g. "crypter:prod"
	Provider  pr.Provider

	Codec   Codec             // nil => JSON
	Seq     seqstore.SeqStore // nil => seqstore.NewLocal()
	TTL     time.Duration     // per-record retention; 0 => keep
	MaxScan int               // record slots List may probe per call; 0 => 1000

	// OnSelfHeal is told about every record List deleted as unreadable.
	OnSelfHeal func(storageKey, reason string)

	Now   func() time.Time // nil => time.Now
	NewID func() string    // nil => uuid.NewString
}

// KV is a Store over a byte provider. Record i of a user lives at
// util.RecordKey(ns, user, i); ns and user are length-prefixed there, so ':'
// in either cannot alias another namespace. List walks i downward from the
// user's current sequence, skipping slots whose record expired or was evicted.
type KV struct {
	ns       string
	provider pr.Provider
	codec    Codec
	seq      seqstore.SeqStore
	ttl      time.Duration
	maxScan  int
	onHeal   func(string, string)
	now      func() time.Time
	newID    func() string
}

var _ Store = (*KV)(nil)

func NewKV(opts Options) (*KV, error) {
	if opts.Provider == nil {
		return nil, errors.New("history: provider is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("history: namespace is required")
	}

	s := &KV{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		seq:      opts.Seq,
		ttl:      opts.TTL,
		maxScan:  opts.MaxScan,
		onHeal:   opts.OnSelfHeal,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if s.codec == nil {
		s.codec = JSON{}
	}
	if s.seq == nil {
		s.seq = seqstore.NewLocal()
	}
	if s.maxScan <= 0 {
		s.maxScan = defaultMaxScan
	}
	if s.onHeal == nil {
		s.onHeal = func(string, string) {}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

func (s *KV) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.User == "" {
		return Entry{}, ErrNoUser
	}
	if e.ID == "" {
		e.ID = s.newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	payload, err := s.codec.Encode(e)
	if err != nil {
		return Entry{}, fmt.Errorf("history: encode: %w", err)
	}
	seq, err := s.seq.Next(ctx, util.SeqKey(e.User))
	if err != nil {
		return Entry{}, fmt.Errorf("history: next seq: %w", err)
	}

	frame := wire.EncodeRecord(s.codec.Tag(), seq, payload)
	key := util.RecordKey(s.ns, e.User, seq)
	ok, err := s.provider.Set(ctx, key, frame, int64(len(frame)), s.ttl)
	if err != nil {
		return Entry{}, fmt.Errorf("history: set: %w", err)
	}
	if !ok {
		return Entry{}, ErrRejected
	}
	e.Seq = seq
	return e, nil
}

func (s *KV) List(ctx context.Context, user string, limit int) ([]Entry, error) {
	if user == "" {
		return nil, ErrNoUser
	}
	cur, err := s.seq.Current(ctx, util.SeqKey(user))
	if err != nil {
		return nil, fmt.Errorf("history: current seq: %w", err)
	}

	var out []Entry
	probed := 0
	for i := cur; i > 0 && probed < s.maxScan; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		probed++

		e, ok, err := s.load(ctx, user, i)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// load reads slot seq of user. Unreadable records are deleted and reported.
func (s *KV) load(ctx context.Context, user string, seq uint64) (Entry, bool, error) {
	key := util.RecordKey(s.ns, user, seq)
	raw, ok, err := s.provider.Get(ctx, key)
	if err != nil {
		return Entry{}, false, fmt.Errorf("history: get: %w", err)
	}
	if !ok {
		return Entry{}, false, nil
	}

	tag, gotSeq, payload, err := wire.DecodeRecord(raw)
	if err != nil {
		s.heal(ctx, key, HealCorrupt)
		return Entry{}, false, nil
	}
	codec := s.codec
	if tag != codec.Tag() {
		var known bool
		if codec, known = codecByTag(tag); !known {
			s.heal(ctx, key, HealCodec)
			return Entry{}, false, nil
		}
	}
	e, err := codec.Decode(payload)
	if err != nil {
		s.heal(ctx, key, HealDecode)
		return Entry{}, false, nil
	}
	if gotSeq != seq || e.User != user {
		s.heal(ctx, key, HealMismatch)
		return Entry{}, false, nil
	}
	e.Seq = seq
	return e, true, nil
}

func (s *KV) heal(ctx context.Context, key, reason string) {
	_ = s.provider.Del(ctx, key)
	s.onHeal(key, reason)
}

// Close closes the sequence store first (best effort), then the provider.
func (s *KV) Close(ctx context.Context) error {
	if s.seq != nil {
		_ = s.seq.Close(ctx)
	}
	return s.provider.Close(ctx)
}
