package crypter

import (
	"context"
	"errors"
	"time"

	"github.com/samber/mo"

	"github.com/unkn0wn-root/crypter/cipher"
	"github.com/unkn0wn-root/crypter/history"
	"github.com/unkn0wn-root/crypter/internal/util"
)

type service struct {
	history  history.Sink
	log      Logger
	hooks    Hooks
	defaults cipher.Params
	strict   bool
	now      func() time.Time
}

var _ Crypter = (*service)(nil)

func newService(opts Options) (*service, error) {
	s := &service{
		history:  opts.History,
		log:      coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:    coalesce[Hooks](opts.Hooks, NopHooks{}),
		defaults: opts.Defaults,
		strict:   opts.StrictHistory,
		now:      opts.Now,
	}
	if opts.Rand != nil {
		s.defaults.Rand = opts.Rand
	}
	if kw, ok := s.defaults.Keyword.Get(); ok && kw == "" {
		return nil, &cipher.ConfigError{Method: cipher.MethodVigenere.String(), Err: cipher.ErrEmptyKeyword}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func (s *service) Do(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	out, err := cipher.Dispatch(req.Method, req.Direction, req.Text, s.params(req.Params))
	if err != nil {
		s.reportCipherError(req, err)
		return Result{}, err
	}

	res := Result{Text: out}
	if s.history == nil || req.User == "" {
		return res, nil
	}

	saved, err := s.history.Record(ctx, history.Entry{
		User:      req.User,
		Method:    req.Method.String(),
		Decrypt:   req.Direction == cipher.Decode,
		Input:     req.Text,
		Output:    out,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.log.Error("history record failed", Fields{
			"user":   util.Redact(req.User),
			"method": req.Method.String(),
			"err":    err,
		})
		s.hooks.HistoryWriteFailed(req.User, err)
		if s.strict {
			return res, &HistoryError{Op: "record", User: req.User, Err: err}
		}
		return res, nil
	}

	s.log.Debug("call recorded", Fields{
		"user":      util.Redact(req.User),
		"method":    req.Method.String(),
		"direction": req.Direction.String(),
		"seq":       saved.Seq,
	})
	res.Entry = mo.Some(saved)
	return res, nil
}

func (s *service) Encrypt(ctx context.Context, user string, m cipher.Method, text string, p cipher.Params) (string, error) {
	res, err := s.Do(ctx, Request{User: user, Method: m, Direction: cipher.Encode, Text: text, Params: p})
	return res.Text, err
}

func (s *service) Decrypt(ctx context.Context, user string, m cipher.Method, text string, p cipher.Params) (string, error) {
	res, err := s.Do(ctx, Request{User: user, Method: m, Direction: cipher.Decode, Text: text, Params: p})
	return res.Text, err
}

func (s *service) History(ctx context.Context, user string, limit int) ([]history.Entry, error) {
	store, ok := s.history.(history.Store)
	if !ok {
		return nil, ErrHistoryUnavailable
	}
	entries, err := store.List(ctx, user, limit)
	if err != nil {
		s.log.Warn("history list failed", Fields{"user": util.Redact(user), "err": err})
		s.hooks.HistoryReadFailed(user, err)
		return entries, &HistoryError{Op: "list", User: user, Err: err}
	}
	return entries, nil
}

func (s *service) Catalog() []CatalogItem {
	ms := cipher.Methods()
	out := make([]CatalogItem, len(ms))
	for i, m := range ms {
		out[i] = CatalogItem{Method: m, ID: m.String(), Label: m.Label()}
	}
	return out
}

func (s *service) Close(ctx context.Context) error {
	if c, ok := s.history.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}

// params fills unset request options from the service defaults.
func (s *service) params(p cipher.Params) cipher.Params {
	if p.Shift.IsAbsent() {
		p.Shift = s.defaults.Shift
	}
	if p.Keyword.IsAbsent() {
		p.Keyword = s.defaults.Keyword
	}
	if p.Rand == nil {
		p.Rand = s.defaults.Rand
	}
	return p
}

func (s *service) reportCipherError(req Request, err error) {
	var de *cipher.DecodeError
	if errors.As(err, &de) {
		s.log.Warn("decode failed", Fields{
			"method": de.Method.String(),
			"reason": de.Reason(),
			"len":    len(req.Text),
		})
		s.hooks.DecodeFailed(de.Method.String(), de.Reason())
		return
	}
	s.log.Debug("call rejected", Fields{
		"method":    req.Method.String(),
		"direction": req.Direction.String(),
		"err":       err,
	})
}

func coalesce[T any](v, def T) T {
	if any(v) == nil {
		return def
	}
	return v
}
