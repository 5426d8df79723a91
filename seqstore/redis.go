package seqstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/crypter/internal/util"
)

// Redis shares counters across processes and survives restarts. Counter
// keys never expire: an expired counter would restart at 1 and overwrite
// live records.
type Redis struct {
	rdb         redis.UniversalClient
	ns          string
	closeClient bool
}

var _ SeqStore = (*Redis)(nil)

// NewRedis creates a Redis-backed counter store. namespace should match the
// history namespace. Close leaves the client open.
func NewRedis(client redis.UniversalClient, namespace string) *Redis {
	return &Redis{rdb: client, ns: namespace}
}

// NewRedisOwned is NewRedis but Close also closes the client.
func NewRedisOwned(client redis.UniversalClient, namespace string) *Redis {
	return &Redis{rdb: client, ns: namespace, closeClient: true}
}

func (s *Redis) key(k string) string { return util.CounterKey(s.ns, k) }

func (s *Redis) Current(ctx context.Context, k string) (uint64, error) {
	res, err := s.rdb.Get(ctx, s.key(k)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis seq parse: %w", err)
	}
	return n, nil
}

func (s *Redis) Next(ctx context.Context, k string) (uint64, error) {
	v, err := s.rdb.Incr(ctx, s.key(k)).Result()
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

func (s *Redis) Close(context.Context) error {
	if !s.closeClient {
		return nil
	}
	if err := s.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
