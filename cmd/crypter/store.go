package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/crypter/config"
	"github.com/unkn0wn-root/crypter/history"
	"github.com/unkn0wn-root/crypter/provider"
	"github.com/unkn0wn-root/crypter/provider/bigcache"
	"github.com/unkn0wn-root/crypter/provider/memory"
	redisprov "github.com/unkn0wn-root/crypter/provider/redis"
	"github.com/unkn0wn-root/crypter/provider/ristretto"
	"github.com/unkn0wn-root/crypter/seqstore"
)

// openHistory builds the store selected by c.Backend. It returns nil for
// backend "none".
func openHistory(ctx context.Context, c config.HistoryConfig, onHeal func(key, reason string)) (history.Store, error) {
	var (
		p   provider.Provider
		seq seqstore.SeqStore
		err error
	)
	switch c.Backend {
	case "none":
		return nil, nil
	case "memory":
		p = memory.New(nil)
	case "ristretto":
		p, err = ristretto.New(ristretto.Config{
			NumCounters: c.Ristretto.NumCounters,
			MaxCost:     c.Ristretto.MaxCost,
			BufferItems: 64,
			SyncWrites:  true,
		})
	case "bigcache":
		// MaxEntrySize is a shard pre-sizing hint, not a record limit; the
		// bigcache default stays. MaxEntryBytes is enforced by history.Limit.
		p, err = bigcache.New(bigcache.Config{
			LifeWindow:         c.BigCache.LifeWindow,
			MaxEntriesInWindow: c.BigCache.MaxEntriesInWindow,
			HardMaxCacheSizeMB: c.BigCache.HardMaxCacheSizeMB,
		})
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     c.Redis.Addr,
			DB:       c.Redis.DB,
			Password: c.Redis.Password,
		})
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis %s: %w", c.Redis.Addr, err)
		}
		// the provider owns the client; KV closes the sequence store first
		seq = seqstore.NewRedis(rdb, c.Namespace)
		p, err = redisprov.New(redisprov.Config{Client: rdb, CloseClient: true})
	default:
		return nil, fmt.Errorf("unknown history backend %q", c.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("history backend %s: %w", c.Backend, err)
	}

	codec, err := history.CodecByName(c.Codec)
	if err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	if c.MaxEntryBytes > 0 {
		codec = history.Limit{Inner: codec, Max: c.MaxEntryBytes}
	}

	store, err := history.NewKV(history.Options{
		Namespace:  c.Namespace,
		Provider:   p,
		Codec:      codec,
		Seq:        seq,
		TTL:        c.TTL,
		MaxScan:    c.MaxScan,
		OnSelfHeal: onHeal,
	})
	if err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	return store, nil
}
