package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/crypter/internal/util"
	"github.com/unkn0wn-root/crypter/internal/wire"
	"github.com/unkn0wn-root/crypter/provider/memory"
	"github.com/unkn0wn-root/crypter/seqstore"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type heal struct{ key, reason string }

type fixture struct {
	store *KV
	mem   *memory.Provider
	heals []heal
	now   time.Time
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	f := &fixture{now: t0}
	f.mem = memory.New(func() time.Time { return f.now })
	ids := 0
	opts := Options{
		Namespace:  "test",
		Provider:   f.mem,
		OnSelfHeal: func(k, r string) { f.heals = append(f.heals, heal{k, r}) },
		Now:        func() time.Time { return f.now },
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := NewKV(opts)
	require.NoError(t, err)
	f.store = s
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return f
}

func entry(user, in, out string, decrypt bool) Entry {
	return Entry{User: user, Method: "shift", Input: in, Output: out, Decrypt: decrypt}
}

func TestNewKVValidates(t *testing.T) {
	_, err := NewKV(Options{Namespace: "x"})
	assert.Error(t, err)
	_, err = NewKV(Options{Provider: memory.New(nil)})
	assert.Error(t, err)
}

func TestRecordFillsIDTimeAndSeq(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	got, err := f.store.Record(ctx, entry("ada", "abc", "def", false))
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, uint64(1), got.Seq)
	assert.True(t, got.CreatedAt.Equal(t0))

	got, err = f.store.Record(ctx, entry("ada", "def", "abc", true))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Seq)

	assert.Equal(t, []string{
		util.RecordKey("test", "ada", 1),
		util.RecordKey("test", "ada", 2),
	}, f.mem.Keys())
}

func TestRecordRequiresUser(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.store.Record(context.Background(), entry("", "a", "b", false))
	assert.ErrorIs(t, err, ErrNoUser)
	assert.Equal(t, 0, f.mem.Len())
}

func TestListNewestFirstWithLimit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.now = t0.Add(time.Duration(i) * time.Minute)
		_, err := f.store.Record(ctx, entry("ada", fmt.Sprint(i), "x", false))
		require.NoError(t, err)
	}
	_, err := f.store.Record(ctx, entry("bob", "other", "x", false))
	require.NoError(t, err)

	all, err := f.store.List(ctx, "ada", 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, e := range all {
		assert.Equal(t, fmt.Sprint(4-i), e.Input)
		assert.Equal(t, uint64(5-i), e.Seq)
		assert.Equal(t, "ada", e.User)
	}

	two, err := f.store.List(ctx, "ada", 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "4", two[0].Input)
	assert.Equal(t, "3", two[1].Input)

	none, err := f.store.List(ctx, "carol", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListSkipsExpired(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.TTL = time.Hour })
	ctx := context.Background()

	_, err := f.store.Record(ctx, entry("ada", "old", "x", false))
	require.NoError(t, err)
	f.now = t0.Add(50 * time.Minute)
	_, err = f.store.Record(ctx, entry("ada", "new", "x", false))
	require.NoError(t, err)

	f.now = t0.Add(90 * time.Minute)
	got, err := f.store.List(ctx, "ada", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Input)
	assert.Empty(t, f.heals)
}

func TestListSelfHealsCorruptRecords(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.store.Record(ctx, entry("ada", fmt.Sprint(i), "x", false))
		require.NoError(t, err)
	}
	k1 := util.RecordKey("test", "ada", 1)
	k2 := util.RecordKey("test", "ada", 2)
	k3 := util.RecordKey("test", "ada", 3)
	k4 := util.RecordKey("test", "ada", 4)

	_, _ = f.mem.Set(ctx, k1, []byte("foreign value"), 0, 0)
	_, _ = f.mem.Set(ctx, k2, wire.EncodeRecord(99, 2, []byte("{}")), 0, 0)
	_, _ = f.mem.Set(ctx, k3, wire.EncodeRecord(tagJSON, 3, []byte("{not json")), 0, 0)
	_, _ = f.mem.Set(ctx, k4, wire.EncodeRecord(tagJSON, 7, []byte(`{"user":"ada"}`)), 0, 0)

	got, err := f.store.List(ctx, "ada", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.ElementsMatch(t, []heal{
		{k1, HealCorrupt},
		{k2, HealCodec},
		{k3, HealDecode},
		{k4, HealMismatch},
	}, f.heals)
	assert.Equal(t, 0, f.mem.Len())
}

func TestListReadsRecordsOfOtherBuiltInCodecs(t *testing.T) {
	ctx := context.Background()
	mem := memory.New(nil)
	seq := seqstore.NewLocal()

	writer, err := NewKV(Options{Namespace: "n", Provider: mem, Seq: seq, Codec: Msgpack{}})
	require.NoError(t, err)
	_, err = writer.Record(ctx, Entry{User: "ada", Method: "rot13", Input: "a", Output: "n", CreatedAt: t0})
	require.NoError(t, err)

	reader, err := NewKV(Options{Namespace: "n", Provider: mem, Seq: seq, Codec: JSON{}})
	require.NoError(t, err)
	got, err := reader.List(ctx, "ada", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n", got[0].Output)
}

func TestListHonoursMaxScan(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.MaxScan = 3 })
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.store.Record(ctx, entry("ada", fmt.Sprint(i), "x", false))
		require.NoError(t, err)
	}
	got, err := f.store.List(ctx, "ada", 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

type rejectingProvider struct{ *memory.Provider }

func (rejectingProvider) Set(context.Context, string, []byte, int64, time.Duration) (bool, error) {
	return false, nil
}

type failingSeq struct{ seqstore.SeqStore }

func (failingSeq) Next(context.Context, string) (uint64, error) {
	return 0, errors.New("seq down")
}

func TestRecordErrors(t *testing.T) {
	ctx := context.Background()

	s, err := NewKV(Options{Namespace: "n", Provider: rejectingProvider{memory.New(nil)}})
	require.NoError(t, err)
	_, err = s.Record(ctx, entry("ada", "a", "b", false))
	assert.ErrorIs(t, err, ErrRejected)

	s, err = NewKV(Options{Namespace: "n", Provider: memory.New(nil), Seq: failingSeq{seqstore.NewLocal()}})
	require.NoError(t, err)
	_, err = s.Record(ctx, entry("ada", "a", "b", false))
	assert.ErrorContains(t, err, "seq down")

	s, err = NewKV(Options{Namespace: "n", Provider: memory.New(nil), Codec: Limit{Inner: JSON{}, Max: 16}})
	require.NoError(t, err)
	_, err = s.Record(ctx, entry("ada", "a long input that will not fit", "b", false))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestNamespacesWithColonsDoNotAlias(t *testing.T) {
	ctx := context.Background()
	mem := memory.New(nil)

	prod, err := NewKV(Options{Namespace: "crypter:prod", Provider: mem})
	require.NoError(t, err)
	root, err := NewKV(Options{Namespace: "crypter", Provider: mem})
	require.NoError(t, err)

	_, err = prod.Record(ctx, entry("alice", "mine", "x", false))
	require.NoError(t, err)
	_, err = root.Record(ctx, entry("prod:alice", "theirs", "x", false))
	require.NoError(t, err)
	assert.Equal(t, 2, mem.Len())

	got, err := prod.List(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].Input)

	other, err := root.List(ctx, "prod:alice", 0)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "theirs", other[0].Input)
	assert.Equal(t, 2, mem.Len(), "nothing was self-healed away")
}
