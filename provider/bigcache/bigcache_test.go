package bigcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAndMissingDelete(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{LifeWindow: time.Hour, MaxEntriesInWindow: 100, MaxEntrySize: 256})
	require.NoError(t, err)
	defer func() { _ = p.Close(ctx) }()

	_, ok, err := p.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, p.Del(ctx, "missing"))

	ok, err = p.Set(ctx, "hist:n:ada:1", []byte("frame"), 0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	got, ok, err := p.Get(ctx, "hist:n:ada:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "frame", string(got))
}

func TestNewNeedsLifeWindow(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
