package ristretto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncWritesAreVisible(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64, Metrics: true, SyncWrites: true})
	require.NoError(t, err)
	defer func() { _ = p.Close(ctx) }()

	ok, err := p.Set(ctx, "hist:n:ada:1", []byte("frame"), 5, 0)
	require.NoError(t, err)
	require.True(t, ok)

	got, ok, err := p.Get(ctx, "hist:n:ada:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "frame", string(got))
	assert.NotNil(t, p.Metrics())

	require.NoError(t, p.Del(ctx, "hist:n:ada:1"))
	_, ok, _ = p.Get(ctx, "hist:n:ada:1")
	assert.False(t, ok)
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{NumCounters: 10, MaxCost: 10})
	assert.Error(t, err)
}
