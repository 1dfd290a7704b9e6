package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetClear(t *testing.T) {
	ctx := context.Background()
	c := New(time.Minute)

	_, ok, err := c.Get(ctx, "products:page:0")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "products:page:0", []byte("a")))
	require.NoError(t, c.Set(ctx, "products:id:1", []byte("b")))

	v, ok, err := c.Get(ctx, "products:page:0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), v)

	require.NoError(t, c.Clear(ctx))
	assert.Zero(t, c.Len())

	_, ok, _ = c.Get(ctx, "products:id:1")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	c := New(time.Second)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v")))

	c.now = func() time.Time { return now.Add(2 * time.Second) }

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestNew_DefaultTTL(t *testing.T) {
	c := New(0)
	assert.Equal(t, 5*time.Minute, c.ttl)
}
