package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryKV_GetSet(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))

	val, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", val)
}

func TestMemoryKV_Incr(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	// Absent key counts as 0 before the increment.
	n, err := kv.Incr(ctx, "counter")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = kv.Incr(ctx, "counter")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	require.NoError(t, kv.Set(ctx, "counter", "0"))
	n, err = kv.Incr(ctx, "counter")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	require.NoError(t, kv.Set(ctx, "bad", "not a number"))
	_, err = kv.Incr(ctx, "bad")
	require.Error(t, err)
}

func TestMemoryKV_ListOps(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.NoError(t, kv.LPush(ctx, "l", "a"))
	require.NoError(t, kv.LPush(ctx, "l", "b"))
	require.NoError(t, kv.LPush(ctx, "l", "c"))

	// Prepend order: most recent first.
	all, err := kv.LRange(ctx, "l", 0, -1)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, all)

	prefix, err := kv.LRange(ctx, "l", 0, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, prefix)

	// Stop beyond the end clamps.
	clamped, err := kv.LRange(ctx, "l", 0, 99)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, clamped)

	empty, err := kv.LRange(ctx, "absent", 0, 9)
	require.NoError(t, err)
	require.Empty(t, empty)

	inverted, err := kv.LRange(ctx, "l", 2, 1)
	require.NoError(t, err)
	require.Empty(t, inverted)
}

func TestMemoryKV_SetOps(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.NoError(t, kv.SAdd(ctx, "s", "1"))
	require.NoError(t, kv.SAdd(ctx, "s", "2"))
	require.NoError(t, kv.SAdd(ctx, "s", "1"))

	members, err := kv.SMembers(ctx, "s")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"1", "2"}, members)

	none, err := kv.SMembers(ctx, "absent")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMemoryKV_FlushAll(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.NoError(t, kv.Set(ctx, "k", "v"))
	require.NoError(t, kv.LPush(ctx, "l", "a"))
	require.NoError(t, kv.SAdd(ctx, "s", "m"))

	require.NoError(t, kv.FlushAll(ctx))

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	list, err := kv.LRange(ctx, "l", 0, -1)
	require.NoError(t, err)
	require.Empty(t, list)

	members, err := kv.SMembers(ctx, "s")
	require.NoError(t, err)
	require.Empty(t, members)
}
