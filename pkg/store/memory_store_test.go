package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissingPathIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	snap, err := s.Get(context.Background(), "products")
	require.NoError(t, err)
	assert.False(t, snap.Exists())
	assert.Equal(t, "products", snap.Key)
}

func TestMemoryStore_SetThenGetLeaf(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "date/2026-10-17/u1", Fields{"user_id": "u1", "kcal": "150"}))

	snap, err := s.Get(ctx, "date/2026-10-17/u1")
	require.NoError(t, err)
	assert.Equal(t, Fields{"user_id": "u1", "kcal": "150"}, snap.Fields)
	assert.Empty(t, snap.Children)
}

func TestMemoryStore_GetBuildsSortedSubtree(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "date/2026-10-18/u2", Fields{"kcal": "20"}))
	require.NoError(t, s.Set(ctx, "date/2026-10-17/u1", Fields{"kcal": "10"}))
	require.NoError(t, s.Set(ctx, "date/2026-10-17/u2", Fields{"kcal": "30"}))
	require.NoError(t, s.Set(ctx, "products/p1", Fields{"name": "chips"}))

	snap, err := s.Get(ctx, "date")
	require.NoError(t, err)
	require.Len(t, snap.Children, 2)
	assert.Equal(t, "2026-10-17", snap.Children[0].Key)
	assert.Equal(t, "2026-10-18", snap.Children[1].Key)
	require.Len(t, snap.Children[0].Children, 2)
	assert.Equal(t, "u1", snap.Children[0].Children[0].Key)
	assert.Equal(t, "30", snap.Child("2026-10-17").Child("u2").Fields["kcal"])
	assert.Nil(t, snap.Child("products"))
}

func TestMemoryStore_SetReplacesSubtree(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "a/b/c", Fields{"x": "1"}))
	require.NoError(t, s.Set(ctx, "a/b", Fields{"y": "2"}))

	snap, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, Fields{"y": "2"}, snap.Children[0].Fields)
	assert.Empty(t, snap.Children[0].Children)

	require.NoError(t, s.Set(ctx, "a/b/d", Fields{"z": "3"}))
	snap, err = s.Get(ctx, "a/b")
	require.NoError(t, err)
	assert.Empty(t, snap.Fields)
	assert.Equal(t, Fields{"z": "3"}, snap.Child("d").Fields)
}

func TestMemoryStore_SetEmptyDeletes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "user_eat/e1", Fields{"name": "gum"}))
	require.NoError(t, s.Set(ctx, "user_eat/e1", nil))

	snap, err := s.Get(ctx, "user_eat")
	require.NoError(t, err)
	assert.False(t, snap.Exists())
}

func TestMemoryStore_ReturnedFieldsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	f := Fields{"kcal": "1"}
	require.NoError(t, s.Set(ctx, "x/y", f))
	f["kcal"] = "2"

	snap, err := s.Get(ctx, "x/y")
	require.NoError(t, err)
	snap.Fields["kcal"] = "3"

	again, err := s.Get(ctx, "x/y")
	require.NoError(t, err)
	assert.Equal(t, "1", again.Fields["kcal"])
}

func TestMemoryStore_PushKeysAreUniqueAndOrdered(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seen := map[string]bool{}
	prev := ""
	for i := 0; i < 100; i++ {
		k, err := s.Push(ctx, "user_eat")
		require.NoError(t, err)
		assert.False(t, seen[k])
		assert.Greater(t, k, prev)
		seen[k] = true
		prev = k
	}
}

func TestCleanPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"products", "products", true},
		{"/date/2026-10-17/", "date/2026-10-17", true},
		{"", "", false},
		{"a//b", "", false},
		{"a/../b", "", false},
		{"a/*", "", false},
		{"a/b%c", "", false},
	}
	for _, tc := range cases {
		got, err := CleanPath(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidPath, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	_, err := s.Get(ctx, "products")
	assert.ErrorIs(t, err, context.Canceled)
}
