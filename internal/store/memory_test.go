package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Kind      string    `bson:"kind"`
	CreatedAt time.Time `bson:"createdAt"`
}

func TestMemoryStoreCRUD(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	doc := &testDoc{ID: "1", Name: "first", Kind: "a", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Create(ctx, "things", doc))

	t.Run("get", func(t *testing.T) {
		var got testDoc
		require.NoError(t, st.Get(ctx, "things", "1", &got))
		assert.Equal(t, "first", got.Name)
	})

	t.Run("get missing", func(t *testing.T) {
		var got testDoc
		assert.ErrorIs(t, st.Get(ctx, "things", "nope", &got), ErrNotFound)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		assert.Error(t, st.Create(ctx, "things", doc))
	})

	t.Run("missing id rejected", func(t *testing.T) {
		assert.ErrorIs(t, st.Create(ctx, "things", &testDoc{Name: "no id"}), ErrMissingID)
	})

	t.Run("update merges fields", func(t *testing.T) {
		require.NoError(t, st.Update(ctx, "things", "1", map[string]interface{}{"name": "renamed"}))
		var got testDoc
		require.NoError(t, st.Get(ctx, "things", "1", &got))
		assert.Equal(t, "renamed", got.Name)
		assert.Equal(t, "a", got.Kind)
	})

	t.Run("update missing", func(t *testing.T) {
		assert.ErrorIs(t, st.Update(ctx, "things", "nope", map[string]interface{}{"name": "x"}), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Delete(ctx, "things", "1"))
		var got testDoc
		assert.ErrorIs(t, st.Get(ctx, "things", "1", &got), ErrNotFound)
		assert.ErrorIs(t, st.Delete(ctx, "things", "1"), ErrNotFound)
	})
}

func TestMemoryStoreList(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	docs := []*testDoc{
		{ID: "1", Name: "oldest", Kind: "a", CreatedAt: base},
		{ID: "2", Name: "middle", Kind: "b", CreatedAt: base.Add(time.Minute)},
		{ID: "3", Name: "newest", Kind: "a", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, d := range docs {
		require.NoError(t, st.Create(ctx, "things", d))
	}

	t.Run("unfiltered preserves insertion order", func(t *testing.T) {
		var got []testDoc
		require.NoError(t, st.List(ctx, "things", ListOptions{}, &got))
		require.Len(t, got, 3)
		assert.Equal(t, "oldest", got[0].Name)
	})

	t.Run("equality filter", func(t *testing.T) {
		var got []testDoc
		opts := ListOptions{Filter: map[string]interface{}{"kind": "a"}}
		require.NoError(t, st.List(ctx, "things", opts, &got))
		require.Len(t, got, 2)
	})

	t.Run("sort descending", func(t *testing.T) {
		var got []testDoc
		opts := ListOptions{SortField: "createdAt", SortDesc: true}
		require.NoError(t, st.List(ctx, "things", opts, &got))
		require.Len(t, got, 3)
		assert.Equal(t, "newest", got[0].Name)
		assert.Equal(t, "oldest", got[2].Name)
	})

	t.Run("empty collection yields empty slice", func(t *testing.T) {
		var got []testDoc
		require.NoError(t, st.List(ctx, "empty", ListOptions{}, &got))
		assert.Empty(t, got)
	})
}

func TestMemoryStoreCount(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	for _, d := range []*testDoc{
		{ID: "1", Kind: "a"},
		{ID: "2", Kind: "a"},
		{ID: "3", Kind: "b"},
	} {
		require.NoError(t, st.Create(ctx, "things", d))
	}

	total, err := st.Count(ctx, "things", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	byKind, err := st.Count(ctx, "things", map[string]interface{}{"kind": "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byKind)

	none, err := st.Count(ctx, "missing", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), none)
}
