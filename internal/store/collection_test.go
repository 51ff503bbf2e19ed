package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string
	Value int
}

func newTestCollection(items ...record) Collection[string, record] {
	c := New(func(r record) string { return r.ID })
	for _, it := range items {
		c = c.Upsert(it, Back)
	}
	return c
}

func ids(c Collection[string, record]) []string {
	out := make([]string, 0, c.Len())
	for _, it := range c.Items() {
		out = append(out, it.ID)
	}
	return out
}

func TestCollectionUpsert(t *testing.T) {
	t.Run("inserts at front", func(t *testing.T) {
		c := newTestCollection(record{ID: "a"})
		c = c.Upsert(record{ID: "b"}, Front)
		assert.Equal(t, []string{"b", "a"}, ids(c))
	})

	t.Run("inserts at back", func(t *testing.T) {
		c := newTestCollection(record{ID: "a"})
		c = c.Upsert(record{ID: "b"}, Back)
		assert.Equal(t, []string{"a", "b"}, ids(c))
	})

	t.Run("existing id updates in place, never duplicates", func(t *testing.T) {
		c := newTestCollection(record{ID: "a", Value: 1}, record{ID: "b", Value: 2})
		c = c.Upsert(record{ID: "b", Value: 9}, Front)

		require.Equal(t, 2, c.Len())
		assert.Equal(t, []string{"a", "b"}, ids(c), "position preserved")
		got, ok := c.Get("b")
		require.True(t, ok)
		assert.Equal(t, 9, got.Value)
	})

	t.Run("merge preserves fields the update omits", func(t *testing.T) {
		c := newTestCollection(record{ID: "a", Value: 7})
		c = c.UpsertMerge(record{ID: "a"}, Front, func(stored, incoming record) record {
			incoming.Value = stored.Value
			return incoming
		})
		got, _ := c.Get("a")
		assert.Equal(t, 7, got.Value)
	})

	t.Run("mutation leaves prior snapshot untouched", func(t *testing.T) {
		before := newTestCollection(record{ID: "a", Value: 1})
		after := before.Upsert(record{ID: "a", Value: 2}, Front)

		got, _ := before.Get("a")
		assert.Equal(t, 1, got.Value)
		got, _ = after.Get("a")
		assert.Equal(t, 2, got.Value)
		assert.NotEqual(t, before.Version(), after.Version())
	})
}

func TestCollectionRemove(t *testing.T) {
	t.Run("removes by id", func(t *testing.T) {
		c := newTestCollection(record{ID: "a"}, record{ID: "b"}, record{ID: "c"})
		c = c.Remove("b")
		assert.Equal(t, []string{"a", "c"}, ids(c))
	})

	t.Run("absent id is a benign no-op", func(t *testing.T) {
		c := newTestCollection(record{ID: "a"})
		v := c.Version()
		c = c.Remove("missing")
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, v, c.Version())
	})

	t.Run("removeWhere deletes all matching", func(t *testing.T) {
		c := newTestCollection(
			record{ID: "a", Value: 1},
			record{ID: "b", Value: 2},
			record{ID: "c", Value: 1},
		)
		c = c.RemoveWhere(func(r record) bool { return r.Value == 1 })
		assert.Equal(t, []string{"b"}, ids(c))
	})

	t.Run("removeWhere matching nothing keeps the snapshot", func(t *testing.T) {
		c := newTestCollection(record{ID: "a"})
		v := c.Version()
		c = c.RemoveWhere(func(record) bool { return false })
		assert.Equal(t, v, c.Version())
	})
}

func TestCollectionMoveToFront(t *testing.T) {
	c := newTestCollection(record{ID: "a"}, record{ID: "b"}, record{ID: "c"})

	t.Run("moves and preserves relative order of the rest", func(t *testing.T) {
		moved := c.MoveToFront("c")
		assert.Equal(t, []string{"c", "a", "b"}, ids(moved))
	})

	t.Run("already front is a no-op", func(t *testing.T) {
		v := c.Version()
		moved := c.MoveToFront("a")
		assert.Equal(t, v, moved.Version())
	})
}

func TestCollectionAppend(t *testing.T) {
	t.Run("skips ids already present", func(t *testing.T) {
		c := newTestCollection(record{ID: "1"}, record{ID: "2"})
		c = c.Append([]record{{ID: "2"}, {ID: "3"}})
		assert.Equal(t, []string{"1", "2", "3"}, ids(c))
	})

	t.Run("stored record wins over appended duplicate", func(t *testing.T) {
		c := newTestCollection(record{ID: "2", Value: 5})
		c = c.Append([]record{{ID: "2", Value: 9}})
		got, _ := c.Get("2")
		assert.Equal(t, 5, got.Value)
	})

	t.Run("all duplicates keeps the snapshot", func(t *testing.T) {
		c := newTestCollection(record{ID: "1"})
		v := c.Version()
		c = c.Append([]record{{ID: "1"}})
		assert.Equal(t, v, c.Version())
	})
}

func TestCollectionReplace(t *testing.T) {
	c := newTestCollection(record{ID: "a"}, record{ID: "b"})
	c = c.Replace([]record{{ID: "x"}, {ID: "y"}, {ID: "x"}})
	assert.Equal(t, []string{"x", "y"}, ids(c), "duplicates within the batch collapse")
}
