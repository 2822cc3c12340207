package collection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	ID   string
	Name string
	Tags map[string]string
}

func (o object) GetID() string {
	return o.ID
}

func newObjects(t *testing.T, ids ...string) *CollectionWithID[object] {
	t.Helper()

	var items []object
	for _, id := range ids {
		items = append(items, object{ID: id, Name: "Object " + id})
	}

	c, err := NewCollectionWithID("objects", items...)
	require.NoError(t, err)

	return c
}

func TestPushRejectsDuplicate(t *testing.T) {
	c := newObjects(t, "a", "b")

	_, err := c.Push(object{ID: "a"})

	var duplicate *DuplicateIDError
	require.True(t, errors.As(err, &duplicate))
	assert.Equal(t, "a", duplicate.ID)
	assert.Equal(t, "objects", duplicate.Collection)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "Object a", c.Get("a").Name)
}

func TestNewCollectionWithIDDuplicate(t *testing.T) {
	_, err := NewCollectionWithID("objects", object{ID: "a"}, object{ID: "a"})
	assert.Error(t, err)
}

func TestLookups(t *testing.T) {
	c := newObjects(t, "a", "b", "c")

	idx, ok := c.GetIdx("b")
	require.True(t, ok)
	assert.Equal(t, "b", c.Index(idx).ID)
	assert.True(t, c.ContainsID("c"))
	assert.False(t, c.ContainsID("z"))
	assert.Nil(t, c.Get("z"))

	var seen []string
	for idx, item := range c.All() {
		assert.Equal(t, item.ID, c.Index(idx).ID)
		seen = append(seen, item.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestRetainTranslation(t *testing.T) {
	c := newObjects(t, "a", "b", "c", "d")
	oldB, _ := c.GetIdx("b")
	oldD, _ := c.GetIdx("d")

	translation := c.Retain(func(o *object) bool { return o.ID != "a" && o.ID != "c" })

	assert.Equal(t, 2, c.Len())
	assert.False(t, c.ContainsID("a"))

	newB, ok := translation.Apply(oldB)
	require.True(t, ok)
	assert.Equal(t, "b", c.Index(newB).ID)

	newD, ok := translation.Apply(oldD)
	require.True(t, ok)
	assert.Equal(t, "d", c.Index(newD).ID)

	_, ok = translation.Apply(Idx[object](0))
	assert.False(t, ok)

	idx, ok := c.GetIdx("d")
	require.True(t, ok)
	assert.Equal(t, newD, idx)
}

func TestTryMergeIsAtomic(t *testing.T) {
	acc := newObjects(t, "a", "b")
	incoming := newObjects(t, "c", "b", "d")

	err := acc.TryMerge(incoming)

	var duplicate *DuplicateIDError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "b", duplicate.ID)
	assert.Equal(t, 2, acc.Len())
	assert.False(t, acc.ContainsID("c"))
	assert.Equal(t, 3, incoming.Len())
}

func TestTryMergeDisjoint(t *testing.T) {
	acc := newObjects(t, "a", "b")
	incoming := newObjects(t, "c", "d")

	require.NoError(t, acc.TryMerge(incoming))
	assert.Equal(t, 4, acc.Len())
	assert.Equal(t, 0, incoming.Len())
	assert.Equal(t, []string{"a", "b", "c", "d"}, acc.IDs())
}

func TestUnify(t *testing.T) {
	acc := newObjects(t, "a", "b")
	acc.Get("b").Name = ""
	incoming, err := NewCollectionWithID("objects",
		object{ID: "a", Name: "Object X"},
		object{ID: "b", Name: "Object 2"},
		object{ID: "c", Name: "Object 3"},
	)
	require.NoError(t, err)

	acc.Unify(incoming, func(existing *object, other object) {
		if existing.Name == "" {
			existing.Name = other.Name
		}
	})

	assert.Equal(t, 3, acc.Len())
	assert.Equal(t, "Object a", acc.Get("a").Name)
	assert.Equal(t, "Object 2", acc.Get("b").Name)
	assert.Equal(t, "Object 3", acc.Get("c").Name)
}

func TestIDTableResolve(t *testing.T) {
	incoming := newObjects(t, "x", "a")
	table := incoming.IDTable()
	oldA, _ := incoming.GetIdx("a")

	acc := newObjects(t, "q", "r")
	require.NoError(t, acc.TryMerge(incoming))

	newA, ok := table.Resolve(oldA, acc)
	require.True(t, ok)
	assert.Equal(t, "a", acc.Index(newA).ID)

	_, ok = table.Resolve(Idx[object](42), acc)
	assert.False(t, ok)
}

func TestTake(t *testing.T) {
	c := newObjects(t, "a")

	items := c.Take()

	assert.Len(t, items, 1)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.ContainsID("a"))
	assert.Empty(t, c.Take())

	_, err := c.Push(object{ID: "a"})
	assert.NoError(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	c, err := NewCollectionWithID("objects", object{ID: "a", Tags: map[string]string{"k": "v"}})
	require.NoError(t, err)

	clone, err := c.Clone()
	require.NoError(t, err)

	clone.Get("a").Tags["k"] = "changed"
	clone.Get("a").Name = "changed"

	assert.Equal(t, "v", c.Get("a").Tags["k"])
	assert.Empty(t, c.Get("a").Name)
	assert.Equal(t, "objects", clone.Name())
}

func TestPlainCollection(t *testing.T) {
	c := NewCollection([]string{"a", "b"})
	other := NewCollection([]string{"b", "c"})

	c.Merge(other)
	assert.Equal(t, []string{"a", "b", "b", "c"}, c.Values())
	assert.Equal(t, 0, other.Len())

	translation := c.Retain(func(s *string) bool { return *s != "b" })
	assert.Equal(t, []string{"a", "c"}, c.Values())
	idx, ok := translation.Apply(Idx[string](3))
	require.True(t, ok)
	assert.Equal(t, "c", *c.Index(idx))
}
