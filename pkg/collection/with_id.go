package collection

import (
	"fmt"
	"iter"

	"github.com/jinzhu/copier"
)

type Identifier interface {
	GetID() string
}

type DuplicateIDError struct {
	Collection string
	ID         string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("identifier %q already exists in %s", e.ID, e.Collection)
}

// CollectionWithID stores records that are unique by identifier.
// Pointers returned by Get and Index stay valid until the next Push or rebuild
// and must not be used to change the record identifier.
type CollectionWithID[T Identifier] struct {
	name  string
	items []T
	ids   map[string]Idx[T]
}

func NewCollectionWithID[T Identifier](name string, items ...T) (*CollectionWithID[T], error) {
	c := &CollectionWithID[T]{
		name: name,
		ids:  map[string]Idx[T]{},
	}

	for _, item := range items {
		if _, err := c.Push(item); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *CollectionWithID[T]) Name() string {
	return c.name
}

func (c *CollectionWithID[T]) Len() int {
	return len(c.items)
}

func (c *CollectionWithID[T]) Push(item T) (Idx[T], error) {
	id := item.GetID()
	if _, exists := c.ids[id]; exists {
		return 0, &DuplicateIDError{Collection: c.name, ID: id}
	}
	if c.ids == nil {
		c.ids = map[string]Idx[T]{}
	}

	c.items = append(c.items, item)
	idx := Idx[T](len(c.items) - 1)
	c.ids[id] = idx

	return idx, nil
}

func (c *CollectionWithID[T]) Get(id string) *T {
	idx, ok := c.ids[id]
	if !ok {
		return nil
	}
	return &c.items[idx]
}

func (c *CollectionWithID[T]) GetIdx(id string) (Idx[T], bool) {
	idx, ok := c.ids[id]
	return idx, ok
}

func (c *CollectionWithID[T]) ContainsID(id string) bool {
	_, ok := c.ids[id]
	return ok
}

// Index panics when idx does not belong to the current generation.
func (c *CollectionWithID[T]) Index(idx Idx[T]) *T {
	return &c.items[idx]
}

func (c *CollectionWithID[T]) All() iter.Seq2[Idx[T], *T] {
	return func(yield func(Idx[T], *T) bool) {
		for i := range c.items {
			if !yield(Idx[T](i), &c.items[i]) {
				return
			}
		}
	}
}

func (c *CollectionWithID[T]) Values() []T {
	return c.items
}

func (c *CollectionWithID[T]) IDs() []string {
	ids := make([]string, 0, len(c.items))
	for _, item := range c.items {
		ids = append(ids, item.GetID())
	}
	return ids
}

// Take hands the records over to the caller and empties the collection.
func (c *CollectionWithID[T]) Take() []T {
	items := c.items
	c.items = nil
	c.ids = map[string]Idx[T]{}

	if items == nil {
		return []T{}
	}
	return items
}

// Retain rebuilds the collection with the records matching keep.
// Every previously issued handle must be passed through the returned translation.
func (c *CollectionWithID[T]) Retain(keep func(*T) bool) Translation[T] {
	translation := Translation[T]{}
	kept := make([]T, 0, len(c.items))
	ids := make(map[string]Idx[T], len(c.items))

	for i := range c.items {
		if !keep(&c.items[i]) {
			continue
		}

		idx := Idx[T](len(kept))
		translation[Idx[T](i)] = idx
		ids[c.items[i].GetID()] = idx
		kept = append(kept, c.items[i])
	}

	c.items = kept
	c.ids = ids

	return translation
}

// Collisions lists, in order, the identifiers of other already present in c.
func (c *CollectionWithID[T]) Collisions(other *CollectionWithID[T]) []string {
	var collisions []string
	for _, item := range other.items {
		if c.ContainsID(item.GetID()) {
			collisions = append(collisions, item.GetID())
		}
	}
	return collisions
}

// TryMerge moves every record of other into c. Nothing is inserted when one
// identifier already exists.
func (c *CollectionWithID[T]) TryMerge(other *CollectionWithID[T]) error {
	if collisions := c.Collisions(other); len(collisions) > 0 {
		return &DuplicateIDError{Collection: c.name, ID: collisions[0]}
	}

	for _, item := range other.Take() {
		if _, err := c.Push(item); err != nil {
			return err
		}
	}

	return nil
}

// Unify moves every record of other into c, fusing records sharing an
// identifier into the existing one.
func (c *CollectionWithID[T]) Unify(other *CollectionWithID[T], fuse func(existing *T, incoming T)) {
	for _, item := range other.Take() {
		if existing := c.Get(item.GetID()); existing != nil {
			fuse(existing, item)
			continue
		}

		// cannot collide, checked above
		_, _ = c.Push(item)
	}
}

func (c *CollectionWithID[T]) Clone() (*CollectionWithID[T], error) {
	clone := &CollectionWithID[T]{
		name: c.name,
		ids:  make(map[string]Idx[T], len(c.ids)),
	}
	if len(c.items) == 0 {
		return clone, nil
	}

	if err := copier.CopyWithOption(&clone.items, c.items, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("cloning %s: %w", c.name, err)
	}
	for id, idx := range c.ids {
		clone.ids[id] = idx
	}

	return clone, nil
}

// IDTable captures the identifier behind every handle of the current generation.
func (c *CollectionWithID[T]) IDTable() IDTable[T] {
	table := make(IDTable[T], len(c.items))
	for i, item := range c.items {
		table[Idx[T](i)] = item.GetID()
	}
	return table
}

// IDTable resolves handles of a discarded generation through their identifier.
type IDTable[T Identifier] map[Idx[T]]string

func (t IDTable[T]) Resolve(old Idx[T], into *CollectionWithID[T]) (Idx[T], bool) {
	id, ok := t[old]
	if !ok {
		return 0, false
	}
	return into.GetIdx(id)
}
