package collection

import (
	"iter"

	"github.com/jinzhu/copier"
)

// Idx is a positional handle into one generation of a collection.
// It is invalidated whenever the collection is rebuilt by Retain or Take.
type Idx[T any] int

// Translation maps handles of a rebuilt collection to their new position.
// Handles of dropped records are absent.
type Translation[T any] map[Idx[T]]Idx[T]

func (t Translation[T]) Apply(old Idx[T]) (Idx[T], bool) {
	idx, ok := t[old]
	return idx, ok
}

// Collection is an ordered store of records without identity.
type Collection[T any] struct {
	items []T
}

func NewCollection[T any](items []T) *Collection[T] {
	return &Collection[T]{items: items}
}

func (c *Collection[T]) Push(item T) Idx[T] {
	c.items = append(c.items, item)
	return Idx[T](len(c.items) - 1)
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Index panics when idx does not belong to the current generation.
func (c *Collection[T]) Index(idx Idx[T]) *T {
	return &c.items[idx]
}

func (c *Collection[T]) All() iter.Seq2[Idx[T], *T] {
	return func(yield func(Idx[T], *T) bool) {
		for i := range c.items {
			if !yield(Idx[T](i), &c.items[i]) {
				return
			}
		}
	}
}

func (c *Collection[T]) Values() []T {
	return c.items
}

func (c *Collection[T]) Take() []T {
	items := c.items
	c.items = nil

	if items == nil {
		return []T{}
	}
	return items
}

// Merge appends every record of other. other is left empty.
func (c *Collection[T]) Merge(other *Collection[T]) {
	c.items = append(c.items, other.Take()...)
}

func (c *Collection[T]) Retain(keep func(*T) bool) Translation[T] {
	translation := Translation[T]{}
	kept := c.items[:0]

	for i := range c.items {
		if keep(&c.items[i]) {
			translation[Idx[T](i)] = Idx[T](len(kept))
			kept = append(kept, c.items[i])
		}
	}

	var zero T
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = zero
	}
	c.items = kept

	return translation
}

func (c *Collection[T]) Clone() (*Collection[T], error) {
	if len(c.items) == 0 {
		return &Collection[T]{}, nil
	}

	var items []T
	if err := copier.CopyWithOption(&items, c.items, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}

	return &Collection[T]{items: items}, nil
}
