package guild

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when a list would hold two items with the same key.
var ErrDuplicateKey = errors.New("duplicate key")

// Keyed is implemented by every item stored in a List.
type Keyed[K comparable] interface {
	Key() K
}

// List is an insertion ordered collection whose items have unique keys.
// The zero value is an empty list ready to use.
type List[K comparable, T Keyed[K]] struct {
	items []T
	index map[K]int
}

// NewList builds a list from items, failing on the first duplicate key.
func NewList[K comparable, T Keyed[K]](items ...T) (*List[K, T], error) {
	l := &List[K, T]{}
	for _, item := range items {
		if err := l.Add(item); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add appends item, failing if its key is already present.
func (l *List[K, T]) Add(item T) error {
	key := item.Key()
	if _, ok := l.index[key]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	if l.index == nil {
		l.index = make(map[K]int)
	}
	l.index[key] = len(l.items)
	l.items = append(l.items, item)
	return nil
}

// AddOrReplace stores item, replacing in place any item with the same key.
func (l *List[K, T]) AddOrReplace(item T) {
	if i, ok := l.index[item.Key()]; ok {
		l.items[i] = item
		return
	}
	_ = l.Add(item)
}

// Remove deletes the item with the given key and reports whether it existed.
func (l *List[K, T]) Remove(key K) bool {
	i, ok := l.index[key]
	if !ok {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	delete(l.index, key)
	for k, j := range l.index {
		if j > i {
			l.index[k] = j - 1
		}
	}
	return true
}

// Find returns the item stored under key.
func (l *List[K, T]) Find(key K) (T, bool) {
	if l == nil {
		var zero T
		return zero, false
	}
	i, ok := l.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Items returns a copy of the items in insertion order.
func (l *List[K, T]) Items() []T {
	if l == nil {
		return nil
	}
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of items.
func (l *List[K, T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Pair holds two items sharing the same key.
type Pair[A, B any] struct {
	Self  A
	Other B
}

// Comparison is the result of matching two lists by key.
type Comparison[A, B any] struct {
	ExtraSelf  []A
	ExtraOther []B
	Same       []Pair[A, B]
}

// Compare matches self against other by key. ExtraSelf and Same follow the
// order of self, ExtraOther follows the order of other.
func Compare[K comparable, A Keyed[K], B Keyed[K]](self *List[K, A], other *List[K, B]) Comparison[A, B] {
	var c Comparison[A, B]
	for _, s := range self.Items() {
		if o, ok := other.Find(s.Key()); ok {
			c.Same = append(c.Same, Pair[A, B]{Self: s, Other: o})
		} else {
			c.ExtraSelf = append(c.ExtraSelf, s)
		}
	}
	for _, o := range other.Items() {
		if _, ok := self.Find(o.Key()); !ok {
			c.ExtraOther = append(c.ExtraOther, o)
		}
	}
	return c
}
