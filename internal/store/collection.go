// Package store provides the ordered, deduplicated entity collection that
// every reconciliation component keeps its records in. Collections are
// values: every mutating operation returns a new collection backed by fresh
// slices, so observers holding an earlier snapshot never see it change and
// can detect updates by comparing versions.
package store

// Placement selects where an absent record is inserted by Upsert.
type Placement int

const (
	// Front inserts new records at the head ("newest first" semantics).
	Front Placement = iota
	// Back appends new records at the tail (scroll-stable pagination).
	Back
)

// Collection is an ordered sequence of records keyed by a unique identifier.
// No two records ever share an identifier: upserting an existing key updates
// the record in place instead of duplicating it. The zero Collection is not
// usable; construct with New.
type Collection[K comparable, T any] struct {
	key     func(T) K
	items   []T
	index   map[K]int
	version uint64
}

// New returns an empty collection whose records are keyed by the given
// function.
func New[K comparable, T any](key func(T) K) Collection[K, T] {
	return Collection[K, T]{
		key:   key,
		index: map[K]int{},
	}
}

// Len returns the number of records.
func (c Collection[K, T]) Len() int { return len(c.items) }

// Version increases by one on every mutation that actually changed the
// collection. Equal versions of the same lineage mean equal contents.
func (c Collection[K, T]) Version() uint64 { return c.version }

// Items returns the records in order. The returned slice is shared with the
// collection snapshot and must not be modified by the caller.
func (c Collection[K, T]) Items() []T { return c.items }

// Get returns the record stored under k, if any.
func (c Collection[K, T]) Get(k K) (T, bool) {
	if i, ok := c.index[k]; ok {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Contains reports whether a record is stored under k.
func (c Collection[K, T]) Contains(k K) bool {
	_, ok := c.index[k]
	return ok
}

// Count returns the number of records matching the predicate.
func (c Collection[K, T]) Count(pred func(T) bool) int {
	n := 0
	for _, it := range c.items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Upsert inserts item at the given placement if its key is absent, or
// replaces the stored record in place (keeping its position) if present.
func (c Collection[K, T]) Upsert(item T, at Placement) Collection[K, T] {
	k := c.key(item)
	if i, ok := c.index[k]; ok {
		next := c.cloneItems()
		next[i] = item
		return c.with(next, c.index)
	}
	var next []T
	if at == Front {
		next = make([]T, 0, len(c.items)+1)
		next = append(next, item)
		next = append(next, c.items...)
	} else {
		next = make([]T, len(c.items), len(c.items)+1)
		copy(next, c.items)
		next = append(next, item)
	}
	return c.with(next, nil)
}

// UpsertMerge behaves like Upsert but, when the key already exists, stores
// merge(stored, item) instead of item — so partial updates can preserve
// fields the caller did not supply.
func (c Collection[K, T]) UpsertMerge(item T, at Placement, merge func(stored, incoming T) T) Collection[K, T] {
	k := c.key(item)
	if i, ok := c.index[k]; ok {
		next := c.cloneItems()
		next[i] = merge(c.items[i], item)
		return c.with(next, c.index)
	}
	return c.Upsert(item, at)
}

// Patch applies fn to the record stored under k. Absence is a benign no-op.
func (c Collection[K, T]) Patch(k K, fn func(T) T) Collection[K, T] {
	i, ok := c.index[k]
	if !ok {
		return c
	}
	next := c.cloneItems()
	next[i] = fn(c.items[i])
	return c.with(next, c.index)
}

// Remove deletes the record stored under k. Absence is a benign no-op,
// never an error.
func (c Collection[K, T]) Remove(k K) Collection[K, T] {
	i, ok := c.index[k]
	if !ok {
		return c
	}
	next := make([]T, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	return c.with(next, nil)
}

// RemoveWhere deletes every record matching the predicate. Used for
// cascades. Matching nothing is a no-op that returns the collection
// unchanged.
func (c Collection[K, T]) RemoveWhere(pred func(T) bool) Collection[K, T] {
	next := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if !pred(it) {
			next = append(next, it)
		}
	}
	if len(next) == len(c.items) {
		return c
	}
	return c.with(next, nil)
}

// MoveToFront moves the record stored under k to the head, preserving the
// relative order of everything else. Absence is a no-op.
func (c Collection[K, T]) MoveToFront(k K) Collection[K, T] {
	i, ok := c.index[k]
	if !ok || i == 0 {
		return c
	}
	next := make([]T, 0, len(c.items))
	next = append(next, c.items[i])
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	return c.with(next, nil)
}

// Replace swaps the entire contents for items, dropping any record whose key
// duplicates an earlier one. Used by refresh-style merges.
func (c Collection[K, T]) Replace(items []T) Collection[K, T] {
	next := make([]T, 0, len(items))
	seen := make(map[K]struct{}, len(items))
	for _, it := range items {
		k := c.key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		next = append(next, it)
	}
	return c.with(next, nil)
}

// Append adds the items whose keys are not already present, in their given
// order, at the tail. Already-present keys are skipped entirely — the stored
// record wins, preserving scroll stability.
func (c Collection[K, T]) Append(items []T) Collection[K, T] {
	fresh := make([]T, 0, len(items))
	seen := make(map[K]struct{}, len(items))
	for _, it := range items {
		k := c.key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		if _, ok := c.index[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, it)
	}
	if len(fresh) == 0 {
		return c
	}
	next := make([]T, len(c.items), len(c.items)+len(fresh))
	copy(next, c.items)
	next = append(next, fresh...)
	return c.with(next, nil)
}

func (c Collection[K, T]) cloneItems() []T {
	next := make([]T, len(c.items))
	copy(next, c.items)
	return next
}

// with builds the successor collection. When the key→position mapping is
// unchanged the existing index may be passed through; otherwise it is
// rebuilt.
func (c Collection[K, T]) with(items []T, index map[K]int) Collection[K, T] {
	if index == nil {
		index = make(map[K]int, len(items))
		for i, it := range items {
			index[c.key(it)] = i
		}
	}
	return Collection[K, T]{
		key:     c.key,
		items:   items,
		index:   index,
		version: c.version + 1,
	}
}
