package value

import "bytes"

// List is a mutable, ordered sequence. Children are referenced by
// positional pointer edges in ascending index order (spec.md section 4.3).
type List struct {
	Items []Value
}

func (*List) Kind() Kind { return KindList }

// NewList builds a *List from items.
func NewList(items ...Value) *List {
	return &List{Items: items}
}

// Tuple is an immutable, ordered sequence. Unlike Bytes/scalars, tuple
// identity is preserved across encode/decode (two references to the same
// tuple must stay shared), so it is a pointer type.
type Tuple struct {
	Items []Value
}

func (*Tuple) Kind() Kind { return KindTuple }

// NewTuple builds a *Tuple from items.
func NewTuple(items ...Value) *Tuple {
	return &Tuple{Items: items}
}

// Set is a mutable, unordered collection. Element order is not
// semantically meaningful; encode/decode preserve first-seen order only
// as an implementation detail (spec.md's open question: no canonical
// hash-sort is applied).
type Set struct {
	Items []Value
}

func (*Set) Kind() Kind { return KindSet }

// NewSet builds a *Set from items, in first-seen order.
func NewSet(items ...Value) *Set {
	return &Set{Items: items}
}

// FrozenSet is an immutable, unordered collection with preserved identity.
type FrozenSet struct {
	Items []Value
}

func (*FrozenSet) Kind() Kind { return KindFrozenSet }

// NewFrozenSet builds a *FrozenSet from items.
func NewFrozenSet(items ...Value) *FrozenSet {
	return &FrozenSet{Items: items}
}

// MapEntry is one (key, value) pair of a Map, in encounter order.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is a mapping that preserves encoder insertion order (not
// semantically required by spec.md, but preserved as the current
// behavior). Keys may be any Value, including containers or aggregates.
type Map struct {
	Entries []MapEntry
}

func (*Map) Kind() Kind { return KindMap }

// NewMap builds a *Map from the given entries, preserving their order.
func NewMap(entries ...MapEntry) *Map {
	return &Map{Entries: entries}
}

// Get performs an equality-based lookup. Equality for composite keys is
// left to the caller's Value implementations: a key type implementing
// Equaler is compared with Equal; Int keys compare by numeric value, Bytes
// keys byte-wise, and every other key with Go's ==, matching how a
// dynamically-typed host runtime would resolve key equality without a
// common comparable constraint.
func (m *Map) Get(key Value) (Value, bool) {
	for _, e := range m.Entries {
		if valuesEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Set inserts or updates key, preserving first-insertion position.
func (m *Map) Set(key, val Value) {
	for i, e := range m.Entries {
		if valuesEqual(e.Key, key) {
			m.Entries[i].Value = val
			return
		}
	}
	m.Entries = append(m.Entries, MapEntry{Key: key, Value: val})
}

// Equaler may be implemented by Value kinds with a custom equality notion.
// None of this package's kinds implement it, so containers and aggregates
// compare by pointer identity.
type Equaler interface {
	Equal(other Value) bool
}

func valuesEqual(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return x.V.Cmp(y.V) == 0
		}
		return false
	case Bytes:
		if y, ok := b.(Bytes); ok {
			return bytes.Equal(x, y)
		}
		return false
	}
	return a == b
}
