package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		KindNull:       "null",
		KindBool:       "bool",
		KindInt:        "int",
		KindFloat:      "float",
		KindString:     "string",
		KindBytes:      "bytes",
		KindByteArray:  "bytearray",
		KindBufferView: "bufferview",
		KindList:       "list",
		KindTuple:      "tuple",
		KindSet:        "set",
		KindFrozenSet:  "frozenset",
		KindMap:        "map",
		KindAggregate:  "aggregate",
		KindCode:       "code",
		KindCallable:   "callable",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestMapGetSetPreservesOrder(t *testing.T) {
	assert := assert.New(t)
	m := NewMap()
	m.Set(String("a"), NewInt(1))
	m.Set(String("b"), NewInt(2))
	m.Set(String("a"), NewInt(3)) // update, not append

	assert.Len(m.Entries, 2)
	v, ok := m.Get(String("a"))
	assert.True(ok)
	assert.Equal(int64(3), v.(Int).V.Int64())

	_, ok = m.Get(String("missing"))
	assert.False(ok)
}

func TestListTupleSetIdentityIsPointerBased(t *testing.T) {
	assert := assert.New(t)
	l1 := NewList(Bool(true))
	l2 := l1
	assert.True(l1 == l2)

	l3 := NewList(Bool(true))
	assert.False(l1 == l3)

	t1 := NewTuple(Bool(true))
	t2 := t1
	assert.True(t1 == t2)
	assert.False(t1 == NewTuple(Bool(true)))

	s1 := NewSet(Bool(true))
	s2 := s1
	assert.True(s1 == s2)
	assert.False(s1 == NewSet(Bool(true)))
}

func TestByteArrayAndBufferView(t *testing.T) {
	assert := assert.New(t)
	ba := NewByteArray([]byte{1, 2, 3})
	assert.Equal(KindByteArray, ba.Kind())

	bv := NewBufferView([]byte{1, 2, 3, 4}, []int{2, 2}, []int{2, 1})
	assert.Equal(KindBufferView, bv.Kind())
	assert.Equal([]int{2, 2}, bv.Shape)
}
