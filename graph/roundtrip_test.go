package graph

import (
	"context"
	"math/big"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rand0mdevel0per/pyser/hash"
	"github.com/rand0mdevel0per/pyser/value"
)

func encodeDecode(t *testing.T, v value.Value, opts Options) value.Value {
	t.Helper()
	doc, err := Encode(context.Background(), v, opts)
	require.NoError(t, err)
	out, err := Decode(context.Background(), doc, opts)
	require.NoError(t, err)
	return out
}

func TestRoundTripScalars(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, value.Null{}, encodeDecode(t, value.Null{}, opts))
	assert.Equal(t, value.Bool(true), encodeDecode(t, value.Bool(true), opts))
	assert.Equal(t, value.Float(3.5), encodeDecode(t, value.Float(3.5), opts))
	assert.Equal(t, value.String("hello"), encodeDecode(t, value.String("hello"), opts))

	back := encodeDecode(t, value.NewInt(-42), opts)
	require.IsType(t, value.Int{}, back)
	assert.Equal(t, int64(-42), back.(value.Int).V.Int64())
}

func TestRoundTripBigInt(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	back := encodeDecode(t, value.NewIntFromBig(huge), DefaultOptions())
	assert.Equal(t, huge.String(), back.(value.Int).V.String())
}

func TestRoundTripBlobs(t *testing.T) {
	opts := DefaultOptions()

	back := encodeDecode(t, value.Bytes("abc"), opts)
	assert.Equal(t, value.Bytes("abc"), back)

	ba := value.NewByteArray([]byte{1, 2, 3})
	backBA := encodeDecode(t, ba, opts)
	assert.Equal(t, ba.Data, backBA.(*value.ByteArray).Data)

	bv := value.NewBufferView([]byte{1, 2, 3, 4}, []int{2, 2}, []int{2, 1})
	backBV := encodeDecode(t, bv, opts)
	assert.Equal(t, bv.Shape, backBV.(*value.BufferView).Shape)
	assert.Equal(t, bv.Data, backBV.(*value.BufferView).Data)
}

func TestRoundTripLargeBlobSubChunks(t *testing.T) {
	opts := DefaultOptions()
	opts.ChunkThreshold = 8
	data := make([]byte, 37)
	for i := range data {
		data[i] = byte(i)
	}
	back := encodeDecode(t, value.Bytes(data), opts)
	assert.Equal(t, value.Bytes(data), back)
}

func TestRoundTripListTupleSetFrozenSetMap(t *testing.T) {
	opts := DefaultOptions()

	l := value.NewList(value.NewInt(1), value.String("x"))
	backL := encodeDecode(t, l, opts).(*value.List)
	require.Len(t, backL.Items, 2)
	assert.Equal(t, int64(1), backL.Items[0].(value.Int).V.Int64())

	tup := value.NewTuple(value.Bool(true), value.Bool(false))
	backT := encodeDecode(t, tup, opts).(*value.Tuple)
	assert.Equal(t, value.Bool(true), backT.Items[0])

	s := value.NewSet(value.String("a"), value.String("b"))
	backS := encodeDecode(t, s, opts).(*value.Set)
	require.Len(t, backS.Items, 2)

	fs := value.NewFrozenSet(value.NewInt(1), value.NewInt(2))
	backFS := encodeDecode(t, fs, opts).(*value.FrozenSet)
	require.Len(t, backFS.Items, 2)

	m := value.NewMap(value.MapEntry{Key: value.String("k"), Value: value.NewInt(9)})
	backM := encodeDecode(t, m, opts).(*value.Map)
	v, ok := backM.Get(value.String("k"))
	require.True(t, ok)
	assert.Equal(t, int64(9), v.(value.Int).V.Int64())
}

func TestRoundTripSharingIsPreserved(t *testing.T) {
	shared := value.NewList(value.NewInt(1))
	root := value.NewTuple(shared, shared)

	backRoot := encodeDecode(t, root, DefaultOptions()).(*value.Tuple)
	require.Len(t, backRoot.Items, 2)
	assert.Same(t, backRoot.Items[0], backRoot.Items[1])
}

func TestRoundTripCyclePreservesSelfReference(t *testing.T) {
	l := value.NewList()
	l.Items = append(l.Items, l)

	back := encodeDecode(t, l, DefaultOptions()).(*value.List)
	require.Len(t, back.Items, 1)
	assert.Same(t, back, back.Items[0])
}

type widget struct {
	Name  string           `pyser:"name"`
	Count int64            `pyser:"count"`
	Extra map[string]value.Value `pyser:",extra"`
}

func TestRoundTripAggregateViaRegistry(t *testing.T) {
	reg := value.NewRegistry()
	value.RegisterStructOn(reg, "shop", "Widget", (*widget)(nil))
	opts := DefaultOptions()
	opts.Registry = reg

	agg := value.NewAggregate("shop", "Widget", []string{"name", "count", "color"}, map[string]value.Value{
		"name":  value.String("gizmo"),
		"count": value.NewInt(3),
		"color": value.String("blue"),
	})

	back := encodeDecode(t, agg, opts)
	inst, ok := back.(value.Instance)
	require.True(t, ok)
	module, qual := inst.TypeName()
	assert.Equal(t, "shop", module)
	assert.Equal(t, "Widget", qual)

	structish, ok := inst.(interface{ Struct() reflect.Value })
	require.True(t, ok)
	w := structish.Struct().Interface().(widget)
	assert.Equal(t, "gizmo", w.Name)
	assert.Equal(t, int64(3), w.Count)
	assert.Equal(t, value.String("blue"), w.Extra["color"])
}

func TestRoundTripUnknownAggregateTypeFails(t *testing.T) {
	agg := value.NewAggregate("nowhere", "Nope", []string{"a"}, map[string]value.Value{"a": value.Null{}})
	_, err := Decode(context.Background(), mustEncode(t, agg), DefaultOptions())
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, ErrUnknownModule, gerr.Kind)
}

func mustEncode(t *testing.T, v value.Value) *Document {
	t.Helper()
	doc, err := Encode(context.Background(), v, DefaultOptions())
	require.NoError(t, err)
	return doc
}

func TestRoundTripCallableWithClosureAndDefaults(t *testing.T) {
	code := &value.CodeObject{
		Bytecode: []byte{0x01},
		QualName: "f",
		Filename: "<string>",
	}
	callable := &value.Callable{
		Code:           code,
		Closure:        []value.Value{value.NewInt(1), value.NewInt(2)},
		Defaults:       []value.Value{value.String("d")},
		KwDefaultNames: []string{"verbose"},
		KwDefaults:     map[string]value.Value{"verbose": value.Bool(false)},
		QualName:       "f",
		Module:         "mymod",
	}

	back := encodeDecode(t, callable, DefaultOptions()).(*value.Callable)
	assert.Equal(t, "mymod", back.Module)
	assert.Equal(t, "f", back.QualName)
	require.Len(t, back.Closure, 2)
	assert.Equal(t, int64(1), back.Closure[0].(value.Int).V.Int64())
	require.Len(t, back.Defaults, 1)
	assert.Equal(t, value.String("d"), back.Defaults[0])
	assert.Equal(t, value.Bool(false), back.KwDefaults["verbose"])
	assert.Equal(t, []byte{0x01}, back.Code.Bytecode)
}

func TestRoundTripCallableSanitizeRuntimeReduceIgnoresHook(t *testing.T) {
	called := false
	callable := &value.Callable{
		Code:   &value.CodeObject{Bytecode: []byte{0x01}, Filename: "<string>"},
		Module: "m",
		ReduceFn: func() value.Value {
			called = true
			return value.String("reduced")
		},
	}
	opts := DefaultOptions()
	opts.SanitizeRuntimeReduce = true

	back := encodeDecode(t, callable, opts)
	assert.False(t, called)
	_, isCallable := back.(*value.Callable)
	assert.True(t, isCallable)
}

func TestRoundTripCallablePrefersReduceHookByDefault(t *testing.T) {
	callable := &value.Callable{
		Code:   &value.CodeObject{Bytecode: []byte{0x01}, Filename: "<string>"},
		Module: "m",
		ReduceFn: func() value.Value {
			return value.String("reduced")
		},
	}
	back := encodeDecode(t, callable, DefaultOptions())
	assert.Equal(t, value.String("reduced"), back)
}

func hashFlip(h hash.Hash) hash.Hash {
	h[0] ^= 0xff
	return h
}

func TestDecodeDanglingChunkReference(t *testing.T) {
	doc := mustEncode(t, value.Bytes("hello"))
	root, _ := doc.Nodes.Get(doc.RootID)
	root.ChunkIDs[0] = hashFlip(root.ChunkIDs[0])
	doc.Nodes.Set(doc.RootID, root)

	_, err := Decode(context.Background(), doc, DefaultOptions())
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, ErrDanglingReference, gerr.Kind)
}
