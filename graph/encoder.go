package graph

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rand0mdevel0per/pyser/chunks"
	"github.com/rand0mdevel0per/pyser/codeobj"
	"github.com/rand0mdevel0per/pyser/hash"
	"github.com/rand0mdevel0per/pyser/node"
	"github.com/rand0mdevel0per/pyser/pointer"
	"github.com/rand0mdevel0per/pyser/value"
)

// Encode walks root depth-first (spec.md section 4.4), assigning each
// distinct object exactly one node id (sharing- and cycle-preserving via
// an identity map keyed on Go pointer identity) and returns the resulting
// Document. The walk is a closed, kind-by-kind dispatch: a source value
// whose Kind doesn't match any case here cannot occur given value.Value's
// sealed set of implementations, but the unserializable-value path is
// kept reachable for nil/zero-Value inputs and future kinds.
func Encode(ctx context.Context, root value.Value, opts Options) (*Document, error) {
	e := &encoder{
		opts:       opts.normalized(),
		nodes:      node.NewTable(),
		pointers:   pointer.NewTable(),
		chunkStore: chunks.NewMemoryStore(),
		ids:        map[value.Value]node.ID{},
	}
	logrus.WithField("component", "graph.Encoder").Debug("encode starting")
	rootID, err := e.encode(ctx, root, "$")
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"nodes":    e.nodes.Len(),
		"pointers": e.pointers.Len(),
		"chunks":   e.chunkStore.Len(),
	}).Debug("encode complete")
	return &Document{RootID: rootID, Nodes: e.nodes, Pointers: e.pointers, Chunks: e.chunkStore}, nil
}

type encoder struct {
	opts       Options
	nodes      *node.Table
	pointers   *pointer.Table
	chunkStore chunks.Store
	ids        map[value.Value]node.ID
}

// identityTracked reports whether kind's values are pointer-typed and
// therefore safe (and meaningful) to key the identity map on. Bytes and
// the scalar kinds are excluded: Bytes backs a non-comparable slice type,
// and scalar identity is explicitly not required to be preserved by
// spec.md's design notes.
func identityTracked(k value.Kind) bool {
	switch k {
	case value.KindList, value.KindTuple, value.KindSet, value.KindFrozenSet,
		value.KindMap, value.KindAggregate, value.KindCode, value.KindCallable,
		value.KindByteArray, value.KindBufferView:
		return true
	default:
		return false
	}
}

func (e *encoder) encode(ctx context.Context, v value.Value, path string) (node.ID, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrapErr(ErrIOFailure, err, "encode canceled at %s", path)
	}
	if v == nil {
		return 0, newErrAt(ErrUnserializableValue, path, "nil value has no kind")
	}

	kind := v.Kind()
	if identityTracked(kind) {
		if id, ok := e.ids[v]; ok {
			return id, nil
		}
	}

	switch kind {
	case value.KindNull:
		return e.nodes.Append(node.Node{Type: kind}), nil
	case value.KindBool:
		return e.nodes.Append(node.Node{Type: kind, Bool: bool(v.(value.Bool))}), nil
	case value.KindInt:
		i := v.(value.Int)
		return e.nodes.Append(node.Node{Type: kind, Int: i.V.String()}), nil
	case value.KindFloat:
		return e.nodes.Append(node.Node{Type: kind, Float: float64(v.(value.Float))}), nil
	case value.KindString:
		return e.nodes.Append(node.Node{Type: kind, Str: string(v.(value.String))}), nil
	case value.KindBytes:
		b := v.(value.Bytes)
		ids := e.internBlob([]byte(b))
		return e.nodes.Append(node.Node{Type: kind, ChunkIDs: ids}), nil
	case value.KindByteArray:
		ba := v.(*value.ByteArray)
		id := e.nodes.Reserve()
		e.ids[v] = id
		ids := e.internBlob(ba.Data)
		e.nodes.Set(id, node.Node{Type: kind, ChunkIDs: ids})
		return id, nil
	case value.KindBufferView:
		bv := v.(*value.BufferView)
		id := e.nodes.Reserve()
		e.ids[v] = id
		ids := e.internBlob(bv.Data)
		e.nodes.Set(id, node.Node{Type: kind, ChunkIDs: ids, Shape: bv.Shape, Strides: bv.Strides})
		return id, nil
	case value.KindList, value.KindTuple:
		return e.encodeSequence(ctx, v, kind, path)
	case value.KindSet, value.KindFrozenSet:
		return e.encodeUnordered(ctx, v, kind, path)
	case value.KindMap:
		return e.encodeMap(ctx, v.(*value.Map), path)
	case value.KindAggregate:
		return e.encodeAggregate(ctx, v.(*value.Aggregate), path)
	case value.KindCode:
		return e.encodeCode(ctx, v.(*value.CodeObject), path)
	case value.KindCallable:
		return e.encodeCallable(ctx, v.(*value.Callable), path)
	default:
		return 0, newErrAt(ErrUnserializableValue, path, "unrecognized kind %v (go type %T)", kind, v)
	}
}

func itemsOf(v value.Value) []value.Value {
	switch x := v.(type) {
	case *value.List:
		return x.Items
	case *value.Tuple:
		return x.Items
	case *value.Set:
		return x.Items
	case *value.FrozenSet:
		return x.Items
	default:
		return nil
	}
}

func (e *encoder) encodeSequence(ctx context.Context, v value.Value, kind value.Kind, path string) (node.ID, error) {
	id := e.nodes.Reserve()
	e.ids[v] = id
	for i, item := range itemsOf(v) {
		childID, err := e.encode(ctx, item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotIndex, Index: i}, ChildID: childID})
	}
	e.nodes.Set(id, node.Node{Type: kind})
	return id, nil
}

func (e *encoder) encodeUnordered(ctx context.Context, v value.Value, kind value.Kind, path string) (node.ID, error) {
	id := e.nodes.Reserve()
	e.ids[v] = id
	for i, item := range itemsOf(v) {
		childID, err := e.encode(ctx, item, fmt.Sprintf("%s{%d}", path, i))
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotOrdinal, Index: i}, ChildID: childID})
	}
	e.nodes.Set(id, node.Node{Type: kind})
	return id, nil
}

func (e *encoder) encodeMap(ctx context.Context, m *value.Map, path string) (node.ID, error) {
	id := e.nodes.Reserve()
	e.ids[m] = id
	for i, entry := range m.Entries {
		keyID, err := e.encode(ctx, entry.Key, fmt.Sprintf("%s.key(%d)", path, i))
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotMapKey, Index: i}, ChildID: keyID})

		valID, err := e.encode(ctx, entry.Value, fmt.Sprintf("%s.value(%d)", path, i))
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotKey, KeyNodeID: keyID}, ChildID: valID})
	}
	e.nodes.Set(id, node.Node{Type: value.KindMap})
	return id, nil
}

func (e *encoder) encodeAggregate(ctx context.Context, a *value.Aggregate, path string) (node.ID, error) {
	id := e.nodes.Reserve()
	e.ids[a] = id
	for _, name := range a.AttrNames {
		v, ok := a.Attrs[name]
		if !ok {
			v = value.Null{}
		}
		childID, err := e.encode(ctx, v, path+"."+name)
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotAttr, Attr: name}, ChildID: childID})
	}
	e.nodes.Set(id, node.Node{
		Type: value.KindAggregate,
		Meta: &node.Meta{TypeName: a.FullName(), Module: a.Module, QualName: a.QualName, AttrNames: a.AttrNames},
	})
	return id, nil
}

func (e *encoder) encodeCode(ctx context.Context, co *value.CodeObject, path string) (node.ID, error) {
	id := e.nodes.Reserve()
	e.ids[co] = id
	for i, c := range co.Constants {
		childID, err := e.encode(ctx, c, fmt.Sprintf("%s.const[%d]", path, i))
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotIndex, Index: i}, ChildID: childID})
	}
	e.nodes.Set(id, node.Node{Type: value.KindCode, Code: codeobj.EncodePayload(co)})
	return id, nil
}

const (
	slotCode  = "code"
	fmtClosure   = "closure:%d"
	fmtDefault   = "default:%d"
	fmtKwDefault = "kwdefault:%s"
)

func (e *encoder) encodeCallable(ctx context.Context, c *value.Callable, path string) (node.ID, error) {
	if !e.opts.SanitizeRuntimeReduce {
		if reduced := c.Reduce(); reduced != nil {
			return e.encode(ctx, reduced, path)
		}
	}

	id := e.nodes.Reserve()
	e.ids[c] = id

	codeID, err := e.encode(ctx, c.Code, path+".code")
	if err != nil {
		return 0, err
	}
	e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotAttr, Attr: slotCode}, ChildID: codeID})

	for i, cell := range c.Closure {
		childID, err := e.encode(ctx, cell, fmt.Sprintf("%s.closure[%d]", path, i))
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotAttr, Attr: fmt.Sprintf(fmtClosure, i)}, ChildID: childID})
	}
	for i, def := range c.Defaults {
		childID, err := e.encode(ctx, def, fmt.Sprintf("%s.default[%d]", path, i))
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotAttr, Attr: fmt.Sprintf(fmtDefault, i)}, ChildID: childID})
	}
	for _, name := range c.KwDefaultNames {
		childID, err := e.encode(ctx, c.KwDefaults[name], path+".kwdefault."+name)
		if err != nil {
			return 0, err
		}
		e.pointers.Append(pointer.Edge{ParentID: id, Slot: pointer.Slot{Kind: pointer.SlotAttr, Attr: fmt.Sprintf(fmtKwDefault, name)}, ChildID: childID})
	}

	e.nodes.Set(id, node.Node{
		Type: value.KindCallable,
		Meta: &node.Meta{TypeName: value.FullName(c.Module, c.QualName), Module: c.Module, QualName: c.QualName},
	})
	return id, nil
}

func (e *encoder) internBlob(data []byte) []hash.Hash {
	parts := chunks.SplitChunks(data, e.opts.ChunkThreshold)
	if e.opts.ParallelHashing > 1 && len(parts) > 1 {
		if ids, err := chunks.InternParallel(context.Background(), e.chunkStore, parts, e.opts.ParallelHashing); err == nil {
			return ids
		}
	}
	ids := make([]hash.Hash, len(parts))
	for i, p := range parts {
		ids[i] = e.chunkStore.Intern(p)
	}
	return ids
}
