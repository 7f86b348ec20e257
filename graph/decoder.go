package graph

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rand0mdevel0per/pyser/codeobj"
	"github.com/rand0mdevel0per/pyser/node"
	"github.com/rand0mdevel0per/pyser/pointer"
	"github.com/rand0mdevel0per/pyser/value"
)

// Decode reconstructs a value.Value graph from doc in two phases, per
// spec.md section 4.5: Allocate first assigns one live object per node id
// — scalars and blobs fully materialized, containers and aggregates
// allocated blank — so that any edge, including a back-edge forming a
// cycle, already has a valid target by the time Fill walks the Pointer
// Table and wires children in. Nothing is deferred past Fill; there is no
// separate fixup pass.
func Decode(ctx context.Context, doc *Document, opts Options) (value.Value, error) {
	opts = opts.normalized()
	order, groups := doc.Pointers.ByParent()
	d := &decoder{
		opts:   opts,
		doc:    doc,
		objs:   make([]value.Value, doc.Nodes.Len()),
		groups: groups,
	}
	logrus.WithField("component", "graph.Decoder").Debug("decode starting")
	if err := d.allocateAll(ctx); err != nil {
		return nil, err
	}
	if err := d.fillAll(ctx, order); err != nil {
		return nil, err
	}
	root, err := d.at(doc.RootID, "$")
	if err != nil {
		return nil, err
	}
	logrus.WithField("nodes", doc.Nodes.Len()).Debug("decode complete")
	return root, nil
}

type decoder struct {
	opts   Options
	doc    *Document
	objs   []value.Value
	groups map[node.ID][]pointer.Edge
}

// at returns the already-allocated object for id, failing with
// dangling-reference if id is out of range — the decoder never allocates
// lazily, so an out-of-range id can only mean a corrupt document.
func (d *decoder) at(id node.ID, path string) (value.Value, error) {
	if int(id) < 0 || int(id) >= len(d.objs) {
		return nil, newErr(ErrDanglingReference, "edge at %s references node id %d, which does not exist", path, id)
	}
	return d.objs[id], nil
}

func (d *decoder) allocateAll(ctx context.Context) error {
	for _, n := range d.doc.Nodes.All() {
		if err := ctx.Err(); err != nil {
			return wrapErr(ErrIOFailure, err, "decode canceled allocating node %d", n.ID)
		}
		v, err := d.allocate(n)
		if err != nil {
			return err
		}
		d.objs[n.ID] = v
	}
	return nil
}

func (d *decoder) allocate(n node.Node) (value.Value, error) {
	switch n.Type {
	case value.KindNull:
		return value.Null{}, nil
	case value.KindBool:
		return value.Bool(n.Bool), nil
	case value.KindInt:
		i, ok := new(big.Int).SetString(n.Int, 10)
		if !ok {
			return nil, newErr(ErrMalformedEnvelope, "node %d: %q is not a valid integer literal", n.ID, n.Int)
		}
		return value.NewIntFromBig(i), nil
	case value.KindFloat:
		return value.Float(n.Float), nil
	case value.KindString:
		return value.String(n.Str), nil
	case value.KindBytes:
		b, err := d.assembleBlob(n)
		if err != nil {
			return nil, err
		}
		return value.Bytes(b), nil
	case value.KindByteArray:
		b, err := d.assembleBlob(n)
		if err != nil {
			return nil, err
		}
		return value.NewByteArray(b), nil
	case value.KindBufferView:
		b, err := d.assembleBlob(n)
		if err != nil {
			return nil, err
		}
		return value.NewBufferView(b, n.Shape, n.Strides), nil
	case value.KindList:
		return &value.List{Items: make([]value.Value, len(d.groups[n.ID]))}, nil
	case value.KindTuple:
		return &value.Tuple{Items: make([]value.Value, len(d.groups[n.ID]))}, nil
	case value.KindSet:
		return &value.Set{Items: make([]value.Value, len(d.groups[n.ID]))}, nil
	case value.KindFrozenSet:
		return &value.FrozenSet{Items: make([]value.Value, len(d.groups[n.ID]))}, nil
	case value.KindMap:
		return &value.Map{Entries: make([]value.MapEntry, len(d.groups[n.ID])/2)}, nil
	case value.KindAggregate:
		return d.allocateAggregate(n)
	case value.KindCode:
		co, err := codeobj.DecodePayload(n.Code)
		if err != nil {
			return nil, wrapErr(ErrIncompatibleCodeVersion, err, "node %d: %s", n.ID, err.Error())
		}
		co.Constants = make([]value.Value, len(d.groups[n.ID]))
		return co, nil
	case value.KindCallable:
		return &value.Callable{}, nil
	default:
		return nil, newErr(ErrMalformedEnvelope, "node %d: unrecognized node type %v", n.ID, n.Type)
	}
}

func (d *decoder) allocateAggregate(n node.Node) (value.Value, error) {
	if n.Meta == nil {
		return nil, newErr(ErrMalformedEnvelope, "node %d: aggregate node carries no type metadata", n.ID)
	}
	factory, ok := d.opts.Registry.Lookup(n.Meta.Module, n.Meta.QualName)
	if !ok {
		if n.Meta.Module != "" {
			return nil, newErr(ErrUnknownModule, "node %d: no registered type for module %q (type %s)", n.ID, n.Meta.Module, n.Meta.TypeName)
		}
		return nil, newErr(ErrUnknownType, "node %d: no registered type %q", n.ID, n.Meta.TypeName)
	}
	instance := factory()
	if instance == nil {
		return nil, newErr(ErrUninstantiableType, "node %d: factory for %q returned no instance", n.ID, n.Meta.TypeName)
	}
	return instance, nil
}

// assembleBlob concatenates n's sub-chunks in order, verifying each
// against the hash that names it (spec.md section 7's chunk-hash-mismatch
// and dangling-reference cases).
func (d *decoder) assembleBlob(n node.Node) ([]byte, error) {
	var total int
	parts := make([][]byte, len(n.ChunkIDs))
	for i, id := range n.ChunkIDs {
		c, ok := d.doc.Chunks.GetChunk(id)
		if !ok {
			return nil, newErr(ErrDanglingReference, "node %d: chunk %s is not present in the chunk table", n.ID, id)
		}
		if !c.Verify() {
			return nil, newErr(ErrChunkHashMismatch, "node %d: chunk %s does not hash to its own id", n.ID, id)
		}
		parts[i] = c.Data()
		total += len(c.Data())
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

func (d *decoder) fillAll(ctx context.Context, order []node.ID) error {
	for _, parentID := range order {
		if err := ctx.Err(); err != nil {
			return wrapErr(ErrIOFailure, err, "decode canceled filling node %d", parentID)
		}
		n, ok := d.doc.Nodes.Get(parentID)
		if !ok {
			return newErr(ErrDanglingReference, "pointer table references node id %d, which does not exist", parentID)
		}
		edges := d.groups[parentID]
		if err := d.fill(n, edges); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) fill(n node.Node, edges []pointer.Edge) error {
	switch n.Type {
	case value.KindList:
		return d.fillSequence(n.ID, d.objs[n.ID].(*value.List).Items, edges)
	case value.KindTuple:
		return d.fillSequence(n.ID, d.objs[n.ID].(*value.Tuple).Items, edges)
	case value.KindSet:
		return d.fillSequence(n.ID, d.objs[n.ID].(*value.Set).Items, edges)
	case value.KindFrozenSet:
		return d.fillSequence(n.ID, d.objs[n.ID].(*value.FrozenSet).Items, edges)
	case value.KindMap:
		return d.fillMap(n.ID, d.objs[n.ID].(*value.Map), edges)
	case value.KindAggregate:
		return d.fillAggregate(n.ID, d.objs[n.ID].(value.Instance), edges)
	case value.KindCode:
		return d.fillSequence(n.ID, d.objs[n.ID].(*value.CodeObject).Constants, edges)
	case value.KindCallable:
		return d.fillCallable(n.ID, d.objs[n.ID].(*value.Callable), edges)
	default:
		// Scalar and blob kinds carry no pointer-table edges.
		return nil
	}
}

func (d *decoder) fillSequence(parent node.ID, items []value.Value, edges []pointer.Edge) error {
	for _, e := range edges {
		child, err := d.at(e.ChildID, parentPath(parent))
		if err != nil {
			return err
		}
		if e.Slot.Index < 0 || e.Slot.Index >= len(items) {
			return newErr(ErrMalformedEnvelope, "node %d: edge slot index %d out of range", parent, e.Slot.Index)
		}
		items[e.Slot.Index] = child
	}
	return nil
}

func (d *decoder) fillMap(parent node.ID, m *value.Map, edges []pointer.Edge) error {
	if len(edges)%2 != 0 {
		return newErr(ErrMalformedEnvelope, "node %d: map has an odd number of pointer-table edges", parent)
	}
	for i := 0; i < len(edges); i += 2 {
		keyEdge, valEdge := edges[i], edges[i+1]
		if keyEdge.Slot.Kind != pointer.SlotMapKey || valEdge.Slot.Kind != pointer.SlotKey {
			return newErr(ErrMalformedEnvelope, "node %d: map edges are not in the expected key/value pairing", parent)
		}
		key, err := d.at(keyEdge.ChildID, parentPath(parent))
		if err != nil {
			return err
		}
		val, err := d.at(valEdge.ChildID, parentPath(parent))
		if err != nil {
			return err
		}
		if keyEdge.Slot.Index < 0 || keyEdge.Slot.Index >= len(m.Entries) {
			return newErr(ErrMalformedEnvelope, "node %d: map entry index %d out of range", parent, keyEdge.Slot.Index)
		}
		m.Entries[keyEdge.Slot.Index] = value.MapEntry{Key: key, Value: val}
	}
	return nil
}

// fillAggregate assigns attributes in recorded order via Instance.SetAttr,
// which spec.md section 4.6 step 4 requires to be permissive: a
// conversion failure (the attribute's stored value doesn't fit the
// reconstructed type's field) is logged and skipped rather than failing
// the whole decode, matching a dynamically-typed object that would have
// simply accepted the assignment untyped.
func (d *decoder) fillAggregate(parent node.ID, inst value.Instance, edges []pointer.Edge) error {
	for _, e := range edges {
		if e.Slot.Kind != pointer.SlotAttr {
			continue
		}
		child, err := d.at(e.ChildID, parentPath(parent))
		if err != nil {
			return err
		}
		if err := inst.SetAttr(e.Slot.Attr, child); err != nil {
			logrus.WithFields(logrus.Fields{"node": parent, "attr": e.Slot.Attr}).Warn("dropping attribute that could not be assigned: " + err.Error())
		}
	}
	return nil
}

func (d *decoder) fillCallable(parent node.ID, c *value.Callable, edges []pointer.Edge) error {
	for _, e := range edges {
		child, err := d.at(e.ChildID, parentPath(parent))
		if err != nil {
			return err
		}
		attr := e.Slot.Attr
		switch {
		case attr == slotCode:
			co, ok := child.(*value.CodeObject)
			if !ok {
				return newErr(ErrMalformedEnvelope, "node %d: callable's code edge does not reference a code node", parent)
			}
			c.Code = co
		case strings.HasPrefix(attr, "closure:"):
			idx, err := indexSuffix(attr, "closure:")
			if err != nil {
				return newErr(ErrMalformedEnvelope, "node %d: %s", parent, err.Error())
			}
			c.Closure = growTo(c.Closure, idx+1)
			c.Closure[idx] = child
		case strings.HasPrefix(attr, "default:"):
			idx, err := indexSuffix(attr, "default:")
			if err != nil {
				return newErr(ErrMalformedEnvelope, "node %d: %s", parent, err.Error())
			}
			c.Defaults = growTo(c.Defaults, idx+1)
			c.Defaults[idx] = child
		case strings.HasPrefix(attr, "kwdefault:"):
			name := attr[len("kwdefault:"):]
			if c.KwDefaults == nil {
				c.KwDefaults = map[string]value.Value{}
			}
			c.KwDefaults[name] = child
			c.KwDefaultNames = append(c.KwDefaultNames, name)
		default:
			return newErr(ErrMalformedEnvelope, "node %d: unrecognized callable slot %q", parent, attr)
		}
	}
	if n, ok := d.doc.Nodes.Get(parent); ok && n.Meta != nil {
		c.Module, c.QualName = n.Meta.Module, n.Meta.QualName
	}
	return nil
}

func indexSuffix(s, prefix string) (int, error) {
	n, err := strconv.Atoi(s[len(prefix):])
	if err != nil {
		return 0, fmt.Errorf("malformed slot %q: %w", s, err)
	}
	return n, nil
}

func growTo(s []value.Value, n int) []value.Value {
	if len(s) >= n {
		return s
	}
	grown := make([]value.Value, n)
	copy(grown, s)
	return grown
}

func parentPath(id node.ID) string {
	return "node#" + strconv.Itoa(int(id))
}
