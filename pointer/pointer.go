// Package pointer implements the Pointer Table (component C): parent-child
// edges labeled by a kind-specific slot, per spec.md sections 3 and 4.3.
package pointer

import (
	"fmt"

	"github.com/rand0mdevel0per/pyser/node"
)

// SlotKind tags which of Slot's fields is meaningful.
type SlotKind uint8

const (
	// SlotIndex: ordered sequences (list, tuple, code constants), value
	// in Index, ascending per parent.
	SlotIndex SlotKind = iota
	// SlotAttr: aggregate attribute name, and callable field names
	// (code/closure/defaults/kwdefaults), value in Attr.
	SlotAttr
	// SlotKey: map values, keyed by the child id of the already-encoded
	// key node, value in KeyNodeID.
	SlotKey
	// SlotMapKey: map keys themselves, ordinal position in Index.
	SlotMapKey
	// SlotOrdinal: set/frozenset members, first-seen order, value in
	// Index (order not semantically meaningful, per spec.md).
	SlotOrdinal
)

// Slot is the tagged union spec.md section 3 calls "kind-specific": an
// integer index, an attribute name, a key-node-id, or an ordinal.
type Slot struct {
	Kind      SlotKind `json:"kind"`
	Index     int      `json:"index,omitempty"`
	Attr      string   `json:"attr,omitempty"`
	KeyNodeID node.ID  `json:"key_node_id,omitempty"`
}

func (s Slot) String() string {
	switch s.Kind {
	case SlotIndex, SlotOrdinal, SlotMapKey:
		return fmt.Sprintf("[%d]", s.Index)
	case SlotAttr:
		return "." + s.Attr
	case SlotKey:
		return fmt.Sprintf("{key=%d}", s.KeyNodeID)
	default:
		return "?"
	}
}

// Edge is one (parent, slot, child) triple.
type Edge struct {
	ParentID node.ID `json:"parent_id"`
	Slot     Slot     `json:"slot"`
	ChildID  node.ID `json:"child_id"`
}

// Table is the Pointer Table: logically a multiset of edges keyed by
// parent, in append order. ByParent groups them for the decoder's
// fill phase (spec.md section 4.5), preserving append order within each
// parent group — which is how ordering invariants (ascending index for
// sequences, attr-name order for aggregates, recorded order for maps,
// first-seen for sets) are upheld without a separate sort step, since the
// encoder appends edges in exactly that order to begin with.
type Table struct {
	edges []Edge
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{}
}

// NewTableFrom builds a Table from a flat, already-ordered edge list —
// how the Envelope Codec rebuilds a Table from a decoded wire document.
func NewTableFrom(edges []Edge) *Table {
	t := &Table{edges: make([]Edge, len(edges))}
	copy(t.edges, edges)
	return t
}

// Append adds an edge to the table.
func (t *Table) Append(e Edge) {
	t.edges = append(t.edges, e)
}

// All returns every edge, in append order.
func (t *Table) All() []Edge {
	return t.edges
}

// Len returns the number of edges.
func (t *Table) Len() int {
	return len(t.edges)
}

// ByParent groups edges by parent id, preserving each group's append
// order, and returns parent ids in first-appearance order.
func (t *Table) ByParent() (order []node.ID, groups map[node.ID][]Edge) {
	groups = map[node.ID][]Edge{}
	for _, e := range t.edges {
		if _, seen := groups[e.ParentID]; !seen {
			order = append(order, e.ParentID)
		}
		groups[e.ParentID] = append(groups[e.ParentID], e)
	}
	return order, groups
}
