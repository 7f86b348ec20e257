// Package node implements the Node Table (component B): an append-only
// record list during encode, random-access by id during decode, per
// spec.md sections 3 and 4.2.
package node

import (
	"github.com/rand0mdevel0per/pyser/hash"
	"github.com/rand0mdevel0per/pyser/value"
)

// ID is a small, monotonically assigned integer, unique within an
// envelope (spec.md section 3).
type ID int32

// Meta carries the optional, kind-specific metadata spec.md section 3
// names: aggregate/callable type name and attribute ordering. Module and
// QualName are carried alongside the spec-mandated combined TypeName
// field so the Aggregate Reconstructor can resolve a registry entry
// without guessing where, in an arbitrary fully-qualified name, the
// module component ends and the qualified name begins (Python module
// names may themselves contain dots).
type Meta struct {
	TypeName  string   `json:"type_name,omitempty"`
	Module    string   `json:"module,omitempty"`
	QualName  string   `json:"qual_name,omitempty"`
	AttrNames []string `json:"attr_names,omitempty"`
}

// Node is one record of the Node Table. The payload for scalar kinds is
// in-line (Bool, Int, Float, Str); for blob kinds it is an ordered chunk id list
// (ChunkIDs); for container, aggregate and callable kinds the payload is
// empty — children live in the Pointer Table (package pointer). Code-kind
// nodes carry their own dedicated fields.
type Node struct {
	ID   ID         `json:"id"`
	Type value.Kind `json:"type"`
	Meta *Meta      `json:"meta,omitempty"`

	// Scalar payloads, in-line.
	Bool    bool    `json:"bool,omitempty"`
	Int     string  `json:"int,omitempty"`   // decimal string; sign+magnitude is how it travels in JSON
	Float   float64 `json:"float,omitempty"`
	Str     string  `json:"str,omitempty"`

	// Blob payload: ordered sub-chunk ids (see chunks.SplitChunks).
	ChunkIDs []hash.Hash `json:"chunk_ids,omitempty"`
	// BufferView-only shape metadata (spec.md's linearization choice).
	Shape   []int `json:"shape,omitempty"`
	Strides []int `json:"strides,omitempty"`

	// Code-kind payload (spec.md section 4.7); Constants are recorded as
	// pointer-table edges like any other child, not inlined here.
	Code *CodePayload `json:"code,omitempty"`
}

// CodePayload is the code-kind node's structural payload.
type CodePayload struct {
	Bytecode       []byte   `json:"bytecode"`
	Names          []string `json:"names,omitempty"`
	Varnames       []string `json:"varnames,omitempty"`
	Freevars       []string `json:"freevars,omitempty"`
	Cellvars       []string `json:"cellvars,omitempty"`
	Filename       string   `json:"filename"`
	QualName       string   `json:"qualname"`
	ArgCount       int      `json:"argcount"`
	PosOnlyCount   int      `json:"posonlycount"`
	KwOnlyCount    int      `json:"kwonlycount"`
	LocalCount     int      `json:"localcount"`
	StackSize      int      `json:"stacksize"`
	Flags          uint32   `json:"flags"`
	FirstLineNo    int      `json:"firstlineno"`
	LineTable      []byte   `json:"linetable,omitempty"`
	ExceptionTable []byte   `json:"exceptiontable,omitempty"`
	Version        string   `json:"version"`
}

// Table is the append-only-then-random-access Node Table.
type Table struct {
	nodes []Node
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{}
}

// Reserve allocates the next id without requiring a fully-formed Node yet
// — the encoder reserves an id before walking a container's children so
// cycles back to it resolve to a valid, if not-yet-filled-in, id.
func (t *Table) Reserve() ID {
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, Node{ID: id})
	return id
}

// Set overwrites the node at id, which must have been returned by Reserve.
func (t *Table) Set(id ID, n Node) {
	n.ID = id
	t.nodes[id] = n
}

// Append reserves the next id, fills it with n, and returns the id.
func (t *Table) Append(n Node) ID {
	id := t.Reserve()
	t.Set(id, n)
	return id
}

// Get returns the node at id and whether id is in range.
func (t *Table) Get(id ID) (Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return Node{}, false
	}
	return t.nodes[id], true
}

// Len returns the number of nodes in the table.
func (t *Table) Len() int {
	return len(t.nodes)
}

// All returns every node, in ascending id order.
func (t *Table) All() []Node {
	return t.nodes
}
