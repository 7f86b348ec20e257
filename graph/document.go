package graph

import (
	"github.com/rand0mdevel0per/pyser/chunks"
	"github.com/rand0mdevel0per/pyser/node"
	"github.com/rand0mdevel0per/pyser/pointer"
)

// Document is the logical document spec.md section 3 defines: root id, node
// table, pointer table, chunk table. The Graph Encoder produces one; the
// Envelope Codec frames it for storage, and the Graph Decoder consumes one
// unframed by the Envelope Codec.
type Document struct {
	RootID   node.ID
	Nodes    *node.Table
	Pointers *pointer.Table
	Chunks   chunks.Store
}
