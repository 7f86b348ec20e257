// Package envelope implements the Envelope Codec (component H): framing a
// Document (graph.Document) for storage, per spec.md section 6's wire
// schema — root_id, nodes, pointers, chunks — wrapped in compression and a
// small fixed header for fail-fast corruption detection.
package envelope

import (
	"github.com/rand0mdevel0per/pyser/hash"
	"github.com/rand0mdevel0per/pyser/node"
	"github.com/rand0mdevel0per/pyser/pointer"
)

// ChunkEntry is one Chunk Store row on the wire: an id plus its bytes,
// base64-encoded by the JSON layer's standard []byte handling.
type ChunkEntry struct {
	ID   hash.Hash `json:"id"`
	Data []byte    `json:"data"`
}

// Document is the literal JSON document spec.md section 6 describes,
// independent of the in-memory graph.Document's Table/Store types so it
// marshals directly with goccy/go-json.
type Document struct {
	RootID   node.ID        `json:"root_id"`
	Nodes    []node.Node    `json:"nodes"`
	Pointers []pointer.Edge `json:"pointers"`
	Chunks   []ChunkEntry   `json:"chunks"`
}
