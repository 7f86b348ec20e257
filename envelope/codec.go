package envelope

import (
	"bytes"
	"io"

	goccyjson "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/rand0mdevel0per/pyser/chunks"
	"github.com/rand0mdevel0per/pyser/graph"
	"github.com/rand0mdevel0per/pyser/node"
	"github.com/rand0mdevel0per/pyser/pointer"
)

// magic identifies a pyser envelope; version is bumped only if the wire
// document's shape changes incompatibly. Both travel ahead of the
// compressed body so a truncated or foreign file is rejected before a
// decompressor is ever invoked, per spec.md's fail-fast corruption intent
// — an addition this port makes to the literal schema in section 6, since
// the schema as written doesn't self-identify its own framing.
var magic = [4]byte{'P', 'Y', 'S', 'R'}

const version = byte(1)

const headerLen = len(magic) + 1

// Encode frames doc as a versioned, zstd-compressed JSON document.
func Encode(doc *graph.Document, opts graph.Options) ([]byte, error) {
	opts = opts.Normalized()
	wire := toWire(doc)
	raw, err := goccyjson.Marshal(wire)
	if err != nil {
		return nil, graph.NewError(graph.ErrIOFailure, "marshaling envelope body: %s", err.Error())
	}

	var buf bytes.Buffer
	buf.WriteByte(magic[0])
	buf.WriteByte(magic[1])
	buf.WriteByte(magic[2])
	buf.WriteByte(magic[3])
	buf.WriteByte(version)

	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.CompressionLevel)))
	if err != nil {
		return nil, graph.NewError(graph.ErrIOFailure, "opening compressor: %s", err.Error())
	}
	if _, err := enc.Write(raw); err != nil {
		return nil, graph.NewError(graph.ErrIOFailure, "compressing envelope body: %s", err.Error())
	}
	if err := enc.Close(); err != nil {
		return nil, graph.NewError(graph.ErrIOFailure, "finalizing compressor: %s", err.Error())
	}
	return buf.Bytes(), nil
}

// Decode unframes data back into a graph.Document, failing with
// malformed-envelope on a bad header or undecodable body and io-failure
// on a decompression stream error, per spec.md section 7.
func Decode(data []byte, opts graph.Options) (*graph.Document, error) {
	opts = opts.Normalized()
	if len(data) < headerLen {
		return nil, graph.NewError(graph.ErrMalformedEnvelope, "envelope is %d bytes, shorter than the %d-byte header", len(data), headerLen)
	}
	if data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] || data[3] != magic[3] {
		return nil, graph.NewError(graph.ErrMalformedEnvelope, "missing pyser magic bytes")
	}
	if data[4] != version {
		return nil, graph.NewError(graph.ErrMalformedEnvelope, "envelope version %d, this codec supports %d", data[4], version)
	}

	dec, err := zstd.NewReader(bytes.NewReader(data[headerLen:]))
	if err != nil {
		return nil, graph.NewError(graph.ErrMalformedEnvelope, "opening decompressor: %s", err.Error())
	}
	defer dec.Close()
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, graph.WrapError(graph.ErrIOFailure, err, "decompressing envelope body")
	}

	var wire Document
	if err := goccyjson.Unmarshal(raw, &wire); err != nil {
		return nil, graph.WrapError(graph.ErrMalformedEnvelope, err, "parsing envelope body")
	}
	return fromWire(&wire, opts)
}

func toWire(doc *graph.Document) *Document {
	ids := chunks.SortedIds(doc.Chunks)
	entries := make([]ChunkEntry, len(ids))
	for i, id := range ids {
		data, _ := doc.Chunks.Get(id)
		entries[i] = ChunkEntry{ID: id, Data: data}
	}
	return &Document{
		RootID:   doc.RootID,
		Nodes:    doc.Nodes.All(),
		Pointers: doc.Pointers.All(),
		Chunks:   entries,
	}
}

func fromWire(wire *Document, opts graph.Options) (*graph.Document, error) {
	nodes := node.NewTable()
	for i, n := range wire.Nodes {
		if n.ID != node.ID(i) {
			return nil, graph.NewError(graph.ErrMalformedEnvelope, "node table is not contiguous from 0: entry %d claims id %d", i, n.ID)
		}
		nodes.Append(n)
	}

	pointers := pointer.NewTableFrom(wire.Pointers)

	store := chunks.NewMemoryStore()
	for _, e := range wire.Chunks {
		store.PutRaw(e.ID, e.Data)
	}

	return &graph.Document{RootID: wire.RootID, Nodes: nodes, Pointers: pointers, Chunks: store}, nil
}
