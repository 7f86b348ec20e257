// Package pyser serializes an in-memory object graph into a compressed,
// self-describing binary envelope and reconstructs an equivalent graph
// from one, per spec.md. It composes three layers:
//
//   - graph: the Graph Encoder/Decoder, walking a value.Value tree into
//     (and out of) a graph.Document — node table, pointer table, chunk
//     store.
//   - envelope: the Envelope Codec, framing a graph.Document as a
//     versioned, zstd-compressed JSON document.
//   - this package: Serialize/Deserialize, gluing the two together and
//     exposing spec.md section 6's external interface.
package pyser
