// Package chunks implements the Chunk Store (component A): a deduplicated,
// content-addressed blob table. It is modeled closely on the teacher
// repo's store/chunks package (NewChunk, ChunkWriter, Chunk.Hash) but
// scoped to a single envelope rather than a versioned database — there is
// no Root/Commit here, only Intern/Get within one encode/decode call.
package chunks

import (
	"fmt"

	"github.com/rand0mdevel0per/pyser/hash"
)

// Chunk is an immutable, hash-addressed blob of bytes.
type Chunk struct {
	h    hash.Hash
	data []byte
}

var emptyChunk = Chunk{}

// NewChunk wraps data as a Chunk, computing its hash.
func NewChunk(data []byte) Chunk {
	return Chunk{h: hash.Of(data), data: data}
}

// NewChunkWithHash wraps data as a Chunk using a precomputed hash, trusting
// the caller. Used when the hash was already computed (e.g. by a worker
// pool) to avoid hashing twice.
func NewChunkWithHash(h hash.Hash, data []byte) Chunk {
	return Chunk{h: h, data: data}
}

// Hash returns the chunk's content hash.
func (c Chunk) Hash() hash.Hash {
	return c.h
}

// Data returns the chunk's raw bytes.
func (c Chunk) Data() []byte {
	return c.data
}

// IsEmpty reports whether c is the zero Chunk.
func (c Chunk) IsEmpty() bool {
	return c.h.IsEmpty() && len(c.data) == 0
}

// EmptyChunk is the zero-value Chunk, the value MemoryStore.GetChunk
// returns on a miss.
func EmptyChunk() Chunk {
	return emptyChunk
}

// Verify recomputes the hash of c's data and compares it against the
// stored hash, matching spec section 4.1's mandatory decode-time
// verification. A mismatch is a chunk-hash-mismatch error at the call site.
func (c Chunk) Verify() bool {
	return hash.Of(c.data).Equals(c.h)
}

// ChunkWriter incrementally builds a single Chunk, matching the teacher's
// write-then-freeze idiom: Write any number of times, then Chunk() (or
// Close()) to freeze it. Writing after either panics.
type ChunkWriter struct {
	buf    []byte
	closed bool
}

// NewChunkWriter returns a fresh, writable ChunkWriter.
func NewChunkWriter() *ChunkWriter {
	return &ChunkWriter{}
}

// Write appends p to the in-progress chunk. Panics if the writer is closed.
func (w *ChunkWriter) Write(p []byte) (int, error) {
	if w.closed {
		panic("chunks: write after close")
	}
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// Close freezes the writer; subsequent Writes panic. Idempotent.
func (w *ChunkWriter) Close() error {
	w.closed = true
	return nil
}

// Chunk freezes the writer (if not already) and returns the built Chunk.
func (w *ChunkWriter) Chunk() Chunk {
	w.closed = true
	return NewChunk(w.buf)
}

func (c Chunk) String() string {
	return fmt.Sprintf("Chunk(%s, %d bytes)", c.h, len(c.data))
}
