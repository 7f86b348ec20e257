package chunks

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rand0mdevel0per/pyser/hash"
)

// Store is the Chunk Store interface from spec section 4.1: Intern is
// idempotent (equal bytes return the same chunk), Get retrieves by id.
// Unlike the teacher's ChunkStore, there is no Root/Commit: a Store's
// lifetime is exactly one encode or decode call.
type Store interface {
	// Intern returns the id for data, assigning a new one in first-seen
	// order if data has not been seen before.
	Intern(data []byte) hash.Hash
	// Get returns the bytes for id and whether id was present.
	Get(id hash.Hash) ([]byte, bool)
	// GetChunk returns the Chunk for id and whether id was present,
	// letting a caller run Chunk.Verify() against the id it looked up by.
	GetChunk(id hash.Hash) (Chunk, bool)
	// PutRaw inserts data under a hash the caller already computed,
	// trusting it without rehashing. Used by InternParallel to consume a
	// worker pool's precomputed hashes, and by the Envelope Codec to
	// rebuild a Store from a decoded wire document.
	PutRaw(id hash.Hash, data []byte)
	// Ids returns every known chunk id, in first-seen (assignment) order.
	Ids() []hash.Hash
	// Len returns the number of distinct chunks interned.
	Len() int
}

// MemoryStore is an in-memory Store, the only implementation this package
// ships — the envelope is fully materialized in memory per spec section 5
// (memory usage is O(total graph bytes), no streaming mode). Chunks are
// built via ChunkWriter before being stored, matching the teacher's
// write-then-freeze idiom for a single blob.
type MemoryStore struct {
	byHash map[hash.Hash]Chunk
	order  []hash.Hash
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byHash: map[hash.Hash]Chunk{}}
}

func (s *MemoryStore) Intern(data []byte) hash.Hash {
	w := NewChunkWriter()
	w.Write(data)
	c := w.Chunk()
	if _, ok := s.byHash[c.Hash()]; !ok {
		s.byHash[c.Hash()] = c
		s.order = append(s.order, c.Hash())
	}
	return c.Hash()
}

func (s *MemoryStore) Get(id hash.Hash) ([]byte, bool) {
	c, ok := s.byHash[id]
	if !ok {
		return nil, false
	}
	return c.Data(), true
}

func (s *MemoryStore) GetChunk(id hash.Hash) (Chunk, bool) {
	c, ok := s.byHash[id]
	return c, ok
}

func (s *MemoryStore) Ids() []hash.Hash {
	out := make([]hash.Hash, len(s.order))
	copy(out, s.order)
	return out
}

func (s *MemoryStore) Len() int {
	return len(s.order)
}

// PutRaw inserts data under a hash the caller already computed, without
// recomputing it. Two callers rely on that: InternParallel, consuming a
// worker pool's precomputed hashes without hashing each blob a second
// time, and the Envelope Codec, rebuilding a Store from a decoded wire
// document — there the chunk id travels on the wire alongside the bytes,
// and a corrupted envelope's id may legitimately disagree with the
// bytes' true hash, a disagreement the Graph Decoder's blob assembly
// must still be able to catch via Verify() later, which is why this
// stores the given id paired with the bytes rather than recomputing and
// silently repairing it.
func (s *MemoryStore) PutRaw(id hash.Hash, data []byte) {
	c := NewChunkWithHash(id, data)
	if _, ok := s.byHash[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byHash[id] = c
}

// InternParallel hashes each of datas concurrently across a bounded worker
// pool, then inserts each chunk under its precomputed hash sequentially
// via PutRaw (insertion itself stays sequential to preserve first-seen
// assignment order deterministically, and to avoid hashing each blob
// again the way a second Intern call would). This is the "optional
// multiple worker threads for per-chunk hashing" allowance from spec
// section 5: chunks are independent and hashing commutes, so the result
// is identical regardless of scheduling.
func InternParallel(ctx context.Context, s Store, datas [][]byte, workers int) ([]hash.Hash, error) {
	if workers < 1 {
		workers = 1
	}
	hashes := make([]hash.Hash, len(datas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range datas {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			hashes[i] = hash.Of(datas[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, data := range datas {
		s.PutRaw(hashes[i], data)
	}
	return hashes, nil
}

// SplitChunks divides data into ordered sub-chunks no larger than
// threshold bytes each, per spec section 4.1's sub-chunking rule for
// values exceeding the configured threshold.
func SplitChunks(data []byte, threshold int) [][]byte {
	if threshold <= 0 || len(data) <= threshold {
		return [][]byte{data}
	}
	var parts [][]byte
	for off := 0; off < len(data); off += threshold {
		end := off + threshold
		if end > len(data) {
			end = len(data)
		}
		parts = append(parts, data[off:end])
	}
	return parts
}

// SortedIds returns the chunk ids of s sorted lexicographically, useful for
// deterministic test assertions and CLI output irrespective of insertion
// order.
func SortedIds(s Store) []hash.Hash {
	ids := s.Ids()
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}
