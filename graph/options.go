package graph

import "github.com/rand0mdevel0per/pyser/value"

// DefaultChunkThreshold is the single-chunk cap before sub-chunking
// (spec.md section 6): 1 MiB.
const DefaultChunkThreshold = 1 << 20

// DefaultCompressionLevel is the envelope compressor's default level
// (spec.md section 6).
const DefaultCompressionLevel = 3

// Options configures the encoder and decoder, matching spec.md section 6
// exactly, plus the ParallelHashing/Registry fields this port adds as
// ambient configuration (worker-pool hashing from section 5, and the
// Aggregate Reconstructor's type registry from section 4.6).
type Options struct {
	// SanitizeRuntimeReduce neutralizes a callable's custom
	// serialization hook (value.Reducer) during encode when true, so the
	// code-object path is always taken. Default false.
	SanitizeRuntimeReduce bool

	// ChunkThreshold is the single-chunk cap in bytes before
	// sub-chunking a blob. Default DefaultChunkThreshold.
	ChunkThreshold int

	// CompressionLevel is forwarded to the envelope compressor.
	// Default DefaultCompressionLevel.
	CompressionLevel int

	// ParallelHashing is the worker pool size used when interning many
	// sub-chunks of one oversized blob. 0 or 1 means sequential.
	ParallelHashing int

	// Registry resolves aggregate module+qualname to a live Instance
	// factory during decode. Defaults to value.DefaultRegistry.
	Registry *value.Registry
}

// DefaultOptions returns the zero-config Options spec.md section 6
// describes.
func DefaultOptions() Options {
	return Options{
		ChunkThreshold:   DefaultChunkThreshold,
		CompressionLevel: DefaultCompressionLevel,
		Registry:         value.DefaultRegistry,
	}
}

// Normalized is the exported form of normalized, for sibling packages
// (envelope, the root API) that need to apply the same defaulting
// without duplicating it.
func (o Options) Normalized() Options {
	return o.normalized()
}

func (o Options) normalized() Options {
	if o.ChunkThreshold <= 0 {
		o.ChunkThreshold = DefaultChunkThreshold
	}
	if o.CompressionLevel <= 0 {
		o.CompressionLevel = DefaultCompressionLevel
	}
	if o.Registry == nil {
		o.Registry = value.DefaultRegistry
	}
	return o
}
