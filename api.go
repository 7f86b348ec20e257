package pyser

import (
	"context"
	"io"
	"os"

	"github.com/rand0mdevel0per/pyser/envelope"
	"github.com/rand0mdevel0per/pyser/graph"
	"github.com/rand0mdevel0per/pyser/value"
)

// Options configures both the Graph Encoder/Decoder and the Envelope
// Codec, matching spec.md section 6.
type Options = graph.Options

// DefaultOptions returns the zero-config Options spec.md section 6
// describes.
func DefaultOptions() Options {
	return graph.DefaultOptions()
}

// Serialize walks root into a Document and frames it into a self-
// describing, compressed byte slice — spec.md section 6's top-level
// "serialize" operation.
func Serialize(ctx context.Context, root value.Value, opts Options) ([]byte, error) {
	doc, err := graph.Encode(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	return envelope.Encode(doc, opts)
}

// Deserialize unframes data and reconstructs its graph — spec.md section
// 6's "deserialize" operation.
func Deserialize(ctx context.Context, data []byte, opts Options) (value.Value, error) {
	doc, err := envelope.Decode(data, opts)
	if err != nil {
		return nil, err
	}
	return graph.Decode(ctx, doc, opts)
}

// SerializeToFile is Serialize followed by a write to path, with the file
// handle released on every exit path (spec.md section 5).
func SerializeToFile(ctx context.Context, root value.Value, path string, opts Options) (err error) {
	data, err := Serialize(ctx, root, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return graph.WrapError(graph.ErrIOFailure, err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = graph.WrapError(graph.ErrIOFailure, cerr, "closing %s", path)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return graph.WrapError(graph.ErrIOFailure, err, "writing %s", path)
	}
	return nil
}

// DeserializeFromFile is Deserialize sourced from path, with the file
// handle released on every exit path (spec.md section 5).
func DeserializeFromFile(ctx context.Context, path string, opts Options) (value.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, graph.WrapError(graph.ErrIOFailure, err, "opening %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, graph.WrapError(graph.ErrIOFailure, err, "stat %s", path)
	}
	data := make([]byte, info.Size())
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, graph.WrapError(graph.ErrIOFailure, err, "reading %s", path)
	}
	return Deserialize(ctx, data, opts)
}
