package envelope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rand0mdevel0per/pyser/graph"
	"github.com/rand0mdevel0per/pyser/value"
)

func TestEncodeDecodeRoundTrips(t *testing.T) {
	opts := graph.DefaultOptions()
	v := value.NewList(value.NewInt(1), value.String("x"), value.Bytes("blob"))

	doc, err := graph.Encode(context.Background(), v, opts)
	require.NoError(t, err)

	framed, err := Encode(doc, opts)
	require.NoError(t, err)
	assert.Equal(t, magic[:], framed[:len(magic)])
	assert.Equal(t, version, framed[len(magic)])

	back, err := Decode(framed, opts)
	require.NoError(t, err)
	assert.Equal(t, doc.RootID, back.RootID)
	assert.Equal(t, doc.Nodes.Len(), back.Nodes.Len())
	assert.Equal(t, doc.Pointers.Len(), back.Pointers.Len())
	assert.Equal(t, doc.Chunks.Len(), back.Chunks.Len())
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	_, err := Decode([]byte{'P', 'Y'}, graph.DefaultOptions())
	require.Error(t, err)
	var gerr *graph.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, graph.ErrMalformedEnvelope, gerr.Kind)
}

func TestDecodeRejectsWrongMagic(t *testing.T) {
	bad := []byte{'X', 'X', 'X', 'X', version, 0, 0, 0}
	_, err := Decode(bad, graph.DefaultOptions())
	require.Error(t, err)
	var gerr *graph.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, graph.ErrMalformedEnvelope, gerr.Kind)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	bad := append([]byte{magic[0], magic[1], magic[2], magic[3], version + 1}, []byte{0, 0}...)
	_, err := Decode(bad, graph.DefaultOptions())
	require.Error(t, err)
	var gerr *graph.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, graph.ErrMalformedEnvelope, gerr.Kind)
}

func TestDecodeRejectsCorruptCompressedBody(t *testing.T) {
	opts := graph.DefaultOptions()
	doc, err := graph.Encode(context.Background(), value.NewInt(1), opts)
	require.NoError(t, err)
	framed, err := Encode(doc, opts)
	require.NoError(t, err)

	corrupted := append([]byte{}, framed...)
	for i := headerLen; i < len(corrupted); i++ {
		corrupted[i] ^= 0xff
	}

	_, err = Decode(corrupted, opts)
	require.Error(t, err)
	var gerr *graph.Error
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, []graph.ErrorKind{graph.ErrMalformedEnvelope, graph.ErrIOFailure}, gerr.Kind)
}
