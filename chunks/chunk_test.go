package chunks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	c := NewChunk([]byte("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", c.Hash().String())
	assert.True(t, c.Verify())
}

func TestChunkEmpty(t *testing.T) {
	assert.True(t, EmptyChunk().IsEmpty())
}

func TestChunkWriteAfterCloseFails(t *testing.T) {
	assert := assert.New(t)
	w := NewChunkWriter()
	_, err := w.Write([]byte("abc"))
	assert.NoError(err)
	assert.NoError(w.Close())
	assert.Panics(func() { w.Write([]byte("abc")) })
}

func TestChunkWriteAfterChunkFails(t *testing.T) {
	assert := assert.New(t)
	w := NewChunkWriter()
	_, err := w.Write([]byte("abc"))
	assert.NoError(err)
	c := w.Chunk()
	assert.Equal("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", c.Hash().String())
	assert.Panics(func() { w.Write([]byte("abc")) })
}
