package value

// Bytes is an immutable binary blob. Per spec.md's identity rules,
// interning of equal byte strings is permitted but not required, so Bytes
// is a value type like the scalars rather than a pointer type.
type Bytes []byte

func (Bytes) Kind() Kind { return KindBytes }

// ByteArray is a mutable binary blob with observable identity (two
// references to the same bytearray must decode back to the same object),
// so it is always handled by pointer.
type ByteArray struct {
	Data []byte
}

func (*ByteArray) Kind() Kind { return KindByteArray }

// NewByteArray wraps data in a fresh *ByteArray.
func NewByteArray(data []byte) *ByteArray {
	return &ByteArray{Data: data}
}

// BufferView models a memoryview over a (possibly non-contiguous) buffer.
// Per spec.md's open question, non-contiguous views are linearized: Data
// holds the C-contiguous bytes, while Shape/Strides record the logical
// layout so the view's shape survives the round trip even though the
// byte order on the wire is always linear.
type BufferView struct {
	Data    []byte
	Shape   []int
	Strides []int
}

func (*BufferView) Kind() Kind { return KindBufferView }

// NewBufferView builds a BufferView over already-linearized data.
func NewBufferView(data []byte, shape, strides []int) *BufferView {
	return &BufferView{Data: data, Shape: shape, Strides: strides}
}
