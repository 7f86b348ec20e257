// Package value is the Go stand-in for the dynamically-typed host runtime
// objects spec.md's graph encoder/decoder operates on. In the original
// system this role is played by live Python objects, received and
// materialized by a host-language binding layer that spec.md explicitly
// places out of scope. Since this port has no CPython to bind to, callers
// (the CLI, tests, or a future real binding) build and read these Value
// graphs directly — this package is the seam spec.md describes as
// "external collaborator", made concrete.
package value

import "strconv"

// Kind tags every node kind enumerated in spec.md section 3.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindByteArray
	KindBufferView
	KindList
	KindTuple
	KindSet
	KindFrozenSet
	KindMap
	KindAggregate
	KindCode
	KindCallable
)

// String returns the wire-format kind tag, matching the `type` field in
// spec.md section 6's envelope schema.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindByteArray:
		return "bytearray"
	case KindBufferView:
		return "bufferview"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindSet:
		return "set"
	case KindFrozenSet:
		return "frozenset"
	case KindMap:
		return "map"
	case KindAggregate:
		return "aggregate"
	case KindCode:
		return "code"
	case KindCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// kindFromString inverts Kind.String, for wire decoding.
func kindFromString(s string) (Kind, bool) {
	for k := KindNull; k <= KindCallable; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// MarshalJSON writes the wire-format kind tag, not the numeric value, so
// an envelope's node "type" field reads as "list", "map" and so on.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON parses a wire-format kind tag.
func (k *Kind) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, ok := kindFromString(s)
	if !ok {
		return &unknownKindError{s}
	}
	*k = parsed
	return nil
}

type unknownKindError struct{ s string }

func (e *unknownKindError) Error() string { return "value: unknown kind " + strconv.Quote(e.s) }

// Value is implemented by every node kind's Go representation. Scalars
// implement it with value receivers (two equal scalars may legitimately
// collapse to one node id, per spec.md's identity rules), and so does
// Bytes, a slice type; every other kind implements it on a pointer type so
// Go pointer identity can back the encoder's identity map and preserve
// sharing and cycles.
type Value interface {
	Kind() Kind
}

// Reducer is implemented by a Callable that carries a host-supplied custom
// serialization hook (Python's __reduce__/__reduce_ex__). When present and
// the encoder's SanitizeRuntimeReduce option is false, the encoder prefers
// this substitute value over the code-object path; see package graph's
// encodeCallable and graph.Options.
type Reducer interface {
	Reduce() Value
}
