package value

import "math/big"

// Null is the singleton null/None value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// Bool is a boolean scalar.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Int is an arbitrary-precision integer. On the wire it travels as a
// signed decimal string (node.Node.Int), not as raw sign and magnitude
// bytes.
type Int struct {
	V *big.Int
}

func (Int) Kind() Kind { return KindInt }

// NewInt wraps an int64 as an Int.
func NewInt(i int64) Int {
	return Int{V: big.NewInt(i)}
}

// NewIntFromBig wraps a *big.Int as an Int.
func NewIntFromBig(v *big.Int) Int {
	return Int{V: v}
}

// Float is an IEEE-754 double scalar.
type Float float64

func (Float) Kind() Kind { return KindFloat }

// String is a UTF-8 string scalar.
type String string

func (String) Kind() Kind { return KindString }
