// SPDX-License-Identifier: MIT

package matrix

// DType is the semantic element type of a matrix or operand.
//
// Storage is always float64. A Float32 matrix keeps its values rounded through
// float32 and rounds every numeric result it returns, so observable values
// match a float32 computation's storage precision. Integer dtypes exist for
// promotion only: matrices themselves must be float.
type DType uint8

const (
	// Int8 is an 8-bit signed integer (the natural indicator type of one-hot data).
	Int8 DType = iota + 1
	// Int32 is a 32-bit signed integer.
	Int32
	// Int64 is a 64-bit signed integer.
	Int64
	// Float32 is IEEE-754 single precision.
	Float32
	// Float64 is IEEE-754 double precision (default).
	Float64
)

// String returns the numpy-style dtype name.
func (t DType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "invalid"
	}
}

// Valid reports whether t is one of the declared dtypes.
func (t DType) Valid() bool { return t >= Int8 && t <= Float64 }

// IsFloat reports whether t is a floating-point dtype.
func (t DType) IsFloat() bool { return t == Float32 || t == Float64 }

// bits returns the storage width of t.
func (t DType) bits() int {
	switch t {
	case Int8:
		return 8
	case Int32, Float32:
		return 32
	case Int64, Float64:
		return 64
	default:
		return 0
	}
}

// Promote returns the result dtype of a binary numeric operation on a and b.
// It is a pure function; the rules follow numpy's result_type on this subset:
//   - int × int     → the wider int;
//   - float × float → the wider float;
//   - int × float   → the float if it represents every int value exactly
//     (Int8 × Float32 → Float32), else Float64.
//
// An invalid operand yields an invalid (zero) DType.
func Promote(a, b DType) DType {
	if !a.Valid() || !b.Valid() {
		return 0
	}
	switch {
	case a.IsFloat() == b.IsFloat():
		if a.bits() >= b.bits() {
			return a
		}
		return b
	case a.IsFloat():
		return promoteMixed(b, a)
	default:
		return promoteMixed(a, b)
	}
}

// promoteMixed handles int × float. A float32 mantissa holds 24 bits, enough
// for Int8 only.
func promoteMixed(i, f DType) DType {
	if f == Float32 && i.bits() <= 16 {
		return Float32
	}

	return Float64
}

// promoteAll folds Promote over a non-empty list.
func promoteAll(ts ...DType) DType {
	out := ts[0]
	for _, t := range ts[1:] {
		out = Promote(out, t)
	}

	return out
}

// round returns v as stored under t.
func (t DType) round(v float64) float64 {
	if t == Float32 {
		return float64(float32(v))
	}

	return v
}

// roundInPlace applies round to every element; a no-op for Float64.
func (t DType) roundInPlace(xs []float64) []float64 {
	if t != Float32 {
		return xs
	}
	for i, v := range xs {
		xs[i] = float64(float32(v))
	}

	return xs
}
