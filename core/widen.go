package core

// Integer is every register width that widens to int64 without loss.
// 64-bit sources are deliberately absent: uint64 does not fit.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32
}

// Float is every floating register width that widens to float64 exactly.
type Float interface {
	~float32 | ~float64
}

type wide interface {
	int64 | Real
}

// WidenInt widens an integral register to the canonical signed integer.
func WidenInt[S Integer](v S) int64 { return int64(v) }

// WidenFloat widens a floating register to double precision. Non-finite
// values are kept as they are; Real gives them a wire form.
func WidenFloat[S Float](v S) Real { return Real(v) }

// WidenInts widens a register array element-wise. The result always has the
// source length and order, and never aliases the source.
func WidenInts[S Integer](vs []S) []int64 { return widenAll[int64](vs) }

// WidenFloats is WidenInts for floating registers.
func WidenFloats[S Float](vs []S) []Real { return widenAll[Real](vs) }

func widenAll[D wide, S Integer | Float](vs []S) []D {
	out := make([]D, len(vs))
	for i, v := range vs {
		out[i] = D(v)
	}
	return out
}
