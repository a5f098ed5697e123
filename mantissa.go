package weakprng

import "math"

const (
	// MantissaBits is the number of significand bits of an IEEE-754 double,
	// the only random bits of a generator output.
	MantissaBits = 52

	// MantissaMask selects the low MantissaBits bits.
	MantissaMask uint64 = 1<<MantissaBits - 1

	// oneBits is the bit pattern of 1.0: sign 0, exponent 0x3FF, mantissa 0.
	oneBits uint64 = 0x3FF0000000000000
)

// MantissaToFloat returns the double in [1,2) whose mantissa bits are the low
// 52 bits of m.
func MantissaToFloat(m uint64) float64 {
	return math.Float64frombits(m&MantissaMask | oneBits)
}

// FloatToMantissa returns the low 52 bits of the bit pattern of x. For x in
// [1,2) this inverts MantissaToFloat exactly.
func FloatToMantissa(x float64) uint64 {
	return math.Float64bits(x) & MantissaMask
}

// MantissaToOutput returns the generator output in [0,1) carrying mantissa m.
func MantissaToOutput(m uint64) float64 {
	return MantissaToFloat(m) - 1
}

// OutputToMantissa recovers the mantissa of a generator output in [0,1).
// Adding 1 is exact for every such output.
func OutputToMantissa(f float64) uint64 {
	return FloatToMantissa(f + 1)
}
