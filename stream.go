package weakprng

import "encoding/binary"

// Mantissas are packed back to back in little-endian order, 52 bits each, so
// every pair of mantissas spans exactly 13 bytes: even indices start on a byte
// boundary, odd indices start 4 bits into a byte.

// EncodedLen returns the number of bytes needed to pack n mantissas.
func EncodedLen(n int) int {
	return (n*MantissaBits + 7) / 8
}

// DecodedLen returns the number of whole mantissas held by n bytes.
func DecodedLen(n int) int {
	return n * 8 / MantissaBits
}

// windowOffset returns the byte offset of the 8-byte window holding mantissa i.
func windowOffset(i int) int {
	if i%2 == 0 {
		return i * MantissaBits / 8
	}
	return (i*MantissaBits - 4) / 8
}

// DecodeMantissas unpacks every whole mantissa held by buf. Trailing bits that
// do not form a whole mantissa are ignored; a buffer shorter than 52 bits
// decodes to nil.
func DecodeMantissas(buf []byte) []uint64 {
	n := DecodedLen(len(buf))
	if n == 0 {
		return nil
	}

	// The last window may run up to 2 bytes past the data.
	padded := make([]byte, len(buf)+2)
	copy(padded, buf)

	ms := make([]uint64, n)
	for i := range ms {
		w := binary.LittleEndian.Uint64(padded[windowOffset(i):])
		if i%2 == 1 {
			w >>= 4
		}
		ms[i] = w & MantissaMask
	}
	return ms
}

// EncodeMantissas packs the low 52 bits of each mantissa into exactly
// EncodedLen(len(ms)) bytes.
func EncodeMantissas(ms []uint64) []byte {
	n := len(ms)
	if n == 0 {
		return []byte{}
	}

	// Every write is a full 8-byte word; size the scratch buffer for the last one.
	buf := make([]byte, windowOffset(n-1)+8)
	for i, m := range ms {
		m &= MantissaMask
		off := windowOffset(i)
		if i%2 == 1 {
			// The low nibble of this byte holds the top bits of mantissa i-1.
			m = m<<4 | uint64(buf[off]&0x0F)
		}
		binary.LittleEndian.PutUint64(buf[off:], m)
	}
	return buf[:EncodedLen(n)]
}

// BytesToFloats decodes buf into generator outputs in [0,1).
func BytesToFloats(buf []byte) []float64 {
	ms := DecodeMantissas(buf)
	if ms == nil {
		return nil
	}
	fs := make([]float64, len(ms))
	for i, m := range ms {
		fs[i] = MantissaToOutput(m)
	}
	return fs
}

// FloatsToBytes packs the mantissas of generator outputs in [0,1).
func FloatsToBytes(fs []float64) []byte {
	ms := make([]uint64, len(fs))
	for i, f := range fs {
		ms[i] = OutputToMantissa(f)
	}
	return EncodeMantissas(ms)
}
