package weakprng

import "io"

var _ io.Reader = (*ByteSource)(nil)

// ByteSource turns a FloatFunc into a byte stream. Each output contributes its
// 52 mantissa bits to one continuous little-endian bit stream; bytes not yet
// served stay in the cache for the next request, so successive requests
// partition the packed output stream without gaps or overlaps.
//
// Fills are not re-packed from a byte boundary: a fill of n outputs grows the
// cache by EncodedLen(n) bytes, or by EncodedLen(n)-1 when the previous fill
// ended on a half byte that the new outputs complete.
//
// A ByteSource is not safe for concurrent use.
type ByteSource struct {
	next  FloatFunc
	cache []byte
	half  bool // Last cache byte holds only the low nibble of a mantissa
	calls int
}

// NewByteSource returns an empty ByteSource drawing outputs from next.
func NewByteSource(next FloatFunc) *ByteSource {
	return &ByteSource{next: next}
}

// Fill generates ceil(size*8/52) whole outputs and appends their bits to the
// cache, so at least size more bytes become servable.
func (b *ByteSource) Fill(size int) {
	if size <= 0 {
		return
	}
	n := (size*8 + MantissaBits - 1) / MantissaBits
	ms := make([]uint64, n)
	for i := range ms {
		ms[i] = OutputToMantissa(b.next())
	}
	b.calls += n
	b.appendMantissas(ms)
	traceLog("byte source: generated %d outputs, %d bytes buffered", n, b.Buffered())
}

func (b *ByteSource) appendMantissas(ms []uint64) {
	if !b.half {
		b.cache = append(b.cache, EncodeMantissas(ms)...)
		b.half = len(ms)%2 == 1
		return
	}

	// The stream continues 4 bits into the last byte: encode behind a zero
	// mantissa so ms[0] lands on an odd index, then splice at that byte.
	enc := EncodeMantissas(append([]uint64{0}, ms...))
	const splice = MantissaBits / 8
	last := len(b.cache) - 1
	enc[splice] |= b.cache[last] & 0x0F
	b.cache = append(b.cache[:last], enc[splice:]...)
	b.half = len(ms)%2 == 0
}

// Bytes returns the next size bytes, generating outputs only for the part the
// cache cannot serve.
func (b *ByteSource) Bytes(size int) []byte {
	if size <= 0 {
		return []byte{}
	}
	if deficit := size - b.Buffered(); deficit > 0 {
		b.Fill(deficit)
	}
	out := make([]byte, size)
	copy(out, b.cache)
	b.cache = b.cache[size:]
	return out
}

// Read fills p completely. It never returns an error.
func (b *ByteSource) Read(p []byte) (int, error) {
	copy(p, b.Bytes(len(p)))
	return len(p), nil
}

// Buffered returns the number of bytes that can be served without drawing
// new outputs.
func (b *ByteSource) Buffered() int {
	if b.half {
		return len(b.cache) - 1
	}
	return len(b.cache)
}

// Calls returns how many outputs have been drawn from the FloatFunc.
func (b *ByteSource) Calls() int {
	return b.calls
}
