// Package bitmap provides utilities for operating on densely-packed sequences
// of measured bits.
package bitmap

import (
	"errors"
	"fmt"
	"strings"
)

// TODO: this could be more efficient on many architectures if we used larger
//   blocks than 8-bit bytes.
const byteSize = 8

// ErrOverflow is returned when a sequence is too long to decode into a
// machine integer.
var ErrOverflow = errors.New("bit sequence longer than 64 bits")

// A Dense is a bitmap where every bit is explicitly represented. Bit 0 is the
// first bit appended.
type Dense struct {
	bits []byte
	len  int
}

// FromString converts a string of '1's and '0's to a Dense. Spaces are
// ignored.
func FromString(s string) (Dense, error) {
	d := Dense{}
	for _, c := range s {
		switch c {
		case '1':
			d.AppendBit(true)
		case '0':
			d.AppendBit(false)
		case ' ':
			continue
		default:
			return Dense{}, fmt.Errorf("invalid bitmap string rep: %s", s)
		}
	}
	return d, nil
}

// FromBools builds a Dense holding bs in order.
func FromBools(bs []bool) Dense {
	d := Dense{bits: make([]byte, 0, BytesFor(len(bs)))}
	for _, b := range bs {
		d.AppendBit(b)
	}
	return d
}

// Get returns the i-th bit in this bitmap.
func (d Dense) Get(i int) bool {
	if i < 0 || i >= d.len {
		return false
	}
	return 0 < d.bits[i/byteSize]&(1<<(i%byteSize))
}

// Size returns the number of bits in this bitmap.
func (d Dense) Size() int {
	return d.len
}

// SizeBytes returns the number of bytes in this bitmap.
func (d Dense) SizeBytes() int {
	return BytesFor(d.len)
}

// AppendBit adds a single bit to the end of d.
func (d *Dense) AppendBit(bit bool) {
	i, pos := d.len/byteSize, d.len%byteSize
	d.len += 1
	if pos == 0 && i >= len(d.bits) {
		d.bits = append(d.bits, 0)
	}
	if bit {
		d.bits[i] |= 1 << pos
	} else {
		d.bits[i] &= ^(1 << pos)
	}
}

// Uint64 interprets d as a binary numeral whose first bit is the most
// significant. An empty bitmap decodes to 0.
func (d Dense) Uint64() (uint64, error) {
	if d.len > 64 {
		return 0, fmt.Errorf("decoding %d bits: %w", d.len, ErrOverflow)
	}
	var v uint64
	for i := 0; i < d.len; i++ {
		v <<= 1
		if d.Get(i) {
			v |= 1
		}
	}
	return v, nil
}

// String renders d as '1's and '0's, first bit leftmost.
func (d Dense) String() string {
	var sb strings.Builder
	sb.Grow(d.len)
	for i := 0; i < d.len; i++ {
		if d.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Equal returns true iff a and b have the same length and contain the same
// bits.
func Equal(a, b Dense) bool {
	if a.len != b.len {
		return false
	}
	for i := 0; i < a.SizeBytes(); i++ {
		m := lastByteMask(a, i)
		if a.bits[i]&m != b.bits[i]&m {
			return false
		}
	}
	return true
}

// BytesFor returns the number of bytes necessary to hold the provided number of
// bits.
func BytesFor(bits int) int {
	return (bits + byteSize - 1) / byteSize
}

// lastByteMask masks off bits of block i that lie past the end of d.
func lastByteMask(d Dense, i int) byte {
	over := (i+1)*byteSize - d.len
	if over <= 0 {
		return 0xFF
	}
	return 0xFF >> over
}
