package huffcodec

import (
	"fmt"
	"strconv"

	"github.com/chronos-tachyon/assert"
)

// MaxCodeSize is the longest Code that can be represented.
const MaxCodeSize = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant of
	// the Size low-order bits is the first bit.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	assert.Assertf(size <= MaxCodeSize, "code size %d > MaxCodeSize %d", size, MaxCodeSize)
	return Code{Size: size, Bits: bits}
}

// Append returns the Code extended by one more bit.
func (hc Code) Append(bit bool) Code {
	assert.Assertf(hc.Size < MaxCodeSize, "code size %d would exceed MaxCodeSize %d", hc.Size+1, MaxCodeSize)
	hc.Bits <<= 1
	if bit {
		hc.Bits |= 1
	}
	hc.Size++
	return hc
}

// Bit returns the i'th bit of the Code, counting from the first bit.
func (hc Code) Bit(i byte) bool {
	assert.Assertf(i < hc.Size, "bit index %d >= code size %d", i, hc.Size)
	return (hc.Bits>>(hc.Size-1-i))&1 != 0
}

// IsPrefixOf returns true if every bit of hc is also the leading bit sequence
// of other.  A Code is a prefix of itself.
func (hc Code) IsPrefixOf(other Code) bool {
	if hc.Size > other.Size {
		return false
	}
	return other.Bits>>(other.Size-hc.Size) == hc.Bits
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return strconv.Quote(fmt.Sprintf(format, hc.Bits))
}

var _ fmt.Stringer = Code{}
