// Package random draws uniformly distributed 128-bit unsigned integers from a
// cryptographically secure source.
//
// The source is any io.Reader producing cryptographic-quality bytes, such as
// crypto/rand.Reader or the CPRNG constructed by the safeprime front door. A
// read failure is treated as a broken environment and panics; callers that
// need a recoverable error must verify their source up front.
package random

import (
	"encoding/binary"
	"fmt"
	"io"

	num "github.com/shabbyrobe/go-num"

	"github.com/dwaalwijk/safeprime/wideint"
)

var one = num.U128From64(1)

// InRange returns a value uniformly distributed over [low, high).
//
// An empty range is a caller bug, not a recoverable condition: InRange panics
// rather than return a value that would silently violate the bounds.
func InRange(rand io.Reader, low, high num.U128) num.U128 {
	if high.Cmp(low) <= 0 {
		panic("random: zero range")
	}
	return belowUniform(rand, high.Sub(low)).Add(low)
}

// Bits returns a value whose highest set bit is exactly at index bitSize-1,
// i.e. a uniform draw from [2^(bitSize-1), 2^bitSize). It panics when bitSize
// is zero or exceeds 128 bits.
func Bits(rand io.Reader, bitSize uint) num.U128 {
	mask := one.Lsh(bitSize - 1)
	if mask.IsZero() {
		panic("random: too many bits for 128-bit value")
	}

	// For bitSize = 128 the doubled mask overflows to zero; fall back to
	// the largest non-zero modulus, which excludes only the all-ones value
	// from the draw below.
	modulo := mask.Lsh(1)
	if modulo.IsZero() {
		modulo = num.MaxU128
	}
	return belowUniform(rand, modulo).Or(mask)
}

// belowUniform returns a uniform draw from [0, modulo) for modulo > 0. It
// rejects and retries out-of-range draws instead of reducing them, so there is
// no modulo bias toward small residues. The expected number of iterations is
// below two; an adversarial source that never produces an in-range value would
// loop forever, which is the caller's risk to bound.
func belowUniform(rand io.Reader, modulo num.U128) num.U128 {
	bitlen := wideint.BitLen(modulo)

	// Surplus bits in the top byte are masked off so that each draw covers
	// [0, 2^bitlen), the smallest power-of-two domain containing modulo.
	b := bitlen % 8
	if b == 0 {
		b = 8
	}

	buf := make([]byte, (bitlen+7)/8)
	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			panic(fmt.Sprintf("random: source read failed: %v", err))
		}
		buf[0] &= uint8(int(1<<b) - 1)

		v := fromBytes(buf)
		if v.Cmp(modulo) < 0 {
			return v
		}
	}
}

// fromBytes interprets up to 16 big-endian bytes as a U128.
func fromBytes(buf []byte) num.U128 {
	var raw [16]byte
	copy(raw[16-len(buf):], buf)
	return num.U128FromRaw(
		binary.BigEndian.Uint64(raw[:8]),
		binary.BigEndian.Uint64(raw[8:]),
	)
}
