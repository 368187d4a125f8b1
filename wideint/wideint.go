// Package wideint implements modular arithmetic on 128-bit unsigned integers
// by widening intermediate products to 256 bits, so that no multiplication can
// overflow before reduction.
//
// None of the operations in this package are constant-time: the cost of the
// reduction and the branches of the exponentiation ladder depend on the bit
// patterns of the operands. Do not use them with secret exponents if timing
// side channels are a concern.
package wideint

import (
	"math/bits"

	"github.com/go-errors/errors"
	num "github.com/shabbyrobe/go-num"
)

var (
	zero = num.U128{}
	one  = num.U128From64(1)
)

// NonZero wraps a U128 that is guaranteed to be non-zero, so that consumers
// may divide by it without re-checking.
type NonZero struct {
	v num.U128
}

// NewNonZero wraps x, refusing the zero value.
func NewNonZero(x num.U128) (NonZero, error) {
	if x.IsZero() {
		return NonZero{}, errors.New("wideint: value is zero")
	}
	return NonZero{v: x}, nil
}

// MustNonZero is like NewNonZero but panics on a zero value.
func MustNonZero(x num.U128) NonZero {
	nz, err := NewNonZero(x)
	if err != nil {
		panic(err)
	}
	return nz
}

// Uint returns the wrapped value.
func (m NonZero) Uint() num.U128 { return m.v }

// wide promotes the wrapped value to 256 bits by zero-extension, which
// preserves the non-zero invariant.
func (m NonZero) wide() num.U256 { return widen(m.v) }

// widen zero-extends x to 256 bits.
func widen(x num.U128) num.U256 {
	return num.U256From128(x)
}

// split breaks a 256-bit value into its 128-bit halves. split and the
// concatenation performed by WideMul are exact inverses.
func split(x num.U256) (hi, lo num.U128) {
	return x.Rsh(128).AsU128(), x.AsU128()
}

// WideMul returns the exact 256-bit product of x and y.
func WideMul(x, y num.U128) num.U256 {
	xhi, xlo := x.Raw()
	yhi, ylo := y.Raw()

	// Schoolbook multiplication over four 64-bit limbs. The carries out of
	// the middle columns feed the top limb; the full product always fits
	// in 256 bits, so the top limb cannot overflow.
	h0, w0 := bits.Mul64(xlo, ylo)
	h1, l1 := bits.Mul64(xlo, yhi)
	h2, l2 := bits.Mul64(xhi, ylo)
	w3, l3 := bits.Mul64(xhi, yhi)

	w1, c1 := bits.Add64(h0, l1, 0)
	w1, c2 := bits.Add64(w1, l2, 0)
	w2, c3 := bits.Add64(h1, h2, c1)
	w2, c4 := bits.Add64(w2, l3, c2)
	w3 += c3 + c4

	return num.U256From128(num.U128FromRaw(w3, w2)).Lsh(128).
		Or(num.U256From128(num.U128FromRaw(w1, w0)))
}

// MulMod returns x*y mod m. The product is computed at 256 bits before
// reduction, so the operands may take any 128-bit value.
func MulMod(x, y num.U128, m NonZero) num.U128 {
	r := WideMul(x, y).Rem(m.wide())
	// r < m, so the high half of r is zero by construction.
	_, lo := split(r)
	return lo
}

// ModPow returns x^e mod m using the textbook square-and-multiply ladder,
// scanning the exponent from its least significant bit.
//
// A zero base yields zero for every exponent, including e = 0. This matches
// the behaviour of the callers this package was written for and is pinned by
// a test; it deliberately differs from the usual 0^0 = 1 convention.
func ModPow(x, e num.U128, m NonZero) num.U128 {
	if x.IsZero() {
		return x
	}
	if e.IsZero() {
		return one
	}

	thisPower := x.Rem(m.Uint())
	result := one
	for i, n := uint(0), BitLen(e); i < n; i++ {
		if Bit(e, i) {
			result = MulMod(result, thisPower, m)
		}
		thisPower = MulMod(thisPower, thisPower, m)
	}
	return result
}

// BitLen returns the number of significant bits in x; BitLen of zero is 0.
func BitLen(x num.U128) uint {
	return 128 - x.LeadingZeros()
}

// Bit reports whether bit i of x is set. Indices at or beyond BitLen(x) read
// as zero.
func Bit(x num.U128, i uint) bool {
	if i >= BitLen(x) {
		return false
	}
	_, lo := x.Rsh(i).Raw()
	return lo&1 == 1
}

// AddMod returns x+y mod m for x, y < m.
func AddMod(x, y num.U128, m NonZero) num.U128 {
	sum := x.Add(y)
	// A wrapped sum is detected by sum < x; subtracting m then also undoes
	// the wrap, since the true sum is below 2m.
	if sum.Cmp(x) < 0 || sum.Cmp(m.v) >= 0 {
		sum = sum.Sub(m.v)
	}
	return sum
}

// SubMod returns x-y mod m for x, y < m.
func SubMod(x, y num.U128, m NonZero) num.U128 {
	if x.Cmp(y) >= 0 {
		return x.Sub(y)
	}
	return m.v.Sub(y).Add(x)
}
