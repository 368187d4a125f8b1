package random

import (
	"io"

	num "github.com/shabbyrobe/go-num"
)

// Randoms yields a fixed number of uniform draws from [lower, upper). It is a
// one-shot iterator: once the configured amount has been produced, Next keeps
// reporting exhaustion. The zero value is not usable; construct with
// NewRandoms.
//
// Primality tests iterate over Randoms to select witnesses. WithAppended lets
// such a caller force a known witness to appear at a fixed position while the
// remaining draws stay genuinely random, which keeps test vectors reproducible
// without touching the sampling contract itself.
type Randoms struct {
	appended *num.U128
	lower    num.U128
	upper    num.U128
	amount   int
	rand     io.Reader
}

// NewRandoms returns an iterator over exactly amount draws from [lower, upper)
// using the given source. The source is owned by the iterator for its
// lifetime.
func NewRandoms(lower, upper num.U128, amount int, rand io.Reader) *Randoms {
	return &Randoms{
		lower:  lower,
		upper:  upper,
		amount: amount,
		rand:   rand,
	}
}

// WithAppended arranges for x to replace the final draw of the sequence. The
// total number of values yielded does not change. Only one value can be
// pending at a time; a second call replaces the first.
func (r *Randoms) WithAppended(x num.U128) *Randoms {
	r.appended = &x
	return r
}

// Next returns the next value in the sequence, or false once the configured
// amount has been yielded.
func (r *Randoms) Next() (num.U128, bool) {
	if r.amount <= 0 {
		return num.U128{}, false
	}
	r.amount--
	if r.amount == 0 && r.appended != nil {
		v := *r.appended
		r.appended = nil
		return v, true
	}
	return InRange(r.rand, r.lower, r.upper), true
}
