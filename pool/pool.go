// Package pool hands out precalculated safe primes. Generating a safe prime
// is slow and its duration varies wildly, so latency-sensitive callers can
// fill a pool ahead of time and fetch from it when keys are actually needed.
package pool

import (
	"github.com/go-errors/errors"
	num "github.com/shabbyrobe/go-num"
	"github.com/sirupsen/logrus"

	"github.com/dwaalwijk/safeprime"
)

var Logger *logrus.Logger = logrus.StandardLogger()

// ErrEmpty is returned by Fetch when the pool holds no safe prime of the
// requested size.
var ErrEmpty = errors.New("pool: no stored safe prime of requested size")

// A Pool stores safe primes by bit length.
type Pool interface {
	// Fetch removes and returns a stored safe prime with exactly the given
	// number of bits, or ErrEmpty when none is available.
	Fetch(bits uint) (num.U128, error)

	// Store adds the safe prime p to the pool.
	Store(p num.U128) error
}

// SafePrime returns a safe prime with exactly the given number of bits,
// preferring the pool and falling back to fresh generation when the pool
// cannot deliver.
func SafePrime(pool Pool, bits uint) (num.U128, error) {
	p, err := pool.Fetch(bits)
	if err != nil {
		return safeprime.New(bits)
	}
	return p, nil
}
