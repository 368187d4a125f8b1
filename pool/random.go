package pool

import (
	num "github.com/shabbyrobe/go-num"

	"github.com/dwaalwijk/safeprime"
)

// Generating is a Pool without storage: every Fetch generates a fresh safe
// prime and Store discards its argument. It is a drop-in stand-in where a
// precalculated pool is not available.
type Generating struct{}

func (Generating) Fetch(bits uint) (num.U128, error) {
	return safeprime.New(bits)
}

func (Generating) Store(num.U128) error {
	return nil
}
