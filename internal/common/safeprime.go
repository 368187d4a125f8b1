package common

import (
	"io"

	"github.com/go-errors/errors"
	num "github.com/shabbyrobe/go-num"

	"github.com/dwaalwijk/safeprime/random"
	"github.com/dwaalwijk/safeprime/wideint"
)

// Number of Miller-Rabin rounds applied to a candidate q during generation.
// Pocklington's criterion and the final Baillie-PSW check back this up, so a
// modest count is enough here.
const genRounds = 20

// GenSafePrime searches for a safe prime with exactly the given number of
// bits, drawing candidates from rand. Sending on stop (or closing it) cancels
// the search, in which case a zero value and nil error are returned; passing
// a nil channel disables cancellation.
//
// The search generates q with bits-1 bits, forced odd, and tests p = 2q+1:
//   - q = 1 (mod 3) makes p a multiple of 3, so half of all candidates are
//     rejected with a single small division;
//   - q and p are sieved against SmallPrimes before anything expensive runs;
//   - q is tested with Miller-Rabin; p then only needs Pocklington's
//     criterion 2^(p-1) = 1 (mod p), which proves p prime given q prime.
//
// bits must be at least 8 and at most 128; wider requests cannot be
// represented and panic.
func GenSafePrime(rand io.Reader, bits uint, stop <-chan struct{}) (num.U128, error) {
	if bits > 128 {
		panic("common: bit length exceeds the 128-bit word")
	}
	if bits < 8 {
		return num.U128{}, errors.Errorf("safe prime bit length %d is too small", bits)
	}

	for i := 1; ; i++ {
		// Every 1000 candidates, check if we have been asked to stop.
		if stop != nil && i%1000 == 0 {
			select {
			case <-stop:
				return num.U128{}, nil
			default:
			}
		}
		if i%50000 == 0 {
			Logger.Tracef("safeprime: examined %d candidates for %d bits", i, bits)
		}

		q := random.Bits(rand, bits-1).Or(one)
		if q.Rem(three).AsUint64() == 1 {
			continue
		}
		p := q.Lsh(1).Or(one) // p = 2q+1; q has bits-1 bits, so this cannot wrap

		if !coprimeToSmallPrimes(q) || !coprimeToSmallPrimes(p) {
			continue
		}
		if !MillerRabin(q, genRounds, rand) {
			continue
		}
		if !wideint.ModPow(two, p.Sub(one), wideint.MustNonZero(p)).Equal(one) {
			continue
		}

		// The candidate passed every test; re-verify it independently
		// rather than hand out a weak value on an implementation bug.
		if !IsSafePrimeBailliePSW(p) {
			return num.U128{}, errors.New("safe prime generation returned a non-safe prime")
		}
		return p, nil
	}
}

// IsSafePrime reports whether p is probably a safe prime, by running
// Miller-Rabin based primality tests on p as well as on (p-1)/2. Witnesses
// are drawn from rand.
func IsSafePrime(p num.U128, rounds int, rand io.Reader) bool {
	if p.Cmp(five) < 0 {
		return false
	}
	return ProbablyPrime(p, rounds, rand) && ProbablyPrime(p.Rsh(1), rounds, rand)
}

// IsSafePrimeBailliePSW reports whether p is probably a safe prime, by
// running a Baillie-PSW test on p as well as on (p-1)/2. It is deterministic
// and needs no random source.
func IsSafePrimeBailliePSW(p num.U128) bool {
	if p.Cmp(five) < 0 {
		return false
	}
	return BailliePSW(p) && BailliePSW(p.Rsh(1))
}
