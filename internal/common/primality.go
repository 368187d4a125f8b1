package common

import (
	"io"

	num "github.com/shabbyrobe/go-num"

	"github.com/dwaalwijk/safeprime/random"
	"github.com/dwaalwijk/safeprime/wideint"
)

var (
	one   = num.U128From64(1)
	two   = num.U128From64(2)
	three = num.U128From64(3)
	five  = num.U128From64(5)
)

// SmallPrimes is a list of small prime numbers that allows us to rapidly
// exclude some fraction of composite candidates. The list is truncated at the
// point where the product of its elements exceeds a uint64. It does not
// include two because candidates are made odd by construction.
var SmallPrimes = []uint8{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53,
}

// smallPrimesProduct is the product of the values in SmallPrimes. Reducing a
// candidate by it once yields a uint64 remainder that can be tested against
// every element of SmallPrimes without further 128-bit arithmetic.
var smallPrimesProduct = num.U128From64(16294579238595022365)

// trialDivision classifies n by trial division against SmallPrimes. When the
// sieve alone settles primality, decided is true and isPrime holds the
// verdict; otherwise n is an odd candidate coprime to all of SmallPrimes and
// a probabilistic test has to take over.
func trialDivision(n num.U128) (isPrime, decided bool) {
	if n.Cmp(two) < 0 {
		return false, true
	}
	_, lo := n.Raw()
	if lo&1 == 0 {
		return n.Equal(two), true
	}
	if n.Cmp(num.U128From64(55)) < 0 {
		for _, prime := range SmallPrimes {
			if n.Equal(num.U128From64(uint64(prime))) {
				return true, true
			}
		}
		// The remaining odd values below 55 are 1 or composite.
		mod := n.AsUint64()
		for _, prime := range SmallPrimes {
			if mod%uint64(prime) == 0 {
				return false, true
			}
		}
		return false, true // n == 1
	}

	mod := n.Rem(smallPrimesProduct).AsUint64()
	for _, prime := range SmallPrimes {
		if mod%uint64(prime) == 0 {
			return false, true
		}
	}
	return false, false
}

// coprimeToSmallPrimes reports whether n (> 53) shares no factor with
// SmallPrimes. It is the cheap sieve applied to candidates before any modular
// exponentiation.
func coprimeToSmallPrimes(n num.U128) bool {
	mod := n.Rem(smallPrimesProduct).AsUint64()
	for _, prime := range SmallPrimes {
		if mod%uint64(prime) == 0 {
			return false
		}
	}
	return true
}

// millerRabinRound runs a single Miller-Rabin round for witness a against n,
// with n-1 = d * 2^r precomputed by the caller. It reports whether n passes
// the round, i.e. whether a fails to witness compositeness.
func millerRabinRound(nm1, d num.U128, r uint, a num.U128, m wideint.NonZero) bool {
	x := wideint.ModPow(a, d, m)
	if x.Equal(one) || x.Equal(nm1) {
		return true
	}
	for i := uint(1); i < r; i++ {
		x = wideint.MulMod(x, x, m)
		if x.Equal(nm1) {
			return true
		}
		if x.Equal(one) {
			return false
		}
	}
	return false
}

// MillerRabin runs the given number of Miller-Rabin rounds on n with witnesses
// drawn uniformly from [2, n-2]; the final round always uses the fixed
// witness 2. n must be odd and at least 5.
func MillerRabin(n num.U128, rounds int, rand io.Reader) bool {
	if rounds < 1 {
		rounds = 1
	}

	nm1 := n.Sub(one)
	r := nm1.TrailingZeros()
	d := nm1.Rsh(r)
	m := wideint.MustNonZero(n)

	witnesses := random.NewRandoms(two, nm1, rounds, rand).WithAppended(two)
	for a, ok := witnesses.Next(); ok; a, ok = witnesses.Next() {
		if !millerRabinRound(nm1, d, r, a, m) {
			return false
		}
	}
	return true
}

// ProbablyPrime reports whether n is prime with error probability at most
// 4^-rounds for random n, using trial division followed by Miller-Rabin.
func ProbablyPrime(n num.U128, rounds int, rand io.Reader) bool {
	if isPrime, decided := trialDivision(n); decided {
		return isPrime
	}
	return MillerRabin(n, rounds, rand)
}
