package common

import (
	"fmt"

	num "github.com/shabbyrobe/go-num"

	"github.com/dwaalwijk/safeprime/wideint"
)

// Jacobi returns the Jacobi symbol (a/n). n must be odd and positive.
func Jacobi(a, n num.U128) int {
	if _, lo := n.Raw(); n.IsZero() || lo&1 == 0 {
		panic("common: Jacobi requires an odd positive denominator")
	}

	a = a.Rem(n)
	result := 1
	for !a.IsZero() {
		for {
			_, alo := a.Raw()
			if alo&1 == 1 {
				break
			}
			a = a.Rsh(1)
			if _, nlo := n.Raw(); nlo&7 == 3 || nlo&7 == 5 {
				result = -result
			}
		}

		a, n = n, a
		_, alo := a.Raw()
		_, nlo := n.Raw()
		if alo&3 == 3 && nlo&3 == 3 {
			result = -result
		}
		a = a.Rem(n)
	}
	if n.Equal(one) {
		return result
	}
	return 0
}

// sqrt returns the integer square root of x.
func sqrt(x num.U128) num.U128 {
	if x.Cmp(two) < 0 {
		return x
	}
	// Newton's method from an initial guess that is at least sqrt(x); the
	// sequence decreases until it reaches the floor of the root.
	z := one.Lsh((wideint.BitLen(x) + 1) / 2)
	for {
		y := z.Add(x.Quo(z)).Rsh(1)
		if y.Cmp(z) >= 0 {
			return z
		}
		z = y
	}
}

// Lucas reports whether n passes the "almost extra strong" Lucas probable
// prime test with Baillie-OEIS parameter selection (P the smallest value with
// Jacobi(P*P-4, n) = -1, Q = 1). Combined with a Miller-Rabin round to base 2
// it forms a Baillie-PSW test, for which no composite passer is known.
//
// n must be odd, greater than 2, and coprime to all of SmallPrimes; the last
// condition also guarantees that n+1 cannot wrap around, since the all-ones
// value is divisible by 3.
func Lucas(n num.U128) bool {
	// Select P. Perfect squares have Jacobi(d, n) != -1 for every d and
	// would loop forever, so after a few failures check for one directly.
	p := uint64(3)
	for ; ; p++ {
		if p > 10000 {
			panic(fmt.Sprintf("common: cannot find (D/n) = -1 for %v", n))
		}
		if p == 40 {
			if rt := sqrt(n); rt.Mul(rt).Equal(n) {
				return false
			}
		}
		d := num.U128From64(p*p - 4)
		j := Jacobi(d, n)
		if j == -1 {
			break
		}
		if j == 0 {
			// d = (p-2)(p+2) shares a factor with n, so n is
			// composite unless it is p+2 itself.
			return n.Equal(num.U128From64(p + 2))
		}
	}

	// Walk the V sequence by a doubling ladder up to index s, where
	// n+1 = s * 2^r with s odd. With Q = 1 the recurrences reduce to
	// V(2k) = V(k)^2 - 2 and V(2k+1) = V(k)V(k+1) - P.
	nPlus1 := n.Add(one)
	r := nPlus1.TrailingZeros()
	s := nPlus1.Rsh(r)

	m := wideint.MustNonZero(n)
	pModN := num.U128From64(p).Rem(n)
	nm2 := n.Sub(two)

	vk := two
	vk1 := pModN
	for i := int(wideint.BitLen(s)); i >= 0; i-- {
		if wideint.Bit(s, uint(i)) {
			vk = wideint.SubMod(wideint.MulMod(vk, vk1, m), pModN, m)
			vk1 = wideint.SubMod(wideint.MulMod(vk1, vk1, m), two, m)
		} else {
			vk1 = wideint.SubMod(wideint.MulMod(vk, vk1, m), pModN, m)
			vk = wideint.SubMod(wideint.MulMod(vk, vk, m), two, m)
		}
	}

	// If V(s) = ±2 mod n then check U(s) = 0 mod n, which with Q = 1 is
	// equivalent to P*V(s) = 2*V(s+1) mod n.
	if vk.Equal(two) || vk.Equal(nm2) {
		t1 := wideint.MulMod(vk, pModN, m)
		t2 := wideint.AddMod(vk1, vk1, m)
		if t1.Equal(t2) {
			return true
		}
	}

	// Otherwise V(s * 2^t) must be zero for some 0 <= t < r-1. Once the
	// sequence hits 2 it stays there, so it can never reach zero later.
	for t := uint(0); t+1 < r; t++ {
		if vk.IsZero() {
			return true
		}
		if vk.Equal(two) {
			return false
		}
		vk = wideint.SubMod(wideint.MulMod(vk, vk, m), two, m)
	}
	return false
}

// BailliePSW reports whether n passes a Baillie-PSW test: trial division,
// a Miller-Rabin round to base 2, and the Lucas test above. It needs no
// random source and has no known composite passers.
func BailliePSW(n num.U128) bool {
	if isPrime, decided := trialDivision(n); decided {
		return isPrime
	}

	nm1 := n.Sub(one)
	r := nm1.TrailingZeros()
	d := nm1.Rsh(r)
	if !millerRabinRound(nm1, d, r, two, wideint.MustNonZero(n)) {
		return false
	}
	return Lucas(n)
}
