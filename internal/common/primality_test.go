package common

import (
	"math/big"
	"math/rand"
	"testing"

	num "github.com/shabbyrobe/go-num"
	"github.com/stretchr/testify/require"

	"github.com/dwaalwijk/safeprime/wideint"
)

var rnd = rand.New(rand.NewSource(37))

// Mersenne numbers 2^n - 1; the prime exponents below 128 with prime value
// are 2, 3, 5, 7, 13, 17, 19, 31, 61, 89, 107 and 127.
var (
	m61  = num.U128From64(2305843009213693951)
	m89  = num.U128FromRaw(0x1FFFFFF, 0xFFFFFFFFFFFFFFFF)
	m107 = num.U128FromRaw(0x7FFFFFFFFFF, 0xFFFFFFFFFFFFFFFF)
	m127 = num.U128FromRaw(0x7FFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF)

	m67 = num.U128FromRaw(0x7, 0xFFFFFFFFFFFFFFFF)
	m83 = num.U128FromRaw(0x7FFFF, 0xFFFFFFFFFFFFFFFF)
)

func TestTrialDivision(t *testing.T) {
	for _, n := range []uint64{2, 3, 5, 7, 53} {
		isPrime, decided := trialDivision(num.U128From64(n))
		require.True(t, decided, "%d", n)
		require.True(t, isPrime, "%d", n)
	}
	for _, n := range []uint64{0, 1, 4, 9, 25, 49, 55, 1000} {
		isPrime, decided := trialDivision(num.U128From64(n))
		require.True(t, decided, "%d", n)
		require.False(t, isPrime, "%d", n)
	}

	// 59*59 is coprime to the sieve, so trial division cannot decide it.
	_, decided := trialDivision(num.U128From64(3481))
	require.False(t, decided)
	_, decided = trialDivision(m61)
	require.False(t, decided)
}

func TestMillerRabin(t *testing.T) {
	for _, n := range []num.U128{m61, m89, m107, m127, num.U128From64(1000003)} {
		require.True(t, MillerRabin(n, 20, rnd), "%v should pass", n)
	}
	for _, n := range []num.U128{m67, m83, num.U128From64(3481)} {
		require.False(t, MillerRabin(n, 20, rnd), "%v should fail", n)
	}
}

func TestMillerRabinBase2Pseudoprimes(t *testing.T) {
	// Strong pseudoprimes to base 2 whose factors all exceed the sieve:
	// 42799 = 127*337 and 49141 = 157*313. They pass a single base-2 round
	// but the Lucas test catches them, so Baillie-PSW stays composite-free.
	for _, n := range []num.U128{num.U128From64(42799), num.U128From64(49141)} {
		_, decided := trialDivision(n)
		require.False(t, decided)

		nm1 := n.Sub(one)
		r := nm1.TrailingZeros()
		d := nm1.Rsh(r)
		require.True(t, millerRabinRound(nm1, d, r, two, wideint.MustNonZero(n)))

		require.False(t, Lucas(n))
		require.False(t, BailliePSW(n))
	}
}

func TestBailliePSW(t *testing.T) {
	for _, n := range []num.U128{m61, m89, m107, m127, num.U128From64(1000003), num.U128From64(2), num.U128From64(53)} {
		require.True(t, BailliePSW(n), "%v should pass", n)
	}
	for _, n := range []num.U128{m67, m83, num.U128From64(3481), num.U128From64(1), num.U128{}} {
		require.False(t, BailliePSW(n), "%v should fail", n)
	}
}

func TestProbablyPrimeAgainstBigInt(t *testing.T) {
	for i := 0; i < 300; i++ {
		n := num.U128From64(uint64(rnd.Intn(1 << 20)))
		expected := n.AsBigInt().ProbablyPrime(20)
		require.Equal(t, expected, ProbablyPrime(n, 20, rnd), "%v", n)
		require.Equal(t, expected, BailliePSW(n), "%v", n)
	}
}

func TestJacobiAgainstBigInt(t *testing.T) {
	for i := 0; i < 300; i++ {
		a := num.U128FromRaw(rnd.Uint64(), rnd.Uint64())
		n := num.U128FromRaw(rnd.Uint64(), rnd.Uint64()|1)
		expected := big.Jacobi(a.AsBigInt(), n.AsBigInt())
		require.Equal(t, expected, Jacobi(a, n), "(%v/%v)", a, n)
	}
}

func TestJacobiEvenDenominator(t *testing.T) {
	require.Panics(t, func() { Jacobi(one, num.U128From64(8)) })
	require.Panics(t, func() { Jacobi(one, num.U128{}) })
}

func TestSqrt(t *testing.T) {
	for _, x := range []uint64{0, 1, 2, 3, 4, 5, 8, 9, 15, 16, 17} {
		expected := uint64(0)
		for (expected+1)*(expected+1) <= x {
			expected++
		}
		require.True(t, sqrt(num.U128From64(x)).Equal(num.U128From64(expected)), "sqrt(%d)", x)
	}

	for i := 0; i < 200; i++ {
		x := num.U128FromRaw(rnd.Uint64(), rnd.Uint64())
		r := sqrt(x)
		rb := r.AsBigInt()
		xb := x.AsBigInt()
		require.True(t, new(big.Int).Mul(rb, rb).Cmp(xb) <= 0, "sqrt(%v) = %v too large", x, r)
		rb1 := new(big.Int).Add(rb, big.NewInt(1))
		require.True(t, new(big.Int).Mul(rb1, rb1).Cmp(xb) > 0, "sqrt(%v) = %v too small", x, r)
	}
}

func TestLucasPerfectSquare(t *testing.T) {
	// 61^2 is coprime to the sieve and a perfect square; the Jacobi search
	// can never find (D/n) = -1 for it, so the square check must reject it.
	require.False(t, Lucas(num.U128From64(3721)))
}
