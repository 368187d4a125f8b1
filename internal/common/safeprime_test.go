package common

import (
	"math/big"
	"testing"

	num "github.com/shabbyrobe/go-num"
	"github.com/stretchr/testify/require"

	"github.com/dwaalwijk/safeprime/wideint"
)

func testGenSafePrime(t *testing.T, bits uint) {
	p, err := GenSafePrime(rnd, bits, nil)
	require.NoError(t, err)
	require.Equal(t, bits, wideint.BitLen(p))
	require.True(t, IsSafePrimeBailliePSW(p))
	require.True(t, IsSafePrime(p, 40, rnd))

	// Cross-check against an independent implementation.
	pb := p.AsBigInt()
	qb := new(big.Int).Rsh(pb, 1)
	require.True(t, pb.ProbablyPrime(40))
	require.True(t, qb.ProbablyPrime(40))
}

func TestGenSafePrime(t *testing.T) {
	for _, bits := range []uint{8, 24, 48, 128} {
		testGenSafePrime(t, bits)
	}
}

func TestGenSafePrimeTooSmall(t *testing.T) {
	_, err := GenSafePrime(rnd, 4, nil)
	require.Error(t, err)
}

func TestGenSafePrimeTooWide(t *testing.T) {
	require.Panics(t, func() { GenSafePrime(rnd, 129, nil) })
}

func TestGenSafePrimeStop(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	p, err := GenSafePrime(rnd, 128, stop)
	require.NoError(t, err)
	// The search may complete before the first cancellation check; either
	// way the result must be the zero value or a genuine safe prime.
	if !p.IsZero() {
		require.True(t, IsSafePrimeBailliePSW(p))
	}
}

func TestIsSafePrimeKnownValues(t *testing.T) {
	for _, p := range []uint64{5, 7, 11, 23, 47, 59, 83, 107, 167, 179, 227} {
		require.True(t, IsSafePrimeBailliePSW(num.U128From64(p)), "%d", p)
		require.True(t, IsSafePrime(num.U128From64(p), 40, rnd), "%d", p)
	}
	// Primes whose (p-1)/2 is composite, composites, and tiny values.
	for _, p := range []uint64{0, 1, 2, 3, 4, 9, 13, 17, 29, 31, 37, 221} {
		require.False(t, IsSafePrimeBailliePSW(num.U128From64(p)), "%d", p)
		require.False(t, IsSafePrime(num.U128From64(p), 40, rnd), "%d", p)
	}

	// 2^127 - 1 is prime, but (p-1)/2 = 2^126 - 1 is divisible by 3.
	m127 := num.U128FromRaw(0x7FFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF)
	require.False(t, IsSafePrimeBailliePSW(m127))
}

func BenchmarkGenSafePrime128(b *testing.B) {
	rng, err := NewOSCPRNG()
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := GenSafePrime(rng, 128, nil); err != nil {
			b.Fatal(err)
		}
	}
}
