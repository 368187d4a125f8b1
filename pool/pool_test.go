package pool

import (
	"path/filepath"
	"testing"

	num "github.com/shabbyrobe/go-num"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/dwaalwijk/safeprime"
	"github.com/dwaalwijk/safeprime/wideint"
)

func newSafePrime(t *testing.T) num.U128 {
	t.Helper()
	p, err := safeprime.New(128)
	require.NoError(t, err)
	return p
}

func openBoltPool(t *testing.T) *BoltPool {
	t.Helper()
	pool, err := NewBoltPool(filepath.Join(t.TempDir(), "primes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, pool.Close()) })
	return pool
}

func TestBoltPoolRoundTrip(t *testing.T) {
	pool := openBoltPool(t)
	p := newSafePrime(t)

	require.NoError(t, pool.Store(p))

	got, err := pool.Fetch(128)
	require.NoError(t, err)
	require.True(t, got.Equal(p))

	// Fetch consumes: the pool is now empty.
	_, err = pool.Fetch(128)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestBoltPoolEmpty(t *testing.T) {
	pool := openBoltPool(t)
	_, err := pool.Fetch(128)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestBoltPoolStoreRejectsNonSafePrime(t *testing.T) {
	pool := openBoltPool(t)
	require.Error(t, pool.Store(num.U128From64(100)))

	// 2^127 - 1 is prime but not safe.
	require.Error(t, pool.Store(num.U128FromRaw(0x7FFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF)))
}

func TestBoltPoolDiscardsCorruptEntries(t *testing.T) {
	pool := openBoltPool(t)
	p := newSafePrime(t)
	bits := wideint.BitLen(p)

	require.NoError(t, pool.Store(p))

	// Plant garbage at a key that sorts ahead of the stored record; Fetch
	// must discard it and return the valid entry behind it.
	err := pool.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte("safeprimes_128"))
		return bucket.Put(make([]byte, 8), []byte("not cbor"))
	})
	require.NoError(t, err)

	got, err := pool.Fetch(bits)
	require.NoError(t, err)
	require.True(t, got.Equal(p))
}

func TestGeneratingPool(t *testing.T) {
	p, err := Generating{}.Fetch(128)
	require.NoError(t, err)
	require.True(t, safeprime.StrongCheck(p))
	require.NoError(t, Generating{}.Store(p))
}

func TestSafePrimePrefersPool(t *testing.T) {
	pool := openBoltPool(t)
	p := newSafePrime(t)
	require.NoError(t, pool.Store(p))

	got, err := SafePrime(pool, 128)
	require.NoError(t, err)
	require.True(t, got.Equal(p))
}

func TestSafePrimeFallsBack(t *testing.T) {
	got, err := SafePrime(openBoltPool(t), 128)
	require.NoError(t, err)
	require.True(t, safeprime.StrongCheck(got))
}
