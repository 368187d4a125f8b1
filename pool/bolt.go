package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/go-errors/errors"
	num "github.com/shabbyrobe/go-num"
	bolt "go.etcd.io/bbolt"

	"github.com/dwaalwijk/safeprime"
	"github.com/dwaalwijk/safeprime/cbor"
	"github.com/dwaalwijk/safeprime/wideint"
)

// bucketName is where the primes for one bit length are stored (sprintf'ed).
const bucketName = "safeprimes_%d"

// record is the CBOR document persisted per prime. Storing q alongside p is
// redundant but lets external tooling audit the pool without recomputing.
type record struct {
	P []byte `cbor:"p"`
	Q []byte `cbor:"q"`
}

// BoltPool is a Pool backed by a bolt database file. Entries are re-verified
// with safeprime.StrongCheck on the way out, so a corrupted or tampered-with
// database degrades into cache misses instead of weak primes.
type BoltPool struct {
	db *bolt.DB
}

// NewBoltPool opens (or creates) the bolt database at the given path.
func NewBoltPool(path string) (*BoltPool, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return &BoltPool{db: db}, nil
}

func (b *BoltPool) Close() error {
	return b.db.Close()
}

func (b *BoltPool) Fetch(bits uint) (num.U128, error) {
	var p num.U128
	found := false

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(fmt.Sprintf(bucketName, bits)))
		if bucket == nil {
			return nil
		}

		// Consume entries until a valid one turns up; whatever fails
		// verification is discarded along the way.
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}

			var rec record
			if err := cbor.Unmarshal(v, &rec); err != nil || len(rec.P) != 16 {
				Logger.Warnf("pool: discarding undecodable entry for %d bits", bits)
				continue
			}
			candidate := u128FromBytes(rec.P)
			if !safeprime.StrongCheck(candidate) {
				Logger.Warnf("pool: discarding entry for %d bits that is not a safe prime", bits)
				continue
			}

			p = candidate
			found = true
			return nil
		}
		return nil
	})
	if err != nil {
		return num.U128{}, errors.Wrap(err, 0)
	}
	if !found {
		return num.U128{}, ErrEmpty
	}
	return p, nil
}

func (b *BoltPool) Store(p num.U128) error {
	if !safeprime.StrongCheck(p) {
		return errors.New("pool: refusing to store a value that is not a safe prime")
	}

	rec := record{
		P: u128Bytes(p),
		Q: u128Bytes(p.Rsh(1)),
	}
	encoded, err := cbor.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	bits := wideint.BitLen(p)
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(fmt.Sprintf(bucketName, bits)))
		if err != nil {
			return err
		}
		id, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], id)
		return bucket.Put(key[:], encoded)
	})
}

func u128Bytes(x num.U128) []byte {
	hi, lo := x.Raw()
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], hi)
	binary.BigEndian.PutUint64(buf[8:], lo)
	return buf
}

func u128FromBytes(buf []byte) num.U128 {
	return num.U128FromRaw(
		binary.BigEndian.Uint64(buf[:8]),
		binary.BigEndian.Uint64(buf[8:]),
	)
}
