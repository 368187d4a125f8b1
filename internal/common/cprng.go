package common

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"

	"github.com/go-errors/errors"
)

// CPRNG is a cryptographically secure pseudo-random number generator:
// AES-256 in counter mode, keyed by the seed. Drawing from it never fails
// once it has been constructed, which makes it a convenient source for the
// sampling primitives, whose contract has no error path for reads.
type CPRNG struct {
	block   cipher.Block
	counter uint64
}

// NewCPRNG constructs a CPRNG from a 32-byte seed.
func NewCPRNG(seed *[32]byte) (*CPRNG, error) {
	c, err := aes.NewCipher(seed[:])
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return &CPRNG{block: c}, nil
}

// NewOSCPRNG constructs a CPRNG seeded from the operating system's entropy
// source. This is the only point at which the environment can make randomness
// fail; the returned error surfaces through the front door as *OSRNGError.
func NewOSCPRNG() (*CPRNG, error) {
	var seed [32]byte
	if _, err := rand.Reader.Read(seed[:]); err != nil {
		return nil, err
	}
	return NewCPRNG(&seed)
}

func (c *CPRNG) Read(buf []byte) (n int, err error) {
	var pt, ct [16]byte
	n = len(buf)
	if n == 0 {
		return
	}

	// Reserve the blocks this read consumes, then encrypt counter values
	// starting at the first reserved block.
	nBlocks := uint64(((len(buf) - 1) / 16) + 1)
	iv := c.counter
	c.counter += nBlocks
	for {
		binary.LittleEndian.PutUint64(pt[:], iv)
		iv++

		if len(buf) >= 16 {
			c.block.Encrypt(buf, pt[:])
			buf = buf[16:]
			continue
		}
		if len(buf) == 0 {
			break
		}

		c.block.Encrypt(ct[:], pt[:])
		copy(buf, ct[:len(buf)])
		break
	}
	return
}
