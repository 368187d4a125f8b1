package safeprime

import "fmt"

// MinBitLength is the smallest bit length accepted by New and
// GenerateConcurrent. Requests below it are rejected with *BitLengthError
// before any random source is constructed, rather than silently producing a
// weak prime.
const MinBitLength = 128

// BitLengthError is returned when the requested bit length is below
// MinBitLength.
type BitLengthError struct {
	BitLength uint
}

func (e *BitLengthError) Error() string {
	return fmt.Sprintf("the given bit length is too small; must be at least %d: %d", MinBitLength, e.BitLength)
}

// OSRNGError is returned when the operating system's random number generator
// could not be initialized, e.g. because no entropy was available.
type OSRNGError struct {
	Err error
}

func (e *OSRNGError) Error() string {
	return fmt.Sprintf("error initializing OS random number generator: %v", e.Err)
}

func (e *OSRNGError) Unwrap() error { return e.Err }
