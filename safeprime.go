package safeprime

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	num "github.com/shabbyrobe/go-num"

	"github.com/dwaalwijk/safeprime/internal/common"
)

// checkRounds is the number of Miller-Rabin rounds Check spends on each of p
// and (p-1)/2.
const checkRounds = 40

// New returns a safe prime with exactly bitLength bits.
//
// bitLength below MinBitLength is rejected with *BitLengthError before any
// randomness is touched. Otherwise an AES-CTR generator is seeded from the
// operating system's entropy source (failure surfaces as *OSRNGError) and the
// search delegates to Generate. Requests wider than 128 bits cannot be
// represented and panic.
func New(bitLength uint) (num.U128, error) {
	if bitLength < MinBitLength {
		return num.U128{}, &BitLengthError{BitLength: bitLength}
	}
	rng, err := common.NewOSCPRNG()
	if err != nil {
		return num.U128{}, &OSRNGError{Err: err}
	}
	return common.GenSafePrime(rng, bitLength, nil)
}

// Generate searches for a safe prime of the given size using candidates drawn
// from rand, which must produce cryptographic-quality bytes.
//
// In order to cancel the search, send a struct{} on the stop parameter or
// close() it; a cancelled search returns a zero value and nil error. Passing
// nil is allowed; then the search cannot be cancelled.
func Generate(bitLength uint, rand io.Reader, stop chan struct{}) (num.U128, error) {
	return common.GenSafePrime(rand, bitLength, stop)
}

// GenerateConcurrent concurrently and continuously generates safe primes on
// all CPU cores, until the stop channel receives a struct or is closed. If an
// error is encountered, generation is stopped in all goroutines, and the
// error is sent on the second return parameter.
func GenerateConcurrent(bitLength uint, stop chan struct{}) (<-chan num.U128, <-chan error) {
	count := runtime.GOMAXPROCS(0)
	ints := make(chan num.U128, count)
	errs := make(chan error, count)

	if bitLength < MinBitLength {
		errs <- &BitLengthError{BitLength: bitLength}
		return ints, errs
	}

	// In order to succesfully close all goroutines below when the caller
	// wants them to, they require a channel that is close()d: just sending
	// a struct{}{} would stop one but not all goroutines. Instead of
	// requiring the caller to close() the stop chan parameter we use our
	// own chan for this, so that we always stop all goroutines independent
	// of whether the caller close()s stop or sends a struct{}{} to it.
	stopped := make(chan struct{})
	var closeStopped sync.Once
	go func() {
		select {
		case <-stop:
			closeStopped.Do(func() { close(stopped) })
		case <-stopped: // also closed by a goroutine that encountered an error
		}
	}()

	for i := 0; i < count; i++ {
		go func() {
			rng, err := common.NewOSCPRNG()
			if err != nil {
				errs <- &OSRNGError{Err: err}
				closeStopped.Do(func() { close(stopped) })
				return
			}
			for {
				// Pass stopped along; if closed, Generate returns a zero value
				x, err := common.GenSafePrime(rng, bitLength, stopped)
				if err != nil {
					errs <- err
					closeStopped.Do(func() { close(stopped) })
					return
				}

				// Only send the result and continue generating if we have not
				// been told to stop
				select {
				case <-stopped:
					return
				default:
					ints <- x
					continue
				}
			}
		}()
	}

	return ints, errs
}

// Check reports whether p is probably a safe prime, by running Miller-Rabin
// based tests on p as well as on (p-1)/2.
//
// If p is a safe prime, Check returns true. If p is chosen randomly and not a
// safe prime, Check probably returns false. Witness selection needs
// randomness; Check panics if the operating system's entropy source is
// unavailable.
func Check(p num.U128) bool {
	rng, err := common.NewOSCPRNG()
	if err != nil {
		panic(fmt.Sprintf("safeprime: failed to initialize OS random number generator: %v", err))
	}
	return common.IsSafePrime(p, checkRounds, rng)
}

// StrongCheck reports whether p is probably a safe prime, by running a
// deterministic Baillie-PSW test on p as well as on (p-1)/2. No composite
// number is known to pass it.
func StrongCheck(p num.U128) bool {
	return common.IsSafePrimeBailliePSW(p)
}
