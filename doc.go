// Package safeprime computes safe primes, i.e. primes of the form 2q+1 where
// q is also prime, over fixed-width 128-bit unsigned integers.
//
// The arithmetic underneath (see the wideint subpackage) is deliberately not
// constant-time; generated primes are sound, but the generation and checking
// process leaks timing information about the values involved. The random
// sampling primitives live in the random subpackage and are bias-free.
package safeprime
