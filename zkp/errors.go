package zkp

import "github.com/pkg/errors"

// Named error kinds for the ZK proof engine (spec.md §7, ProofFailure
// category). Verification failures themselves are never returned as
// Go errors — they surface as Valid=false fields on the result types;
// these errors are for malformed/precondition failures in proof
// generation.
var (
	ErrNotABit        = errors.New("zkp: vote value is not 0 or 1")
	ErrSumNotOne      = errors.New("zkp: slot values do not sum to 1")
	ErrLengthMismatch = errors.New("zkp: ciphertexts, values and randomness slices differ in length")
	ErrMalformedProof = errors.New("zkp: proof is malformed")
	ErrNoPublicKey    = errors.New("zkp: no public key supplied")
)
