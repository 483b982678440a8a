package paillier

import "github.com/pkg/errors"

// Named error kinds for the Paillier engine (spec.md §7).
var (
	ErrPlaintextOutOfRange  = errors.New("paillier: plaintext out of range [0, n)")
	ErrCiphertextOutOfRange = errors.New("paillier: ciphertext out of range (0, n^2)")
	ErrNoPublicKey          = errors.New("paillier: engine has no public key loaded")
	ErrNoPrivateKey         = errors.New("paillier: engine has no private key loaded")
	ErrEmptyInput           = errors.New("paillier: empty ciphertext list")
	ErrKeygenFailure        = errors.New("paillier: key generation failed")
)
