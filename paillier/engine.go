package paillier

import "math/big"

// Engine holds at most one PublicKey and at most one PrivateKey. It
// replaces the source's browser-global crypto singleton (spec.md §9)
// with an explicit value the caller owns and threads through
// operations.
type Engine struct {
	publicKey  *PublicKey
	privateKey *PrivateKey
}

// NewEngine returns an Engine with no keys loaded.
func NewEngine() *Engine {
	return &Engine{}
}

// KeyGen generates a new key pair and loads it into the engine.
func (e *Engine) KeyGen(keyBits, millerRabinRounds int) error {
	pk, sk, err := KeyGen(keyBits, millerRabinRounds)
	if err != nil {
		return err
	}
	e.publicKey = pk
	e.privateKey = sk
	return nil
}

// PublicKey returns the loaded public key, or nil if none is loaded.
func (e *Engine) PublicKey() *PublicKey {
	return e.publicKey
}

// PrivateKey returns the loaded private key, or nil if none is loaded.
func (e *Engine) PrivateKey() *PrivateKey {
	return e.privateKey
}

// LoadPublicKey installs a public key the caller generated or received
// out of band (e.g. the voter-side engine, which never holds a private
// key).
func (e *Engine) LoadPublicKey(pk *PublicKey) {
	e.publicKey = pk
}

// LoadKeyPair installs a key pair the caller generated or received out
// of band.
func (e *Engine) LoadKeyPair(pk *PublicKey, sk *PrivateKey) {
	e.publicKey = pk
	e.privateKey = sk
}

// Encrypt encrypts m under the engine's loaded public key.
func (e *Engine) Encrypt(m *big.Int) (*Encryption, error) {
	if e.publicKey == nil {
		return nil, ErrNoPublicKey
	}
	return Encrypt(m, e.publicKey)
}

// Decrypt decrypts c under the engine's loaded private key.
func (e *Engine) Decrypt(c *big.Int) (*big.Int, error) {
	if e.privateKey == nil {
		return nil, ErrNoPrivateKey
	}
	return Decrypt(c, e.privateKey)
}

// Clear wipes both keys from the engine, matching spec.md §3's
// lifecycle ("the private key is held only by the tallying role and
// zeroed on clear").
func (e *Engine) Clear() {
	if e.privateKey != nil {
		e.privateKey.Lambda.SetInt64(0)
		e.privateKey.Mu.SetInt64(0)
	}
	e.publicKey = nil
	e.privateKey = nil
}
