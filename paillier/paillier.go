// Package paillier implements the Paillier public-key cryptosystem:
// key generation, probabilistic encryption, decryption, and the
// additive/scalar homomorphic operations the ballot and zkp packages
// build on (spec.md §4.2).
package paillier

import (
	"math/big"

	logging "github.com/ipfs/go-log"
	"github.com/pkg/errors"

	"github.com/xlab-crypto/ballotcore/bignum"
)

var logger = logging.Logger("ballot/paillier")

var one = big.NewInt(1)

// PublicKey holds the values needed to encrypt and perform homomorphic
// operations. N = p*q, G = N+1, NSquare = N*N; bitlen(N) == keyBits.
type PublicKey struct {
	N       *big.Int
	G       *big.Int
	NSquare *big.Int
}

// PrivateKey holds the values needed to decrypt. Lambda = lcm(p-1, q-1);
// Mu = L(G^Lambda mod N^2)^-1 mod N.
type PrivateKey struct {
	PublicKey
	Lambda *big.Int
	Mu     *big.Int
}

// Encryption bundles a ciphertext with the randomness used to produce
// it. The randomness must flow only from Encrypt to the zkp package's
// proof generation within the same ballot, never persisted or logged
// (spec.md §5 secret hygiene).
type Encryption struct {
	Ciphertext *big.Int
	Randomness *big.Int
}

// NewPublicKey derives G and NSquare from a given modulus N. Exposed so
// the zkp package can build throwaway PublicKey values (e.g. to reuse
// EncryptWithRandomness) without going through key generation.
func NewPublicKey(n *big.Int) *PublicKey {
	return &PublicKey{
		N:       n,
		G:       new(big.Int).Add(n, one),
		NSquare: new(big.Int).Mul(n, n),
	}
}

// KeyGen generates two distinct `keyBits/2`-bit primes p, q and derives
// the full key pair. Fails with ErrKeygenFailure only if the entropy
// source fails.
func KeyGen(keyBits, millerRabinRounds int) (*PublicKey, *PrivateKey, error) {
	if keyBits%2 != 0 || keyBits < 512 {
		return nil, nil, errors.Wrap(bignum.ErrBadRange, "KeyGen: keyBits must be even and >= 512")
	}
	var p, q, n *big.Int
	for {
		var err error
		p, q, err = bignum.GenerateTwoPrimes(keyBits/2, millerRabinRounds)
		if err != nil {
			logger.Errorf("KeyGen: prime generation failed: %v", err)
			return nil, nil, errors.Wrap(ErrKeygenFailure, err.Error())
		}
		// Two keyBits/2-bit primes may multiply to only keyBits-1 bits;
		// draw again until n has exactly keyBits bits.
		n = new(big.Int).Mul(p, q)
		if n.BitLen() == keyBits {
			break
		}
	}
	pk := NewPublicKey(n)

	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	lambda := bignum.Lcm(pMinus1, qMinus1)

	gLambda := bignum.ModPow(pk.G, lambda, pk.NSquare)
	lOfGLambda := bignum.L(gLambda, n)
	mu, err := bignum.ModInverse(lOfGLambda, n)
	if err != nil {
		logger.Errorf("KeyGen: mu derivation failed: %v", err)
		return nil, nil, errors.Wrap(ErrKeygenFailure, err.Error())
	}

	sk := &PrivateKey{PublicKey: *pk, Lambda: lambda, Mu: mu}
	logger.Infof("KeyGen: generated %d-bit key pair", keyBits)
	return pk, sk, nil
}

// Encrypt encrypts m under pk, sampling fresh randomness r in [1, n)
// with gcd(r, n) == 1. Fails with ErrPlaintextOutOfRange if m is not
// in [0, n).
func Encrypt(m *big.Int, pk *PublicKey) (*Encryption, error) {
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return nil, errors.Wrapf(ErrPlaintextOutOfRange, "Encrypt: m=%s", m.String())
	}

	var r *big.Int
	for {
		candidate, err := bignum.RandomRange(one, pk.N)
		if err != nil {
			return nil, err
		}
		if bignum.Gcd(candidate, pk.N).Cmp(one) == 0 {
			r = candidate
			break
		}
	}

	c, err := EncryptWithRandomness(m, r, pk)
	if err != nil {
		return nil, err
	}
	return &Encryption{Ciphertext: c, Randomness: r}, nil
}

// EncryptWithRandomness encrypts m under pk using caller-supplied
// randomness r, i.e. c = g^m · r^n mod n^2. Used by the zkp package's
// simulator and by Encrypt itself.
func EncryptWithRandomness(m, r *big.Int, pk *PublicKey) (*big.Int, error) {
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return nil, errors.Wrapf(ErrPlaintextOutOfRange, "EncryptWithRandomness: m=%s", m.String())
	}
	gm := bignum.ModPow(pk.G, m, pk.NSquare)
	rn := bignum.ModPow(r, pk.N, pk.NSquare)
	c := new(big.Int).Mul(gm, rn)
	c.Mod(c, pk.NSquare)
	return c, nil
}

// Decrypt recovers m from ciphertext c under sk.
func Decrypt(c *big.Int, sk *PrivateKey) (*big.Int, error) {
	if sk == nil {
		return nil, ErrNoPrivateKey
	}
	if !IsValidCiphertext(c, &sk.PublicKey) {
		return nil, errors.Wrapf(ErrCiphertextOutOfRange, "Decrypt: c=%s", c.String())
	}
	cLambda := bignum.ModPow(c, sk.Lambda, sk.NSquare)
	lOfC := bignum.L(cLambda, sk.N)
	m := new(big.Int).Mul(lOfC, sk.Mu)
	m.Mod(m, sk.N)
	return m, nil
}

// AddCiphertexts computes the homomorphic sum c1+c2 as (c1*c2) mod n^2;
// it decrypts to (m1+m2) mod n.
func AddCiphertexts(c1, c2 *big.Int, pk *PublicKey) (*big.Int, error) {
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	c := new(big.Int).Mul(c1, c2)
	c.Mod(c, pk.NSquare)
	return c, nil
}

// ScalarMul computes k*m homomorphically as c^k mod n^2; it decrypts
// to (k*m) mod n.
func ScalarMul(c, k *big.Int, pk *PublicKey) (*big.Int, error) {
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	return bignum.ModPow(c, k, pk.NSquare), nil
}

// SumCiphertexts left-folds AddCiphertexts over cs. Fails with
// ErrEmptyInput on an empty slice.
func SumCiphertexts(cs []*big.Int, pk *PublicKey) (*big.Int, error) {
	if len(cs) == 0 {
		return nil, ErrEmptyInput
	}
	sum := new(big.Int).Set(cs[0])
	var err error
	for _, c := range cs[1:] {
		sum, err = AddCiphertexts(sum, c, pk)
		if err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// IsValidCiphertext reports whether 0 < c < n^2.
func IsValidCiphertext(c *big.Int, pk *PublicKey) bool {
	return pk != nil && c != nil && c.Sign() > 0 && c.Cmp(pk.NSquare) < 0
}
