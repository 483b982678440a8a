package zkp

import (
	"math/big"

	"github.com/xlab-crypto/ballotcore/bignum"
	"github.com/xlab-crypto/ballotcore/paillier"
)

var one = big.NewInt(1)

// SigmaTriple is a single Schnorr-style commit/challenge/respond
// transcript over the Paillier group: A is the commitment, E the
// challenge share, Z and RResponse the response pair (spec.md §4.3).
type SigmaTriple struct {
	A         *big.Int
	E         *big.Int
	Z         *big.Int
	RResponse *big.Int
}

// randomSigmaWitness samples the (s, r') pair used to build a fresh
// commitment a = g^s · r'^n mod n^2, with s, r' drawn from [1, n).
func randomSigmaWitness(pk *paillier.PublicKey) (s, r *big.Int, err error) {
	s, err = bignum.RandomRange(one, pk.N)
	if err != nil {
		return nil, nil, err
	}
	r, err = bignum.RandomRange(one, pk.N)
	if err != nil {
		return nil, nil, err
	}
	return s, r, nil
}

// verifySigmaEquation checks g^z · rResponse^n ≡ a · c^e (mod n^2),
// the verification equation shared by every sigma transcript in this
// package regardless of which plaintext the transcript asserts.
func verifySigmaEquation(pk *paillier.PublicKey, t *SigmaTriple, c *big.Int) bool {
	lhs := new(big.Int).Mul(bignum.ModPow(pk.G, t.Z, pk.NSquare), bignum.ModPow(t.RResponse, pk.N, pk.NSquare))
	lhs.Mod(lhs, pk.NSquare)

	rhs := new(big.Int).Mul(t.A, bignum.ModPow(c, t.E, pk.NSquare))
	rhs.Mod(rhs, pk.NSquare)

	return lhs.Cmp(rhs) == 0
}

// validSigmaTriple reports whether a transcript's fields lie in their
// required ranges: a in [0, n^2), e/z/rResponse in [0, n).
func validSigmaTriple(t *SigmaTriple, pk *paillier.PublicKey) bool {
	if t == nil || t.A == nil || t.E == nil || t.Z == nil || t.RResponse == nil {
		return false
	}
	if t.A.Sign() < 0 || t.A.Cmp(pk.NSquare) >= 0 {
		return false
	}
	for _, v := range []*big.Int{t.E, t.Z, t.RResponse} {
		if v.Sign() < 0 || v.Cmp(pk.N) >= 0 {
			return false
		}
	}
	return true
}
