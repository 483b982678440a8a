package zkp

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xlab-crypto/ballotcore/bignum"
	"github.com/xlab-crypto/ballotcore/paillier"
)

const sumEqualsOneDomain = "sum-equals-one"

// SumProof is a non-interactive proof that the homomorphic sum of a
// ballot's per-slot ciphertexts decrypts to 1 (spec.md §4.3.2), i.e.
// that exactly one candidate received the vote. It is a single
// (non-disjunctive) sigma transcript proving knowledge of an opening
// of EncryptedSum to ExpectedSum.
type SumProof struct {
	EncryptedSum *big.Int
	ExpectedSum  *big.Int
	A            *big.Int
	E            *big.Int
	Z            *big.Int
	RResponse    *big.Int
}

// ProveSumEqualsOne aggregates cs (the per-slot ciphertexts) and rs
// (the matching per-slot randomness) into C = ∏ c_i mod n^2 and
// R* = ∏ r_i mod n, then proves that C opens to 1 under R*.
func ProveSumEqualsOne(cs, rs []*big.Int, pk *paillier.PublicKey, challenge Challenge) (*SumProof, error) {
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	if len(cs) == 0 || len(cs) != len(rs) {
		return nil, ErrLengthMismatch
	}

	encryptedSum, err := paillier.SumCiphertexts(cs, pk)
	if err != nil {
		return nil, errors.Wrap(err, "ProveSumEqualsOne: aggregating ciphertexts")
	}
	combinedR := combineRandomness(rs, pk.N)

	s, rPrime, err := randomSigmaWitness(pk)
	if err != nil {
		return nil, err
	}
	a, err := paillier.EncryptWithRandomness(s, rPrime, pk)
	if err != nil {
		return nil, err
	}

	e, err := challenge.Hash(sumEqualsOneDomain, pk.NSquare, pk.N, encryptedSum, a, one)
	if err != nil {
		return nil, err
	}

	z := new(big.Int).Add(s, new(big.Int).Mul(e, one))
	z.Mod(z, pk.N)

	rResponse := new(big.Int).Mul(rPrime, bignum.ModPow(combinedR, e, pk.N))
	rResponse.Mod(rResponse, pk.N)

	return &SumProof{
		EncryptedSum: encryptedSum,
		ExpectedSum:  new(big.Int).Set(one),
		A:            a,
		E:            e,
		Z:            z,
		RResponse:    rResponse,
	}, nil
}

func combineRandomness(rs []*big.Int, n *big.Int) *big.Int {
	product := new(big.Int).Set(one)
	for _, r := range rs {
		product.Mul(product, r)
		product.Mod(product, n)
	}
	return product
}

// SumProofResult is the structured outcome of verifying a SumProof
// (spec.md §4.3.4, §7).
type SumProofResult struct {
	Valid     bool
	Malformed bool
	Reason    string
}

// VerifySumProof recomputes the Fiat-Shamir challenge over the proof's
// own EncryptedSum, A and ExpectedSum, requires it to match the stored
// E, and checks the sigma verification equation against EncryptedSum.
func VerifySumProof(proof *SumProof, pk *paillier.PublicKey, challenge Challenge) *SumProofResult {
	if pk == nil {
		return &SumProofResult{Malformed: true, Reason: "no public key supplied"}
	}
	if proof == nil || proof.EncryptedSum == nil || proof.ExpectedSum == nil {
		return &SumProofResult{Malformed: true, Reason: "proof fields missing"}
	}
	triple := &SigmaTriple{A: proof.A, E: proof.E, Z: proof.Z, RResponse: proof.RResponse}
	if !validSigmaTriple(triple, pk) {
		return &SumProofResult{Malformed: true, Reason: "proof fields missing or out of range"}
	}
	if !paillier.IsValidCiphertext(proof.EncryptedSum, pk) {
		return &SumProofResult{Malformed: true, Reason: "encrypted sum out of range"}
	}
	if proof.ExpectedSum.Cmp(one) != 0 {
		return &SumProofResult{Malformed: true, Reason: "expected sum is not 1"}
	}

	expectedE, err := challenge.Hash(sumEqualsOneDomain, pk.NSquare, pk.N, proof.EncryptedSum, proof.A, proof.ExpectedSum)
	if err != nil {
		return &SumProofResult{Malformed: true, Reason: "challenge recomputation failed"}
	}
	if proof.E.Cmp(expectedE) != 0 {
		return &SumProofResult{Valid: false, Reason: "challenge does not match recomputed value"}
	}

	if !verifySigmaEquation(pk, triple, proof.EncryptedSum) {
		return &SumProofResult{Valid: false, Reason: "sigma equation failed"}
	}

	return &SumProofResult{Valid: true}
}
