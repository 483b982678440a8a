package zkp

import (
	"math/big"

	logging "github.com/ipfs/go-log"
	"github.com/pkg/errors"

	"github.com/xlab-crypto/ballotcore/bignum"
	"github.com/xlab-crypto/ballotcore/paillier"
)

var logger = logging.Logger("ballot/zkp")

const bitValueDomain = "bit-value"

// BitProof is a non-interactive disjunctive (OR) proof that ciphertext
// Ciphertext encrypts 0 or encrypts 1, without revealing which
// (spec.md §4.3.1). Proof0 is the transcript for the "encrypts 0"
// branch, Proof1 for the "encrypts 1" branch; exactly one was honestly
// derived by the prover, the other algebraically simulated, and
// neither field reveals which.
type BitProof struct {
	Proof0     *SigmaTriple
	Proof1     *SigmaTriple
	Ciphertext *big.Int
}

// ProveBitValue proves that c = g^v · r^n mod n^2 encrypts v, for
// v in {0,1}, without revealing v. r is the randomness used to produce
// c via paillier.Encrypt.
func ProveBitValue(v int, c, r *big.Int, pk *paillier.PublicKey, challenge Challenge) (*BitProof, error) {
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	if v != 0 && v != 1 {
		return nil, errors.Wrapf(ErrNotABit, "ProveBitValue: v=%d", v)
	}

	sReal, rReal, err := randomSigmaWitness(pk)
	if err != nil {
		return nil, err
	}
	aReal, err := paillier.EncryptWithRandomness(sReal, rReal, pk)
	if err != nil {
		return nil, err
	}

	eSim, err := bignum.RandomRange(one, pk.N)
	if err != nil {
		return nil, err
	}
	zSim, err := bignum.RandomRange(one, pk.N)
	if err != nil {
		return nil, err
	}
	rSim, err := bignum.RandomRange(one, pk.N)
	if err != nil {
		return nil, err
	}
	num, err := paillier.EncryptWithRandomness(zSim, rSim, pk)
	if err != nil {
		return nil, err
	}
	denom := bignum.ModPow(c, eSim, pk.NSquare)
	denomInv, err := bignum.ModInverse(denom, pk.NSquare)
	if err != nil {
		return nil, errors.Wrap(err, "ProveBitValue: simulated branch commitment")
	}
	aSim := new(big.Int).Mul(num, denomInv)
	aSim.Mod(aSim, pk.NSquare)

	var a0, a1 *big.Int
	if v == 0 {
		a0, a1 = aReal, aSim
	} else {
		a0, a1 = aSim, aReal
	}

	bigE, err := challenge.Hash(bitValueDomain, pk.NSquare, pk.N, c, a0, a1)
	if err != nil {
		return nil, err
	}

	eRealShare := new(big.Int).Sub(bigE, eSim)
	eRealShare.Mod(eRealShare, pk.N)

	zReal := new(big.Int).Add(sReal, new(big.Int).Mul(eRealShare, big.NewInt(int64(v))))
	zReal.Mod(zReal, pk.N)

	rRealResponse := new(big.Int).Mul(rReal, bignum.ModPow(r, eRealShare, pk.N))
	rRealResponse.Mod(rRealResponse, pk.N)

	realTriple := &SigmaTriple{A: aReal, E: eRealShare, Z: zReal, RResponse: rRealResponse}
	simTriple := &SigmaTriple{A: aSim, E: eSim, Z: zSim, RResponse: rSim}

	proof := &BitProof{Ciphertext: c}
	if v == 0 {
		proof.Proof0, proof.Proof1 = realTriple, simTriple
	} else {
		proof.Proof0, proof.Proof1 = simTriple, realTriple
	}
	logger.Debugf("ProveBitValue: generated disjunctive proof for ciphertext %s", c.String())
	return proof, nil
}

// BitProofResult is the structured outcome of verifying one BitProof,
// part of the VerificationReport (spec.md §4.3.4, §7).
type BitProofResult struct {
	Valid     bool
	Malformed bool
	Reason    string
}

// VerifyBitProof checks a BitProof: the challenge split e0+e1 mod n
// must equal the independently recomputed Fiat-Shamir challenge, and
// the sigma verification equation must hold for both branches against
// the shared ciphertext.
func VerifyBitProof(proof *BitProof, pk *paillier.PublicKey, challenge Challenge) *BitProofResult {
	if pk == nil {
		return &BitProofResult{Malformed: true, Reason: "no public key supplied"}
	}
	if proof == nil || proof.Ciphertext == nil || !validSigmaTriple(proof.Proof0, pk) || !validSigmaTriple(proof.Proof1, pk) {
		return &BitProofResult{Malformed: true, Reason: "proof fields missing or out of range"}
	}
	if !paillier.IsValidCiphertext(proof.Ciphertext, pk) {
		return &BitProofResult{Malformed: true, Reason: "ciphertext out of range"}
	}

	expectedE, err := challenge.Hash(bitValueDomain, pk.NSquare, pk.N, proof.Ciphertext, proof.Proof0.A, proof.Proof1.A)
	if err != nil {
		return &BitProofResult{Malformed: true, Reason: "challenge recomputation failed"}
	}

	splitSum := new(big.Int).Add(proof.Proof0.E, proof.Proof1.E)
	splitSum.Mod(splitSum, pk.N)
	if splitSum.Cmp(expectedE) != 0 {
		return &BitProofResult{Valid: false, Reason: "challenge split does not match recomputed challenge"}
	}

	if !verifySigmaEquation(pk, proof.Proof0, proof.Ciphertext) {
		return &BitProofResult{Valid: false, Reason: "branch-0 sigma equation failed"}
	}
	if !verifySigmaEquation(pk, proof.Proof1, proof.Ciphertext) {
		return &BitProofResult{Valid: false, Reason: "branch-1 sigma equation failed"}
	}

	return &BitProofResult{Valid: true}
}
