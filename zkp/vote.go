package zkp

import (
	"math/big"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/xlab-crypto/ballotcore/paillier"
)

// VoteProofType identifies the aggregate proof bundle produced for a
// single ballot (spec.md §4.3.4 data model).
const VoteProofType = "complete-vote-proof"

// BallotProof bundles one BitProof per candidate slot plus a single
// SumProof tying the slots together, the complete ZK evidence attached
// to a submitted ballot.
type BallotProof struct {
	BitProofs []*BitProof
	SumProof  *SumProof
	Type      string
}

// GenerateVoteProof proves that every cs[i] encrypts a 0/1 value vs[i]
// and that the values sum to exactly 1, i.e. that the ballot selects
// exactly one candidate. rs[i] is the randomness paillier.Encrypt used
// for cs[i]. Fails fast with ErrNotABit / ErrSumNotOne before spending
// any work on proof generation.
func GenerateVoteProof(cs []*big.Int, vs []int, rs []*big.Int, pk *paillier.PublicKey, challenge Challenge) (*BallotProof, error) {
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	if len(cs) != len(vs) || len(vs) != len(rs) {
		return nil, ErrLengthMismatch
	}

	var merr *multierror.Error
	sum := 0
	for i, v := range vs {
		if v != 0 && v != 1 {
			merr = multierror.Append(merr, errors.Wrapf(ErrNotABit, "slot %d: v=%d", i, v))
		}
		sum += v
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	if sum != 1 {
		return nil, ErrSumNotOne
	}

	bitProofs := make([]*BitProof, len(cs))
	for i := range cs {
		bp, err := ProveBitValue(vs[i], cs[i], rs[i], pk, challenge)
		if err != nil {
			return nil, err
		}
		bitProofs[i] = bp
	}

	sumProof, err := ProveSumEqualsOne(cs, rs, pk, challenge)
	if err != nil {
		return nil, err
	}

	return &BallotProof{BitProofs: bitProofs, SumProof: sumProof, Type: VoteProofType}, nil
}

// VerificationResult is the structured report returned by
// VerifyVoteProof (spec.md §4.3.4): no Go error is ever returned; a
// failed, malformed or nil proof is reported as Valid=false.
type VerificationResult struct {
	Valid           bool
	BitProofResults []*BitProofResult
	SumProofResult  *SumProofResult
}

// VerifyVoteProof checks every bit proof and the sum proof in a
// BallotProof, reporting a per-slot and overall verdict. It never
// short-circuits: every slot is checked so the caller gets a complete
// report even when an earlier slot already failed.
func VerifyVoteProof(proof *BallotProof, pk *paillier.PublicKey, challenge Challenge) *VerificationResult {
	result := &VerificationResult{Valid: true}
	if proof == nil {
		result.Valid = false
		return result
	}

	result.BitProofResults = make([]*BitProofResult, len(proof.BitProofs))
	for i, bp := range proof.BitProofs {
		r := VerifyBitProof(bp, pk, challenge)
		result.BitProofResults[i] = r
		if !r.Valid {
			result.Valid = false
		}
	}

	result.SumProofResult = VerifySumProof(proof.SumProof, pk, challenge)
	if !result.SumProofResult.Valid {
		result.Valid = false
	} else if !sumProofBoundToBitProofs(proof, pk) {
		result.SumProofResult = &SumProofResult{Reason: "encrypted sum does not match the product of the bit proof ciphertexts"}
		result.Valid = false
	}

	return result
}

// sumProofBoundToBitProofs reports whether proof.SumProof.EncryptedSum
// equals the homomorphic product of proof.BitProofs[i].Ciphertext
// (spec.md §3's SumProof invariant, "encryptedSum = ∏ cᵢ mod
// nSquared"). Without this check, a voter could submit self-consistent
// bit proofs over ciphertexts that do not sum to one alongside a
// self-consistent sum proof over an unrelated ciphertext that does.
func sumProofBoundToBitProofs(proof *BallotProof, pk *paillier.PublicKey) bool {
	if pk == nil || proof.SumProof == nil || proof.SumProof.EncryptedSum == nil || len(proof.BitProofs) == 0 {
		return false
	}
	cs := make([]*big.Int, len(proof.BitProofs))
	for i, bp := range proof.BitProofs {
		if bp == nil || bp.Ciphertext == nil {
			return false
		}
		cs[i] = bp.Ciphertext
	}
	expected, err := paillier.SumCiphertexts(cs, pk)
	if err != nil {
		return false
	}
	return expected.Cmp(proof.SumProof.EncryptedSum) == 0
}
