package ballot

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xlab-crypto/ballotcore/zkp"
)

// NewID returns a fresh random identifier suitable for voterId or
// sessionId when the caller has no identity of its own to supply.
func NewID() string {
	return uuid.New().String()
}

// Submission is the stable-field-name JSON payload a BallotPackage is
// converted into for transport (spec.md §6.2). Every integer is a
// base-10 string to avoid the platform numeric limits the browser-JS
// source was written against.
type Submission struct {
	Timestamp      string             `json:"timestamp"`
	VoterID        string             `json:"voterId"`
	SessionID      string             `json:"sessionId"`
	PublicKey      submissionKey      `json:"publicKey"`
	EncryptedVotes []submissionVote   `json:"encryptedVotes"`
	ZKPProofs      submissionProofs   `json:"zkpProofs"`
}

type submissionKey struct {
	N        string `json:"n"`
	G        string `json:"g"`
	NSquared string `json:"nSquared"`
}

type submissionVote struct {
	CandidateID   int    `json:"candidateId"`
	CandidateName string `json:"candidateName"`
	Ciphertext    string `json:"ciphertext"`
}

type submissionSigmaTriple struct {
	A         string `json:"a"`
	E         string `json:"e"`
	Z         string `json:"z"`
	RResponse string `json:"rResponse"`
}

type submissionBitProof struct {
	CandidateID int                   `json:"candidateId"`
	Proof0      submissionSigmaTriple `json:"proof0"`
	Proof1      submissionSigmaTriple `json:"proof1"`
	Ciphertext  string                `json:"ciphertext"`
}

type submissionSumProof struct {
	EncryptedSum string `json:"encryptedSum"`
	ExpectedSum  string `json:"expectedSum"`
	A            string `json:"a"`
	E            string `json:"e"`
	Z            string `json:"z"`
	RResponse    string `json:"rResponse"`
}

type submissionProofs struct {
	BitProofs []submissionBitProof `json:"bitProofs"`
	SumProof  submissionSumProof   `json:"sumProof"`
}

// ToSubmission converts a BallotPackage into its wire form. timestamp
// is serialized as ISO-8601 (RFC 3339); candidateNames, if non-nil,
// must have one entry per ciphertext slot — when nil, slot names
// default to their zero-based index as a string.
func ToSubmission(pkg *BallotPackage, voterID, sessionID string, candidateNames []string, timestamp time.Time) (*Submission, error) {
	if pkg == nil || pkg.PublicKey == nil || pkg.Proof == nil {
		return nil, ErrNoPublicKey
	}
	if candidateNames != nil && len(candidateNames) != len(pkg.Ciphertexts) {
		return nil, ErrCandidateCountMismatch
	}

	votes := make([]submissionVote, len(pkg.Ciphertexts))
	bitProofs := make([]submissionBitProof, len(pkg.Proof.BitProofs))
	for i, c := range pkg.Ciphertexts {
		name := fmt.Sprintf("%d", i)
		if candidateNames != nil {
			name = candidateNames[i]
		}
		votes[i] = submissionVote{CandidateID: i, CandidateName: name, Ciphertext: c.String()}
		bitProofs[i] = toSubmissionBitProof(i, pkg.Proof.BitProofs[i])
	}

	return &Submission{
		Timestamp:      timestamp.UTC().Format(time.RFC3339),
		VoterID:        voterID,
		SessionID:      sessionID,
		PublicKey: submissionKey{
			N:        pkg.PublicKey.N.String(),
			G:        pkg.PublicKey.G.String(),
			NSquared: pkg.PublicKey.NSquare.String(),
		},
		EncryptedVotes: votes,
		ZKPProofs: submissionProofs{
			BitProofs: bitProofs,
			SumProof:  toSubmissionSumProof(pkg.Proof.SumProof),
		},
	}, nil
}

func toSubmissionBitProof(candidateID int, bp *zkp.BitProof) submissionBitProof {
	return submissionBitProof{
		CandidateID: candidateID,
		Proof0:      toSubmissionSigmaTriple(bp.Proof0),
		Proof1:      toSubmissionSigmaTriple(bp.Proof1),
		Ciphertext:  bp.Ciphertext.String(),
	}
}

func toSubmissionSigmaTriple(t *zkp.SigmaTriple) submissionSigmaTriple {
	return submissionSigmaTriple{
		A:         t.A.String(),
		E:         t.E.String(),
		Z:         t.Z.String(),
		RResponse: t.RResponse.String(),
	}
}

func toSubmissionSumProof(sp *zkp.SumProof) submissionSumProof {
	return submissionSumProof{
		EncryptedSum: sp.EncryptedSum.String(),
		ExpectedSum:  sp.ExpectedSum.String(),
		A:            sp.A.String(),
		E:            sp.E.String(),
		Z:            sp.Z.String(),
		RResponse:    sp.RResponse.String(),
	}
}
