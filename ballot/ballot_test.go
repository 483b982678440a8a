package ballot_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/xlab-crypto/ballotcore/ballot"
	"github.com/xlab-crypto/ballotcore/paillier"
	"github.com/xlab-crypto/ballotcore/zkp"
)

func newTestEngine(t *testing.T, candidateCount int) *Engine {
	t.Helper()
	cfg := DefaultConfig(candidateCount)
	cfg.KeyBits = 512 // smaller than the spec default to keep the suite fast
	e := NewEngine(cfg)
	require.NoError(t, e.KeyGen())
	return e
}

// S1: single selection verifies and tallies to exactly the selected slot.
func TestSingleSelectionVerifiesAndTallies(t *testing.T) {
	e := newTestEngine(t, 5)

	pkg, err := e.EncryptAndProve([]bool{false, false, true, false, false})
	require.NoError(t, err)

	report := e.Verify(pkg)
	assert.True(t, report.Valid)

	perSlot, total, err := e.Tally(pkg.Ciphertexts)
	require.NoError(t, err)
	want := []*big.Int{big.NewInt(0), big.NewInt(0), big.NewInt(1), big.NewInt(0), big.NewInt(0)}
	for i := range want {
		assert.Equal(t, want[i], perSlot[i])
	}
	assert.Equal(t, big.NewInt(1), total)
}

// S2: an all-false selection is rejected before any proof is built.
func TestEmptySelectionRejected(t *testing.T) {
	e := newTestEngine(t, 5)

	_, err := e.EncryptAndProve([]bool{false, false, false, false, false})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

// S3: a multi-selection ballot fails GenerateVoteProof's sum check;
// forcing the proof through anyway (mirroring the source's diagnostic
// selectAllCandidates knob, spec.md §9 point 3) leaves bit proofs
// valid but the sum proof invalid.
func TestMultiSelectionRejectedBySumCheck(t *testing.T) {
	e := newTestEngine(t, 5)

	_, err := e.EncryptAndProve([]bool{true, false, true, false, false})
	require.Error(t, err)
}

func TestMultiSelectionForcedThroughFailsSumProofOnly(t *testing.T) {
	cfg := DefaultConfig(3)
	cfg.KeyBits = 512
	e := NewEngine(cfg)
	require.NoError(t, e.KeyGen())

	pkInfo, err := e.PublicKeyInfo()
	require.NoError(t, err)
	n, ok := new(big.Int).SetString(pkInfo.N, 10)
	require.True(t, ok)
	pk := paillier.NewPublicKey(n)
	challenge := zkp.DefaultChallenge()

	vs := []int{1, 1, 0} // sums to 2, not 1
	var cs, rs []*big.Int
	bitProofs := make([]*zkp.BitProof, len(vs))
	for i, v := range vs {
		enc, err := paillier.Encrypt(big.NewInt(int64(v)), pk)
		require.NoError(t, err)
		cs = append(cs, enc.Ciphertext)
		rs = append(rs, enc.Randomness)
		bp, err := zkp.ProveBitValue(v, enc.Ciphertext, enc.Randomness, pk, challenge)
		require.NoError(t, err)
		bitProofs[i] = bp
	}
	sumProof, err := zkp.ProveSumEqualsOne(cs, rs, pk, challenge)
	require.NoError(t, err)

	forced := &zkp.BallotProof{BitProofs: bitProofs, SumProof: sumProof, Type: zkp.VoteProofType}
	report := zkp.VerifyVoteProof(forced, pk, challenge)

	assert.False(t, report.Valid)
	assert.False(t, report.SumProofResult.Valid)
	for _, r := range report.BitProofResults {
		assert.True(t, r.Valid)
	}
}

// S4: tampering with one numeric field of a valid proof invalidates it.
func TestTamperedProofFailsVerification(t *testing.T) {
	e := newTestEngine(t, 5)

	pkg, err := e.EncryptAndProve([]bool{false, false, true, false, false})
	require.NoError(t, err)

	pkg.Proof.BitProofs[2].Proof1.Z.Xor(pkg.Proof.BitProofs[2].Proof1.Z, big.NewInt(1))

	report := e.Verify(pkg)
	assert.False(t, report.Valid)
	assert.False(t, report.BitProofResults[2].Valid)
}

// S4b: Verify must bind pkg.Ciphertexts to the proof's bit proof
// ciphertexts, since those are the values Tally will decrypt. Swapping
// in unrelated ciphertexts after a valid proof was generated must fail
// verification even though the proof itself is untouched.
func TestVerifyRejectsCiphertextsNotBoundToProof(t *testing.T) {
	e := newTestEngine(t, 3)

	pkg, err := e.EncryptAndProve([]bool{true, false, false})
	require.NoError(t, err)

	forged, err := paillier.Encrypt(big.NewInt(0), pkg.PublicKey)
	require.NoError(t, err)
	pkg.Ciphertexts[1] = forged.Ciphertext

	report := e.Verify(pkg)
	assert.False(t, report.Valid)
}

// S5: homomorphic addition of two paillier ciphertexts, decrypted
// through the ballot engine's Tally.
func TestHomomorphicOperationsViaEngine(t *testing.T) {
	e := newTestEngine(t, 1)
	pkInfo, err := e.PublicKeyInfo()
	require.NoError(t, err)
	n, ok := new(big.Int).SetString(pkInfo.N, 10)
	require.True(t, ok)
	pk := paillier.NewPublicKey(n)

	e3, err := paillier.Encrypt(big.NewInt(3), pk)
	require.NoError(t, err)
	e5, err := paillier.Encrypt(big.NewInt(5), pk)
	require.NoError(t, err)
	sum, err := paillier.AddCiphertexts(e3.Ciphertext, e5.Ciphertext, pk)
	require.NoError(t, err)

	_, total, err := e.Tally([]*big.Int{sum})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(8), total)
}

func TestToSubmissionRoundTripsDecimalStrings(t *testing.T) {
	e := newTestEngine(t, 3)
	pkg, err := e.EncryptAndProve([]bool{true, false, false})
	require.NoError(t, err)

	sub, err := ToSubmission(pkg, "voter-1", "session-1", []string{"alice", "bob", "carol"}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "2026-01-02T03:04:05Z", sub.Timestamp)
	assert.Equal(t, pkg.PublicKey.N.String(), sub.PublicKey.N)
	assert.Len(t, sub.EncryptedVotes, 3)
	assert.Equal(t, "alice", sub.EncryptedVotes[0].CandidateName)
	assert.Len(t, sub.ZKPProofs.BitProofs, 3)
	assert.Equal(t, "1", sub.ZKPProofs.SumProof.ExpectedSum)
}

func TestToSubmissionRejectsMismatchedCandidateNames(t *testing.T) {
	e := newTestEngine(t, 3)
	pkg, err := e.EncryptAndProve([]bool{true, false, false})
	require.NoError(t, err)

	_, err = ToSubmission(pkg, "voter-1", "session-1", []string{"only-one"}, time.Now())
	require.Error(t, err)
}

func TestClearThenKeyGenRestoresUsableEngine(t *testing.T) {
	e := newTestEngine(t, 2)
	e.Clear()

	_, err := e.EncryptAndProve([]bool{true, false})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPublicKey)

	require.NoError(t, e.KeyGen())
	pkg, err := e.EncryptAndProve([]bool{true, false})
	require.NoError(t, err)
	assert.True(t, e.Verify(pkg).Valid)
}
