package zkp_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlab-crypto/ballotcore/paillier"
	. "github.com/xlab-crypto/ballotcore/zkp"
)

const testKeyBits = 512

func genKey(t *testing.T) *paillier.PublicKey {
	t.Helper()
	pk, _, err := paillier.KeyGen(testKeyBits, 10)
	require.NoError(t, err)
	return pk
}

func TestBitProofCompletenessBothValues(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	for _, v := range []int{0, 1} {
		enc, err := paillier.Encrypt(big.NewInt(int64(v)), pk)
		require.NoError(t, err)

		proof, err := ProveBitValue(v, enc.Ciphertext, enc.Randomness, pk, challenge)
		require.NoError(t, err)

		result := VerifyBitProof(proof, pk, challenge)
		assert.True(t, result.Valid, result.Reason)
		assert.False(t, result.Malformed)
	}
}

func TestBitProofRejectsNonBitValue(t *testing.T) {
	pk := genKey(t)
	enc, err := paillier.Encrypt(big.NewInt(5), pk)
	require.NoError(t, err)

	_, err = ProveBitValue(5, enc.Ciphertext, enc.Randomness, pk, DefaultChallenge())
	require.Error(t, err)
}

func TestBitProofSoundnessTamperedZ(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()
	enc, err := paillier.Encrypt(big.NewInt(1), pk)
	require.NoError(t, err)

	proof, err := ProveBitValue(1, enc.Ciphertext, enc.Randomness, pk, challenge)
	require.NoError(t, err)

	proof.Proof1.Z.Add(proof.Proof1.Z, big.NewInt(1))
	proof.Proof1.Z.Mod(proof.Proof1.Z, pk.N)

	result := VerifyBitProof(proof, pk, challenge)
	assert.False(t, result.Valid)
}

func TestBitProofSoundnessWrongCiphertext(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	enc0, err := paillier.Encrypt(big.NewInt(0), pk)
	require.NoError(t, err)
	proof, err := ProveBitValue(0, enc0.Ciphertext, enc0.Randomness, pk, challenge)
	require.NoError(t, err)

	enc5, err := paillier.Encrypt(big.NewInt(5), pk)
	require.NoError(t, err)
	proof.Ciphertext = enc5.Ciphertext

	result := VerifyBitProof(proof, pk, challenge)
	assert.False(t, result.Valid)
}

func TestBitProofMalformedOnNilFields(t *testing.T) {
	pk := genKey(t)
	result := VerifyBitProof(&BitProof{}, pk, DefaultChallenge())
	assert.True(t, result.Malformed)
}

func TestSumProofCompleteness(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	var cs, rs []*big.Int
	for _, v := range []int64{0, 1, 0} {
		enc, err := paillier.Encrypt(big.NewInt(v), pk)
		require.NoError(t, err)
		cs = append(cs, enc.Ciphertext)
		rs = append(rs, enc.Randomness)
	}

	proof, err := ProveSumEqualsOne(cs, rs, pk, challenge)
	require.NoError(t, err)

	result := VerifySumProof(proof, pk, challenge)
	assert.True(t, result.Valid, result.Reason)
}

func TestSumProofSoundnessWrongTotal(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	var cs, rs []*big.Int
	for _, v := range []int64{1, 1, 0} { // sums to 2, not 1
		enc, err := paillier.Encrypt(big.NewInt(v), pk)
		require.NoError(t, err)
		cs = append(cs, enc.Ciphertext)
		rs = append(rs, enc.Randomness)
	}

	proof, err := ProveSumEqualsOne(cs, rs, pk, challenge)
	require.NoError(t, err)

	result := VerifySumProof(proof, pk, challenge)
	assert.False(t, result.Valid)
}

func TestSumProofRejectsMismatchedLengths(t *testing.T) {
	pk := genKey(t)
	enc, err := paillier.Encrypt(big.NewInt(1), pk)
	require.NoError(t, err)

	_, err = ProveSumEqualsOne([]*big.Int{enc.Ciphertext}, nil, pk, DefaultChallenge())
	require.Error(t, err)
}

func TestGenerateAndVerifyVoteProofValidBallot(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	vs := []int{0, 1, 0, 0}
	var cs, rs []*big.Int
	for _, v := range vs {
		enc, err := paillier.Encrypt(big.NewInt(int64(v)), pk)
		require.NoError(t, err)
		cs = append(cs, enc.Ciphertext)
		rs = append(rs, enc.Randomness)
	}

	proof, err := GenerateVoteProof(cs, vs, rs, pk, challenge)
	require.NoError(t, err)
	assert.Len(t, proof.BitProofs, len(vs))

	result := VerifyVoteProof(proof, pk, challenge)
	assert.True(t, result.Valid)
	for _, r := range result.BitProofResults {
		assert.True(t, r.Valid)
	}
	assert.True(t, result.SumProofResult.Valid)
}

func TestGenerateVoteProofRejectsNonBitSlot(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	vs := []int{0, 2, 0}
	var cs, rs []*big.Int
	for _, v := range vs {
		enc, err := paillier.Encrypt(big.NewInt(int64(v)), pk)
		require.NoError(t, err)
		cs = append(cs, enc.Ciphertext)
		rs = append(rs, enc.Randomness)
	}

	_, err := GenerateVoteProof(cs, vs, rs, pk, challenge)
	require.Error(t, err)
}

func TestGenerateVoteProofRejectsSumNotOne(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	vs := []int{1, 1, 0}
	var cs, rs []*big.Int
	for _, v := range vs {
		enc, err := paillier.Encrypt(big.NewInt(int64(v)), pk)
		require.NoError(t, err)
		cs = append(cs, enc.Ciphertext)
		rs = append(rs, enc.Randomness)
	}

	_, err := GenerateVoteProof(cs, vs, rs, pk, challenge)
	require.Error(t, err)
}

// TestVerifyVoteProofCatchesDecoupledEncryptedSum forges a ballot with
// two self-consistent but independent proofs: valid bit proofs over
// slots summing to 2, and a valid sum proof built over a fresh
// encrypt(1,·) unrelated to those slots. Each sub-proof verifies in
// isolation; VerifyVoteProof must still reject because EncryptedSum is
// not the product of the bit proof ciphertexts.
func TestVerifyVoteProofCatchesDecoupledEncryptedSum(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	vs := []int{1, 1, 0} // sums to 2, not 1
	var cs, rs []*big.Int
	bitProofs := make([]*BitProof, len(vs))
	for i, v := range vs {
		enc, err := paillier.Encrypt(big.NewInt(int64(v)), pk)
		require.NoError(t, err)
		cs = append(cs, enc.Ciphertext)
		rs = append(rs, enc.Randomness)
		bp, err := ProveBitValue(v, enc.Ciphertext, enc.Randomness, pk, challenge)
		require.NoError(t, err)
		bitProofs[i] = bp
	}

	forgedEnc, err := paillier.Encrypt(big.NewInt(1), pk)
	require.NoError(t, err)
	forgedSumProof, err := ProveSumEqualsOne([]*big.Int{forgedEnc.Ciphertext}, []*big.Int{forgedEnc.Randomness}, pk, challenge)
	require.NoError(t, err)

	// Each half verifies on its own.
	require.True(t, VerifyBitProof(bitProofs[0], pk, challenge).Valid)
	require.True(t, VerifySumProof(forgedSumProof, pk, challenge).Valid)

	forged := &BallotProof{BitProofs: bitProofs, SumProof: forgedSumProof, Type: VoteProofType}
	result := VerifyVoteProof(forged, pk, challenge)

	assert.False(t, result.Valid)
	assert.False(t, result.SumProofResult.Valid)
}

func TestVerifyVoteProofCatchesTamperedSlot(t *testing.T) {
	pk := genKey(t)
	challenge := DefaultChallenge()

	vs := []int{0, 1, 0}
	var cs, rs []*big.Int
	for _, v := range vs {
		enc, err := paillier.Encrypt(big.NewInt(int64(v)), pk)
		require.NoError(t, err)
		cs = append(cs, enc.Ciphertext)
		rs = append(rs, enc.Randomness)
	}

	proof, err := GenerateVoteProof(cs, vs, rs, pk, challenge)
	require.NoError(t, err)

	proof.BitProofs[0].Proof0.Z.Add(proof.BitProofs[0].Proof0.Z, big.NewInt(1))
	proof.BitProofs[0].Proof0.Z.Mod(proof.BitProofs[0].Proof0.Z, pk.N)

	result := VerifyVoteProof(proof, pk, challenge)
	assert.False(t, result.Valid)
	assert.False(t, result.BitProofResults[0].Valid)
	assert.True(t, result.BitProofResults[1].Valid)
}
