// Package ballot implements the thin orchestrator that drives the
// paillier and zkp packages through the encrypt -> prove -> verify ->
// tally lifecycle of a single ballot (spec.md §4.4).
package ballot

import (
	"math/big"
	"time"

	logging "github.com/ipfs/go-log"

	"github.com/xlab-crypto/ballotcore/paillier"
	"github.com/xlab-crypto/ballotcore/zkp"
)

var logger = logging.Logger("ballot/ballot")

// Config fixes the shape of the selection vector, the candidate names
// an Engine stamps onto outgoing submissions, and the Paillier key
// parameters an Engine uses (spec.md §6.3).
type Config struct {
	CandidateCount    int
	CandidateNames    []string
	KeyBits           int
	MillerRabinRounds int
}

// DefaultConfig returns a Config for candidateCount candidates using
// the spec's defaults: 1024-bit keys, 10 Miller-Rabin rounds.
func DefaultConfig(candidateCount int) Config {
	return Config{
		CandidateCount:    candidateCount,
		KeyBits:           1024,
		MillerRabinRounds: 10,
	}
}

// PublicKeyInfo is the decimal-string key summary exposed to the UI
// collaborator (spec.md §6.1).
type PublicKeyInfo struct {
	N         string
	G         string
	BitLength int
}

// PrivateKeyInfo is the decimal-string key summary exposed to the
// tallying collaborator (spec.md §6.1).
type PrivateKeyInfo struct {
	Lambda    string
	Mu        string
	BitLength int
}

// BallotPackage is the complete artifact a voter-side Engine emits:
// the public key it was encrypted under, the per-slot ciphertexts, and
// the bundled zero-knowledge proof.
type BallotPackage struct {
	PublicKey   *paillier.PublicKey
	Ciphertexts []*big.Int
	Proof       *zkp.BallotProof
}

// VerificationReport is the structured, never-thrown verdict returned
// by Verify (spec.md §4.3.4, §7).
type VerificationReport = zkp.VerificationResult

// Engine owns a paillier.Engine and a Challenge oracle and exposes the
// voter-side and authority-side ballot operations over a fixed
// candidate count (spec.md §9's explicit, owned Engine value replacing
// the source's global singleton).
type Engine struct {
	cfg       Config
	paillier  *paillier.Engine
	challenge zkp.Challenge
}

// NewEngine returns an Engine with no keys loaded.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		paillier:  paillier.NewEngine(),
		challenge: zkp.DefaultChallenge(),
	}
}

// KeyGen generates and loads a fresh key pair per the engine's Config.
func (e *Engine) KeyGen() error {
	if err := e.paillier.KeyGen(e.cfg.KeyBits, e.cfg.MillerRabinRounds); err != nil {
		return err
	}
	logger.Infof("KeyGen: ready for %d candidates", e.cfg.CandidateCount)
	return nil
}

// LoadPublicKey installs a public key generated elsewhere (e.g. the
// voter-side engine loading the authority's published key).
func (e *Engine) LoadPublicKey(pk *paillier.PublicKey) {
	e.paillier.LoadPublicKey(pk)
}

// LoadKeyPair installs a full key pair generated elsewhere (e.g. the
// authority-side engine restoring a persisted key).
func (e *Engine) LoadKeyPair(pk *paillier.PublicKey, sk *paillier.PrivateKey) {
	e.paillier.LoadKeyPair(pk, sk)
}

// PublicKeyInfo reports the loaded public key as decimal strings.
func (e *Engine) PublicKeyInfo() (*PublicKeyInfo, error) {
	pk := e.paillier.PublicKey()
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	return &PublicKeyInfo{N: pk.N.String(), G: pk.G.String(), BitLength: pk.N.BitLen()}, nil
}

// PrivateKeyInfo reports the loaded private key as decimal strings.
func (e *Engine) PrivateKeyInfo() (*PrivateKeyInfo, error) {
	sk := e.paillier.PrivateKey()
	if sk == nil {
		return nil, paillier.ErrNoPrivateKey
	}
	return &PrivateKeyInfo{Lambda: sk.Lambda.String(), Mu: sk.Mu.String(), BitLength: sk.N.BitLen()}, nil
}

// Clear wipes any loaded key material.
func (e *Engine) Clear() {
	e.paillier.Clear()
}

// EncryptAndProve encrypts each slot of selection, rejects an
// all-false selection as ErrEmptySelection (spec.md §4.4 step 3,
// mirroring the source's UI-level guard), and bundles the result with
// a generated vote proof. Per-slot randomness is discarded once the
// proof is built.
func (e *Engine) EncryptAndProve(selection []bool) (*BallotPackage, error) {
	pk := e.paillier.PublicKey()
	if pk == nil {
		return nil, ErrNoPublicKey
	}
	if len(selection) != e.cfg.CandidateCount {
		return nil, ErrCandidateCountMismatch
	}

	cs := make([]*big.Int, len(selection))
	rs := make([]*big.Int, len(selection))
	vs := make([]int, len(selection))
	sum := 0
	for i, selected := range selection {
		v := 0
		if selected {
			v = 1
		}
		vs[i] = v
		sum += v

		enc, err := paillier.Encrypt(big.NewInt(int64(v)), pk)
		if err != nil {
			return nil, err
		}
		cs[i] = enc.Ciphertext
		rs[i] = enc.Randomness
	}
	if sum == 0 {
		return nil, ErrEmptySelection
	}

	proof, err := zkp.GenerateVoteProof(cs, vs, rs, pk, e.challenge)
	if err != nil {
		return nil, err
	}

	logger.Debugf("EncryptAndProve: built ballot over %d slots", len(selection))
	return &BallotPackage{PublicKey: pk, Ciphertexts: cs, Proof: proof}, nil
}

// Verify checks pkg's bundled proof against its own embedded public
// key. It is pure and stateless: it never consults the engine's
// loaded keys. Before delegating to the proof system it binds
// pkg.Ciphertexts — the values Tally will later decrypt — to the
// proof's own bit proof ciphertexts, so a verdict of Valid also
// vouches for the exact ciphertexts the caller is about to tally.
func (e *Engine) Verify(pkg *BallotPackage) *VerificationReport {
	if pkg == nil || pkg.Proof == nil || !ciphertextsMatchProof(pkg) {
		return &VerificationReport{Valid: false}
	}
	return zkp.VerifyVoteProof(pkg.Proof, pkg.PublicKey, e.challenge)
}

// ciphertextsMatchProof reports whether pkg.Ciphertexts is exactly the
// slice of ciphertexts pkg.Proof's bit proofs were generated over,
// slot for slot.
func ciphertextsMatchProof(pkg *BallotPackage) bool {
	if len(pkg.Ciphertexts) != len(pkg.Proof.BitProofs) {
		return false
	}
	for i, c := range pkg.Ciphertexts {
		bp := pkg.Proof.BitProofs[i]
		if c == nil || bp == nil || bp.Ciphertext == nil || c.Cmp(bp.Ciphertext) != 0 {
			return false
		}
	}
	return true
}

// Tally decrypts each ciphertext individually and decrypts the
// homomorphic sum of all of them, satisfying total == sum(perSlot).
func (e *Engine) Tally(ciphertexts []*big.Int) (perSlot []*big.Int, total *big.Int, err error) {
	sk := e.paillier.PrivateKey()
	if sk == nil {
		return nil, nil, paillier.ErrNoPrivateKey
	}

	perSlot = make([]*big.Int, len(ciphertexts))
	for i, c := range ciphertexts {
		m, err := paillier.Decrypt(c, sk)
		if err != nil {
			return nil, nil, err
		}
		perSlot[i] = m
	}

	sumCipher, err := paillier.SumCiphertexts(ciphertexts, &sk.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	total, err = paillier.Decrypt(sumCipher, sk)
	if err != nil {
		return nil, nil, err
	}

	return perSlot, total, nil
}

// ToSubmission converts pkg into its wire form, stamping the engine's
// configured CandidateNames onto the per-slot votes (spec.md §6.2).
func (e *Engine) ToSubmission(pkg *BallotPackage, voterID, sessionID string, timestamp time.Time) (*Submission, error) {
	return ToSubmission(pkg, voterID, sessionID, e.cfg.CandidateNames, timestamp)
}
