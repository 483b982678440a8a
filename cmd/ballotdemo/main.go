// ballotdemo drives a single ballot end to end: keygen, encrypt and
// prove a selection, verify the resulting package, and tally it back
// open. It exists to exercise the ballot package the way a CLI
// consumer would, not as a production voting client.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/xlab-crypto/ballotcore/ballot"
)

func main() {
	candidateCount := flag.Int("candidates", 5, "number of candidate slots")
	selected := flag.Int("select", 0, "zero-based index of the selected candidate")
	keyBits := flag.Int("key-bits", 1024, "Paillier key size in bits")
	flag.Parse()

	if *selected < 0 || *selected >= *candidateCount {
		fmt.Fprintf(os.Stderr, "select index %d out of range for %d candidates\n", *selected, *candidateCount)
		os.Exit(1)
	}

	cfg := ballot.DefaultConfig(*candidateCount)
	cfg.KeyBits = *keyBits
	cfg.CandidateNames = make([]string, *candidateCount)
	for i := range cfg.CandidateNames {
		cfg.CandidateNames[i] = fmt.Sprintf("candidate-%d", i)
	}
	engine := ballot.NewEngine(cfg)

	if err := engine.KeyGen(); err != nil {
		fmt.Fprintf(os.Stderr, "keygen failed: %v\n", err)
		os.Exit(1)
	}

	pkInfo, err := engine.PublicKeyInfo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading public key failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("public key: n=%s bits=%d\n", pkInfo.N, pkInfo.BitLength)

	selection := make([]bool, *candidateCount)
	selection[*selected] = true

	pkg, err := engine.EncryptAndProve(selection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encryptAndProve failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("encrypted %d slots, generated %d bit proofs + 1 sum proof\n", len(pkg.Ciphertexts), len(pkg.Proof.BitProofs))

	report := engine.Verify(pkg)
	fmt.Printf("verification: overallValid=%v\n", report.Valid)
	if !report.Valid {
		os.Exit(1)
	}

	perSlot, total, err := engine.Tally(pkg.Ciphertexts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tally failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("tally: perSlot=%v total=%s\n", perSlot, total.String())

	sub, err := engine.ToSubmission(pkg, ballot.NewID(), ballot.NewID(), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "building submission failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("submission ready: voterId=%s timestamp=%s\n", sub.VoterID, sub.Timestamp)

	engine.Clear()
}
