package zkp

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Challenge is the pluggable Fiat-Shamir hash oracle behind every
// sigma-protocol proof in this package (spec.md §4.3.3, §9 Open
// Question 1). Its output lies in [0, n). Swappable so tests can pin a
// deterministic oracle and so the oracle can later be replaced without
// touching proof logic.
type Challenge interface {
	Hash(domain string, nSquare, n *big.Int, elements ...*big.Int) (*big.Int, error)
}

// sha3Challenge is the default Challenge: SHA3-256 over a
// domain-separated, length-delimited, fixed-width big-endian encoding
// of each element reduced modulo nSquare, expanded by an appended
// counter until the digest interpreted as an integer falls in [0, n).
type sha3Challenge struct{}

// DefaultChallenge returns the standard SHA3-256 based Challenge oracle.
func DefaultChallenge() Challenge {
	return sha3Challenge{}
}

const hashDelimiter = 0x1f

func (sha3Challenge) Hash(domain string, nSquare, n *big.Int, elements ...*big.Int) (*big.Int, error) {
	if n == nil || n.Sign() <= 0 || nSquare == nil || nSquare.Sign() <= 0 {
		return nil, errors.Wrap(ErrMalformedProof, "Hash: modulus must be positive")
	}

	width := (nSquare.BitLen() + 7) / 8
	qBits := n.BitLen()

	payload := encodeChallengeInputs(domain, nSquare, width, elements)
	digest := sha3Sum256(payload)

	for counter := uint32(0); ; counter++ {
		e := firstBitsOf(qBits, digest)
		if e.Cmp(n) < 0 {
			return e, nil
		}
		var counterBuf [4]byte
		binary.BigEndian.PutUint32(counterBuf[:], counter)
		digest = sha3Sum256(append(append([]byte{}, digest...), counterBuf[:]...))
	}
}

func encodeChallengeInputs(domain string, nSquare *big.Int, width int, elements []*big.Int) []byte {
	buf := make([]byte, 0, len(domain)+1+len(elements)*(width+1))
	buf = append(buf, []byte(domain)...)
	buf = append(buf, hashDelimiter)
	for _, e := range elements {
		reduced := new(big.Int).Mod(e, nSquare)
		fixed := make([]byte, width)
		reduced.FillBytes(fixed)
		buf = append(buf, fixed...)
		buf = append(buf, hashDelimiter)
	}
	return buf
}

func sha3Sum256(data []byte) []byte {
	h := sha3.Sum256(data)
	return h[:]
}

// firstBitsOf returns the integer formed by the low `bits` bits of
// digest, mirroring the teacher's RejectionSample bit-truncation
// (common/utils.go): if digest carries fewer bits than requested, the
// high bits are implicitly zero.
func firstBitsOf(bits int, digest []byte) *big.Int {
	v := new(big.Int).SetBytes(digest)
	out := new(big.Int)
	for i := 0; i < bits; i++ {
		if v.Bit(i) == 1 {
			out.SetBit(out, i, 1)
		}
	}
	return out
}
