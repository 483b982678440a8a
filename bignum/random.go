package bignum

import (
	"crypto/rand"
	"math/big"

	logging "github.com/ipfs/go-log"
	"github.com/pkg/errors"
)

var logger = logging.Logger("ballot/bignum")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// RandomBits returns a uniform sample in [0, 2^bits) sourced from the
// process's cryptographic entropy source. It fails with
// ErrEntropyUnavailable if that source cannot be read.
func RandomBits(bits int) (*big.Int, error) {
	if bits <= 0 {
		return nil, errors.Wrap(ErrBadRange, "RandomBits: bits must be positive")
	}
	max := new(big.Int).Lsh(one, uint(bits))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		logger.Errorf("RandomBits: entropy read failed: %v", err)
		return nil, errors.Wrap(ErrEntropyUnavailable, err.Error())
	}
	return n, nil
}

// RandomRange returns a uniform sample in [min, max). It rejection-samples
// using RandomBits(bitlen(max-min)) until the draw falls below the span,
// then shifts it back into [min, max).
func RandomRange(min, max *big.Int) (*big.Int, error) {
	if min == nil || max == nil || max.Cmp(min) <= 0 {
		return nil, errors.Wrap(ErrBadRange, "RandomRange: require min < max")
	}
	span := new(big.Int).Sub(max, min)
	bits := span.BitLen()
	for {
		n, err := RandomBits(bits)
		if err != nil {
			return nil, err
		}
		if n.Cmp(span) < 0 {
			return n.Add(n, min), nil
		}
	}
}

// RandomOddWithBitLength samples a random odd integer with exactly the
// requested bit length (top and bottom bits set), as used by GeneratePrime.
func RandomOddWithBitLength(bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, errors.Wrap(ErrBadRange, "RandomOddWithBitLength: bits must be >= 2")
	}
	n, err := RandomBits(bits)
	if err != nil {
		return nil, err
	}
	n.SetBit(n, bits-1, 1) // exact bit length
	n.SetBit(n, 0, 1)      // odd
	return n, nil
}
