package bignum

import (
	"math/big"

	"github.com/otiai10/primes"
	"github.com/pkg/errors"
)

const (
	// DefaultMillerRabinRounds matches spec.md §6.3's configured default.
	DefaultMillerRabinRounds = 10

	// trialDivisionBound caps the small-prime cache used to quickly
	// reject obviously-composite candidates before paying for Miller-Rabin.
	trialDivisionBound = 1000
)

func init() {
	// prime the otiai10/primes cache once; trialDivide reuses it on every call.
	_ = primes.Globally.Until(trialDivisionBound)
}

// IsProbablePrime runs Miller-Rabin with k witnesses drawn uniformly from
// [2, n-1). It returns true immediately for 2 and 3, and rejects n < 2
// and even n outright. False-positive probability is at most 4^-k.
func IsProbablePrime(n *big.Int, k int) (bool, error) {
	if k <= 0 {
		k = DefaultMillerRabinRounds
	}
	if n.Cmp(two) < 0 {
		return false, nil
	}
	if n.Cmp(big.NewInt(3)) <= 0 {
		return true, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}

	// n-1 = d * 2^r with d odd
	nMinus1 := new(big.Int).Sub(n, one)
	d := new(big.Int).Set(nMinus1)
	r := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		r++
	}

	for i := 0; i < k; i++ {
		a, err := RandomRange(two, nMinus1) // witnesses drawn uniformly from [2, n-1)
		if err != nil {
			return false, err
		}
		if !millerRabinWitness(a, d, n, r) {
			return false, nil
		}
	}
	return true, nil
}

func millerRabinWitness(a, d, n *big.Int, r int) bool {
	x := ModPow(a, d, n)
	if x.Cmp(one) == 0 || x.Cmp(new(big.Int).Sub(n, one)) == 0 {
		return true
	}
	for i := 0; i < r-1; i++ {
		x = ModPow(x, two, n)
		if x.Cmp(new(big.Int).Sub(n, one)) == 0 {
			return true
		}
	}
	return false
}

// trialDivide reports whether n is divisible by any prime below
// trialDivisionBound, used as a cheap pre-filter ahead of Miller-Rabin.
func trialDivide(n *big.Int) bool {
	for _, p := range primes.Until(trialDivisionBound).List() {
		pb := big.NewInt(p)
		if n.Cmp(pb) == 0 {
			return false
		}
		if new(big.Int).Mod(n, pb).Sign() == 0 {
			return true
		}
	}
	return false
}

// GeneratePrime samples a random odd integer of exactly `bits` bits,
// retrying until it passes trial division and IsProbablePrime.
func GeneratePrime(bits, millerRabinRounds int) (*big.Int, error) {
	if bits < 2 {
		return nil, errors.Wrap(ErrBadRange, "GeneratePrime: bits must be >= 2")
	}
	for {
		cand, err := RandomOddWithBitLength(bits)
		if err != nil {
			return nil, err
		}
		if trialDivide(cand) {
			continue
		}
		ok, err := IsProbablePrime(cand, millerRabinRounds)
		if err != nil {
			return nil, err
		}
		if ok {
			return cand, nil
		}
	}
}

// GenerateTwoPrimes generates two independent `bits`-bit primes,
// rejecting the (negligibly likely) case p == q.
func GenerateTwoPrimes(bits, millerRabinRounds int) (p, q *big.Int, err error) {
	p, err = GeneratePrime(bits, millerRabinRounds)
	if err != nil {
		return nil, nil, err
	}
	for {
		q, err = GeneratePrime(bits, millerRabinRounds)
		if err != nil {
			return nil, nil, err
		}
		if q.Cmp(p) != 0 {
			return p, q, nil
		}
	}
}
