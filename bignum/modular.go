package bignum

import (
	"math/big"

	"github.com/pkg/errors"
)

// ModPow computes b^e mod m using binary (square-and-multiply)
// exponentiation. Defined for m >= 1; returns 0 when m == 1, matching
// math/big.Int.Exp's convention.
func ModPow(b, e, m *big.Int) *big.Int {
	return new(big.Int).Exp(b, e, m)
}

// ExtGcd returns (g, x, y) such that a*x + b*y = g, with g >= 0.
func ExtGcd(a, b *big.Int) (g, x, y *big.Int) {
	g = new(big.Int)
	x = new(big.Int)
	y = new(big.Int)
	g.GCD(x, y, a, b)
	return g, x, y
}

// ModInverse returns a^-1 mod m in [0, m). It fails with ErrNoInverse
// when gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, errors.Wrapf(ErrNoInverse, "ModInverse: gcd(%s, %s) != 1", a.String(), m.String())
	}
	return inv, nil
}

// Gcd returns the greatest common divisor of a and b.
func Gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// Lcm returns the least common multiple of a and b. Lcm(0, ·) == 0.
func Lcm(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return big.NewInt(0)
	}
	g := Gcd(a, b)
	l := new(big.Int).Div(a, g)
	return l.Mul(l, b)
}

// L implements the Paillier decryption auxiliary L(x) = (x-1)/n. The
// caller guarantees x ≡ 1 (mod n) so the division is always exact.
func L(x, n *big.Int) *big.Int {
	t := new(big.Int).Sub(x, one)
	return t.Div(t, n)
}

// BitLength returns the number of bits required to represent n.
func BitLength(n *big.Int) int {
	return n.BitLen()
}
