package bignum

import "github.com/pkg/errors"

// Named error kinds for the bignum layer (spec.md §7, Arithmetic/Entropy/InputDomain).
var (
	// ErrBadRange is returned when a range argument is malformed, e.g. min >= max.
	ErrBadRange = errors.New("bignum: invalid range")

	// ErrNoInverse is returned when a modular inverse does not exist, i.e. gcd(a,m) != 1.
	ErrNoInverse = errors.New("bignum: no modular inverse exists")

	// ErrEntropyUnavailable is returned when the host's entropy source fails.
	ErrEntropyUnavailable = errors.New("bignum: entropy source unavailable")
)
