package ballot

import "github.com/pkg/errors"

// Named error kinds for the ballot orchestrator (spec.md §7).
var (
	ErrNoPublicKey            = errors.New("ballot: engine has no public key loaded")
	ErrEmptySelection         = errors.New("ballot: selection vector has no true slot")
	ErrCandidateCountMismatch = errors.New("ballot: selection length does not match configured candidate count")
)
