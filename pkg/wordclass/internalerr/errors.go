// Package internalerr holds the sentinel errors shared across the
// wordclass packages, so callers can distinguish recoverable input/config
// errors from fatal invariant violations with errors.Is.
package internalerr

import "errors"

// Sentinel errors for common cases.
var (
	ErrEmptyCorpus       = errors.New("corpus is empty")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvariantViolated = errors.New("optimiser invariant violated")
	ErrNegativeCount     = errors.New("negative count in table")
	ErrNotFound          = errors.New("not found")
)
