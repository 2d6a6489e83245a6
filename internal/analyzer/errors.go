package analyzer

import "errors"

var (
	// ErrDivisionUndefined is returned when metrics are requested over zero
	// eligible baskets. No rule table is produced in that case.
	ErrDivisionUndefined = errors.New("no multi-item baskets: support, confidence and lift are undefined")

	// ErrInconsistentCounts is returned when a pair references a product
	// with no basket count, which cannot happen for counts built by Aggregate.
	ErrInconsistentCounts = errors.New("pair count references a product with zero basket count")

	// ErrInvalidArgument is returned for malformed query input.
	ErrInvalidArgument = errors.New("invalid argument")
)
