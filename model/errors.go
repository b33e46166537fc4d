package model

import (
	"github.com/pkg/errors"
)

// Error kinds surfaced by data preparation. All of them are fail-fast: the
// caller gets no partial result and nothing is retried. Use errors.Is to
// test for a kind; the wrapped message names the offending token or field.
var (
	// ErrMalformedFormula - the formula text does not have the four
	// pipe-delimited parts or a required role is empty.
	ErrMalformedFormula = errors.New("malformed formula")

	// ErrUnresolvedColumn - a role named by the formula does not exist in
	// the table.
	ErrUnresolvedColumn = errors.New("unresolved column")

	// ErrEmptyAfterFiltering - zero rows remain after subsetting and
	// missing-value removal.
	ErrEmptyAfterFiltering = errors.New("empty after filtering")

	// ErrIncompatibleConfiguration - a Config value is outside the
	// supported set. Raised before any sampler is invoked.
	ErrIncompatibleConfiguration = errors.New("incompatible configuration")
)
