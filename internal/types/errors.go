package types

import "errors"

var (
	// ErrEmptyDocument is returned when a document produced no lines at all.
	ErrEmptyDocument = errors.New("empty document")

	// ErrMissingCollateral is returned when a referenced document or
	// collection descriptor does not exist.
	ErrMissingCollateral = errors.New("missing collateral")

	// ErrSimilarityUnavailable is returned when a similarity provider cannot
	// represent one of the compared texts.
	ErrSimilarityUnavailable = errors.New("similarity unavailable")
)
