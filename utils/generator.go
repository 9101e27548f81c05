package utils

import "github.com/google/uuid"

// NewTransactionRef returns the opaque reference sent to Chapa as tx_ref.
// References carry no ordering and are not guessable. uuid.NewString panics
// if the entropy source is exhausted, which is not a recoverable condition.
func NewTransactionRef() string {
	return uuid.NewString()
}
