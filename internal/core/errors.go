package core

import "errors"

// Error taxonomy for ledger operations. Handlers map these onto HTTP
// statuses; everything else is treated as a store failure.
var (
	// ErrNotFound covers both genuinely absent records and records owned
	// by another user. Owner mismatches must never be distinguishable
	// from absence.
	ErrNotFound = errors.New("record not found")

	// ErrValidation marks malformed or missing input. Operations abort
	// before any write.
	ErrValidation = errors.New("invalid input")

	// ErrStore marks an underlying store failure. No automatic retry
	// happens at this layer.
	ErrStore = errors.New("store failure")
)
