package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services and mapped to HTTP statuses by the
// handlers.
var (
	// ErrNotFound indicates a stale or unknown entity reference.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyDecided indicates an attempt to re-decide a terminal
	// time-off request.
	ErrAlreadyDecided = errors.New("time-off request has already been decided")

	// ErrDraftActive indicates a draft generation attempt while another
	// draft is active.
	ErrDraftActive = errors.New("a draft schedule is already active")

	// ErrNoDraft indicates an apply or discard with no active draft.
	ErrNoDraft = errors.New("no active draft schedule")
)

// ValidationError carries every scheduling rule a proposed shift violated.
// It is caller-correctable and surfaced verbatim.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, " | ")
}

// OracleError wraps a failure of the external schedule generator. It never
// corrupts committed state and is recoverable by retry or manual entry.
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("schedule oracle failed: %v", e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}
