package view

import "errors"

var (
	// ErrInvalidTransition is returned when a state machine is asked to move
	// along an edge it does not have.  The state is left unchanged.
	ErrInvalidTransition = errors.New("view: invalid transition")
	// ErrNoDialog is returned when confirming or cancelling with no dialog open.
	ErrNoDialog = errors.New("view: no confirmation open")
	// ErrStaleDialog is returned for a token that belongs to a dialog that was
	// replaced or already closed.
	ErrStaleDialog = errors.New("view: stale confirmation")
)
