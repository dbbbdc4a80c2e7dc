package platform

import "errors"

var (
	// ErrNotInitialized is returned when an action runs before Initialize.
	ErrNotInitialized = errors.New("platform: not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("platform: already initialized")
	// ErrInvalidStateTransition is returned when the current round phase
	// forbids the attempted action.
	ErrInvalidStateTransition = errors.New("platform: invalid state transition")
	// ErrNotFound is returned for unknown identities, accounts or symbols.
	ErrNotFound = errors.New("platform: not found")
	// ErrAlreadyExists is returned for duplicate identity ids, duplicate
	// bindings and duplicate symbol registrations.
	ErrAlreadyExists = errors.New("platform: already exists")
	// ErrDuplicateUpdateInRound is returned when an identity receives a
	// second attention-rate update within one round.
	ErrDuplicateUpdateInRound = errors.New("platform: duplicate update in round")
	// ErrCursorMismatch is returned when the resume token passed to
	// SendPayments does not match the in-progress cursor.
	ErrCursorMismatch = errors.New("platform: payment cursor mismatch")
	// ErrAlreadyPaid is returned when a SendPayments call would re-cover a
	// range that has already been distributed.
	ErrAlreadyPaid = errors.New("platform: range already paid")
	// ErrUnauthorized is returned when the acting identity lacks the
	// required authority for the action.
	ErrUnauthorized = errors.New("platform: unauthorized")
	// ErrUnsupportedAsset is returned for transfers in a symbol that is not
	// registered with the platform.
	ErrUnsupportedAsset = errors.New("platform: unsupported asset")
	// ErrInsufficientPool is returned when a reward plan would pay out more
	// than the treasury holds.
	ErrInsufficientPool = errors.New("platform: insufficient reward pool")
	// ErrInsufficientBalance is returned when a transfer exceeds the
	// sender's balance.
	ErrInsufficientBalance = errors.New("platform: insufficient balance")
	// ErrInvalidAmount is returned for zero or negative quantities and a
	// zero batch size.
	ErrInvalidAmount = errors.New("platform: invalid amount")
)
