package ledger

import "errors"

// Operation errors surfaced to the caller. Every failure is local to one
// operation and leaves the account exactly as it was; resubmission is
// always safe.
var (
	// ErrInvalidAmount is returned for non-positive amounts and for
	// deposits below the configured minimum.
	ErrInvalidAmount = errors.New("ledger: invalid amount")

	// ErrInsufficientFunds is returned when the balance cannot cover a
	// withdrawal or purchase.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrNoPosition is returned when a sell targets a holding the account
	// does not have, or more quantity than it holds.
	ErrNoPosition = errors.New("ledger: no matching position")

	// ErrUnknownInstrument is returned for trades referencing a code
	// absent from the catalog.
	ErrUnknownInstrument = errors.New("ledger: unknown instrument")

	// ErrHasBalance blocks deletion of an account with a positive balance.
	ErrHasBalance = errors.New("ledger: account still has balance")

	// ErrHasHoldings blocks deletion of an account with open positions.
	ErrHasHoldings = errors.New("ledger: account still has holdings")

	// ErrAccountNotFound is returned for operations on nonexistent accounts.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("ledger: email already registered")

	// ErrStoreUnavailable is returned when the account store could not be
	// read or written. The operation had no effect; the caller decides
	// whether to resubmit.
	ErrStoreUnavailable = errors.New("ledger: account store unavailable")
)
