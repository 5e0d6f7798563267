// Package store defines the account persistence interface. Implementations
// include PostgreSQL (source of truth), Redis (read-through cache), and
// in-memory (for testing and single-node runs).
package store

import (
	"context"
	"errors"

	"github.com/tradestack/market-sim/internal/model"
)

// ErrNotFound is returned when no account matches the lookup. Any other
// error from a Store means the backend itself failed and the operation
// should surface as a transient store outage.
var ErrNotFound = errors.New("store: account not found")

// ErrDuplicateEmail is returned when creating an account with an email
// that already exists.
var ErrDuplicateEmail = errors.New("store: email already registered")

// Store is the account persistence interface. A SaveAccount either fully
// succeeds or leaves the stored account untouched; the ledger relies on
// this to keep settlements atomic.
type Store interface {
	// CreateAccount persists a new account. Email must be unique.
	CreateAccount(ctx context.Context, a *model.Account) error

	// GetAccount retrieves an account by its ID.
	GetAccount(ctx context.Context, id string) (*model.Account, error)

	// GetAccountByEmail retrieves an account by email.
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// GetAccountByExternalID retrieves an account by identity-provider ID.
	GetAccountByExternalID(ctx context.Context, externalID string) (*model.Account, error)

	// SaveAccount replaces the stored account state.
	SaveAccount(ctx context.Context, a *model.Account) error

	// DeleteAccount removes the account permanently.
	DeleteAccount(ctx context.Context, id string) error
}
