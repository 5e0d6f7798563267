// Package ledger owns every mutation of account balance, holdings,
// watchlist, and history, and enforces the account invariants inside each
// operation. Balances never go negative and positions never reach zero
// quantity without being removed.
//
// All monetary values use shopspring/decimal — never float64 for money.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/catalog"
	"github.com/tradestack/market-sim/internal/metrics"
	"github.com/tradestack/market-sim/internal/model"
	"github.com/tradestack/market-sim/internal/store"
)

// Config carries the ledger policy knobs.
type Config struct {
	// MinDeposit is the smallest accepted deposit amount.
	MinDeposit decimal.Decimal

	// SeedBalance is the opening balance for new accounts.
	SeedBalance decimal.Decimal

	// DefaultWatchlist is assigned to accounts at creation.
	DefaultWatchlist []string
}

// DefaultConfig returns the stock policy: 1000 minimum deposit, 5000 seed
// balance, large-cap default watchlist.
func DefaultConfig() Config {
	return Config{
		MinDeposit:       decimal.NewFromInt(1000),
		SeedBalance:      decimal.NewFromInt(5000),
		DefaultWatchlist: []string{"GOOG", "TSLA", "AMZN", "META", "NVDA"},
	}
}

// Engine executes account operations. Each mutating operation serializes
// on a per-account mutex, loads the account, validates, mutates a copy,
// and saves — so a failed save or validation leaves stored state untouched.
type Engine struct {
	store   store.Store
	catalog *catalog.Catalog
	cfg     Config
	locks   *accountLocks
}

// NewEngine creates a ledger engine over the given store and catalog.
func NewEngine(st store.Store, cat *catalog.Catalog, cfg Config) *Engine {
	if cfg.MinDeposit.IsZero() && cfg.SeedBalance.IsZero() {
		cfg = DefaultConfig()
	}
	return &Engine{
		store:   st,
		catalog: cat,
		cfg:     cfg,
		locks:   newAccountLocks(),
	}
}

// storeErr maps store failures into the ledger taxonomy. Anything that is
// not a definitive not-found/duplicate is a transient outage.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrAccountNotFound
	case errors.Is(err, store.ErrDuplicateEmail):
		return ErrDuplicateEmail
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func generateIBAN() string {
	return fmt.Sprintf("ES89-%08d-BANK", 10000000+rand.Intn(90000000))
}

// Register creates a new account with the seed balance and default
// watchlist. The email must not already be registered.
func (e *Engine) Register(ctx context.Context, name, email string) (*model.Account, error) {
	if name == "" {
		name = "Trader"
	}

	a := &model.Account{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		IBAN:      generateIBAN(),
		Balance:   e.cfg.SeedBalance,
		Watchlist: append([]string(nil), e.cfg.DefaultWatchlist...),
		CreatedAt: time.Now().UTC(),
	}

	if err := e.store.CreateAccount(ctx, a); err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

// SyncIdentity resolves an account for an external identity: by external
// ID first, then by email (linking the external ID to the existing
// account), else by creating a fresh account when createIfMissing is set.
func (e *Engine) SyncIdentity(ctx context.Context, externalID, email, name, avatar string, createIfMissing bool) (*model.Account, error) {
	a, err := e.store.GetAccountByExternalID(ctx, externalID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, storeErr(err)
	}

	if a == nil {
		a, err = e.store.GetAccountByEmail(ctx, email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, storeErr(err)
		}
		if a != nil {
			// Migrate an email-registered account onto this identity.
			// The link goes through mutate so a settlement racing this
			// sync cannot be overwritten by a stale copy.
			return e.mutate(ctx, a.ID, func(a *model.Account) error {
				a.ExternalID = externalID
				if avatar != "" {
					a.Avatar = avatar
				}
				return nil
			})
		}
	}

	if a != nil {
		return a, nil
	}
	if !createIfMissing {
		return nil, ErrAccountNotFound
	}

	if name == "" {
		name = "Trader"
	}
	a = &model.Account{
		ID:         uuid.New().String(),
		ExternalID: externalID,
		Name:       name,
		Email:      email,
		Avatar:     avatar,
		IBAN:       generateIBAN(),
		Balance:    e.cfg.SeedBalance,
		Watchlist:  append([]string(nil), e.cfg.DefaultWatchlist...),
		CreatedAt:  time.Now().UTC(),
	}
	if err := e.store.CreateAccount(ctx, a); err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

// Get returns the current account view.
func (e *Engine) Get(ctx context.Context, id string) (*model.Account, error) {
	a, err := e.store.GetAccount(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

// mutate runs fn against a copy of the account under the per-account lock
// and saves the result. fn returning an error aborts with no state change.
func (e *Engine) mutate(ctx context.Context, id string, fn func(a *model.Account) error) (*model.Account, error) {
	unlock := e.locks.acquire(id)
	defer unlock()

	a, err := e.store.GetAccount(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	if err := fn(a); err != nil {
		return nil, err
	}

	if err := e.store.SaveAccount(ctx, a); err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

// Deposit adds amount to the balance. Amounts below the configured
// minimum are rejected.
func (e *Engine) Deposit(ctx context.Context, id string, amount decimal.Decimal) (*model.Account, error) {
	a, err := e.mutate(ctx, id, func(a *model.Account) error {
		if amount.LessThanOrEqual(decimal.Zero) || amount.LessThan(e.cfg.MinDeposit) {
			return ErrInvalidAmount
		}
		a.Balance = a.Balance.Add(amount)
		a.History = append(a.History, model.LedgerEntry{
			ID:        uuid.New().String(),
			Kind:      model.EntryDeposit,
			Amount:    amount,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
	metrics.LedgerOpsTotal.WithLabelValues(string(model.EntryDeposit), outcome(err)).Inc()
	return a, err
}

// Withdraw removes amount from the balance. The balance never goes
// negative.
func (e *Engine) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (*model.Account, error) {
	a, err := e.mutate(ctx, id, func(a *model.Account) error {
		if amount.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidAmount
		}
		if amount.GreaterThan(a.Balance) {
			return ErrInsufficientFunds
		}
		a.Balance = a.Balance.Sub(amount)
		a.History = append(a.History, model.LedgerEntry{
			ID:        uuid.New().String(),
			Kind:      model.EntryWithdraw,
			Amount:    amount,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
	metrics.LedgerOpsTotal.WithLabelValues(string(model.EntryWithdraw), outcome(err)).Inc()
	return a, err
}

// Buy purchases quantity shares at the catalog's current price. A new
// position records the trade price as its average buy price; an existing
// position keeps its original average buy price and only grows in
// quantity.
func (e *Engine) Buy(ctx context.Context, id, code string, quantity int64) (*model.Account, error) {
	a, err := e.mutate(ctx, id, func(a *model.Account) error {
		if quantity <= 0 {
			return ErrInvalidAmount
		}
		in, err := e.catalog.Get(code)
		if err != nil {
			return ErrUnknownInstrument
		}

		cost := in.Price.Mul(decimal.NewFromInt(quantity))
		if cost.GreaterThan(a.Balance) {
			return ErrInsufficientFunds
		}

		a.Balance = a.Balance.Sub(cost)
		if pos := a.PositionFor(code); pos != nil {
			pos.Quantity += quantity
		} else {
			a.Portfolio = append(a.Portfolio, model.Position{
				InstrumentCode:  code,
				Quantity:        quantity,
				AverageBuyPrice: in.Price,
			})
		}
		a.History = append(a.History, model.LedgerEntry{
			ID:             uuid.New().String(),
			Kind:           model.EntryBuy,
			InstrumentCode: code,
			Quantity:       quantity,
			UnitPrice:      in.Price,
			Amount:         cost,
			Timestamp:      time.Now().UTC(),
		})
		return nil
	})
	metrics.LedgerOpsTotal.WithLabelValues(string(model.EntryBuy), outcome(err)).Inc()
	if err == nil {
		metrics.TradeVolume.WithLabelValues(code, "buy").Add(float64(quantity))
	}
	return a, err
}

// Sell disposes quantity shares at the catalog's current price. Positions
// drained to zero are removed.
func (e *Engine) Sell(ctx context.Context, id, code string, quantity int64) (*model.Account, error) {
	a, err := e.mutate(ctx, id, func(a *model.Account) error {
		if quantity <= 0 {
			return ErrInvalidAmount
		}
		in, err := e.catalog.Get(code)
		if err != nil {
			return ErrUnknownInstrument
		}

		pos := a.PositionFor(code)
		if pos == nil || pos.Quantity < quantity {
			return ErrNoPosition
		}

		proceeds := in.Price.Mul(decimal.NewFromInt(quantity))
		a.Balance = a.Balance.Add(proceeds)
		pos.Quantity -= quantity
		if pos.Quantity == 0 {
			for i := range a.Portfolio {
				if a.Portfolio[i].InstrumentCode == code {
					a.Portfolio = append(a.Portfolio[:i], a.Portfolio[i+1:]...)
					break
				}
			}
		}
		a.History = append(a.History, model.LedgerEntry{
			ID:             uuid.New().String(),
			Kind:           model.EntrySell,
			InstrumentCode: code,
			Quantity:       quantity,
			UnitPrice:      in.Price,
			Amount:         proceeds,
			Timestamp:      time.Now().UTC(),
		})
		return nil
	})
	metrics.LedgerOpsTotal.WithLabelValues(string(model.EntrySell), outcome(err)).Inc()
	if err == nil {
		metrics.TradeVolume.WithLabelValues(code, "sell").Add(float64(quantity))
	}
	return a, err
}

// SetWatchlist replaces the watchlist verbatim. Unknown codes are
// tolerated; the display simply shows nothing for them.
func (e *Engine) SetWatchlist(ctx context.Context, id string, codes []string) (*model.Account, error) {
	return e.mutate(ctx, id, func(a *model.Account) error {
		a.Watchlist = append([]string(nil), codes...)
		return nil
	})
}

// Delete removes the account permanently. Accounts with a positive balance
// or open positions cannot be deleted.
func (e *Engine) Delete(ctx context.Context, id string) error {
	unlock := e.locks.acquire(id)
	defer unlock()

	a, err := e.store.GetAccount(ctx, id)
	if err != nil {
		return storeErr(err)
	}

	if a.Balance.IsPositive() {
		return ErrHasBalance
	}
	for _, p := range a.Portfolio {
		if p.Quantity > 0 {
			return ErrHasHoldings
		}
	}

	return storeErr(e.store.DeleteAccount(ctx, id))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
