// Package model defines the core domain types shared across the simulator
// and the ledger. All monetary values use shopspring/decimal — never
// float64 for money.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind enumerates the ledger entry types.
type EntryKind string

const (
	EntryDeposit  EntryKind = "DEPOSIT"
	EntryWithdraw EntryKind = "WITHDRAW"
	EntryBuy      EntryKind = "BUY"
	EntrySell     EntryKind = "SELL"
)

// Sentiment is the qualitative direction of a news event.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Instrument is a synthetic tradable asset. Everything except Price is
// static reference data seeded at startup; Price is rewritten once per
// simulator tick.
type Instrument struct {
	Code     string          `json:"code" db:"code"`
	Name     string          `json:"name" db:"name"`
	Category string          `json:"category" db:"category"`
	Price    decimal.Decimal `json:"price" db:"price"`
}

// Position is an account's holding of one instrument. Quantity is always
// positive; a position drained to zero is removed, never retained.
// AverageBuyPrice is the price of the buy that opened the position.
type Position struct {
	InstrumentCode  string          `json:"instrument_code"`
	Quantity        int64           `json:"quantity"`
	AverageBuyPrice decimal.Decimal `json:"average_buy_price"`
}

// LedgerEntry is an immutable record of one completed account operation.
// Once appended these are never modified or removed.
type LedgerEntry struct {
	ID             string          `json:"id"`
	Kind           EntryKind       `json:"kind"`
	InstrumentCode string          `json:"instrument_code,omitempty"`
	Quantity       int64           `json:"quantity,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Amount         decimal.Decimal `json:"amount"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Account holds one user's balance, portfolio, watchlist, and history.
// Mutated only through the ledger engine; Balance is never negative.
type Account struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"external_id,omitempty"` // identity-provider user ID
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Avatar     string          `json:"avatar,omitempty"`
	IBAN       string          `json:"virtual_iban"`
	Balance    decimal.Decimal `json:"balance"`
	Portfolio  []Position      `json:"portfolio"`
	Watchlist  []string        `json:"watchlist"`
	History    []LedgerEntry   `json:"history"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PositionFor returns a pointer into Portfolio for the given code, or nil.
func (a *Account) PositionFor(code string) *Position {
	for i := range a.Portfolio {
		if a.Portfolio[i].InstrumentCode == code {
			return &a.Portfolio[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate freely before saving.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Portfolio = append([]Position(nil), a.Portfolio...)
	cp.Watchlist = append([]string(nil), a.Watchlist...)
	cp.History = append([]LedgerEntry(nil), a.History...)
	return &cp
}

// NewsEvent is an ephemeral synthetic headline tied to one instrument.
// Broadcast on generation and kept only in a bounded recent-window buffer;
// never persisted. ImpactScore is advisory display metadata, not a
// price-forming input.
type NewsEvent struct {
	ID             int64           `json:"id"`
	InstrumentCode string          `json:"instrument_code"`
	Headline       string          `json:"headline"`
	Summary        string          `json:"summary"`
	Sentiment      Sentiment       `json:"sentiment"`
	ImpactScore    decimal.Decimal `json:"impact_score"`
	Timestamp      time.Time       `json:"timestamp"`
}
