// Package catalog owns the instrument reference data and the live prices.
// It is the single shared mutable structure of the simulator: one writer
// (the price tick) and many readers (trade settlement, HTTP queries,
// subscriber connects), serialized by an RWMutex.
package catalog

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/model"
)

// ErrUnknownInstrument is returned for codes absent from the catalog.
var ErrUnknownInstrument = errors.New("catalog: unknown instrument code")

// Step computes the next price for one instrument. It must return a
// positive value; the catalog does not re-validate.
type Step func(current decimal.Decimal) decimal.Decimal

// Catalog holds the seeded instrument list. Instruments are never added
// or removed at runtime; only prices change.
type Catalog struct {
	mu          sync.RWMutex
	instruments []model.Instrument
	index       map[string]int // code → slice offset
}

// New builds a catalog from seed instruments. Duplicate codes keep the
// first occurrence.
func New(instruments []model.Instrument) *Catalog {
	c := &Catalog{
		index: make(map[string]int, len(instruments)),
	}
	for _, in := range instruments {
		if _, dup := c.index[in.Code]; dup {
			continue
		}
		c.index[in.Code] = len(c.instruments)
		c.instruments = append(c.instruments, in)
	}
	return c
}

// Snapshot returns a copy of the full instrument list in seed order.
func (c *Catalog) Snapshot() []model.Instrument {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Instrument, len(c.instruments))
	copy(out, c.instruments)
	return out
}

// Get returns the instrument for code, including its current price.
func (c *Catalog) Get(code string) (model.Instrument, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[code]
	if !ok {
		return model.Instrument{}, ErrUnknownInstrument
	}
	return c.instruments[i], nil
}

// Price returns the current price for code.
func (c *Catalog) Price(code string) (decimal.Decimal, error) {
	in, err := c.Get(code)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return in.Price, nil
}

// Len returns the number of instruments.
func (c *Catalog) Len() int {
	return len(c.instruments)
}

// ApplyTick advances every instrument's price through step under a single
// write lock and returns the updated snapshot. Trade settlements reading
// concurrently see either the pre-tick or post-tick price, never a mix
// within one instrument.
func (c *Catalog) ApplyTick(step Step) []model.Instrument {
	c.mu.Lock()
	for i := range c.instruments {
		c.instruments[i].Price = step(c.instruments[i].Price)
	}
	out := make([]model.Instrument, len(c.instruments))
	copy(out, c.instruments)
	c.mu.Unlock()
	return out
}
