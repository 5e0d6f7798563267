// Package sim advances instrument prices with a bounded random walk.
// Each instrument moves independently per tick; there is no cross-instrument
// coupling and no memory beyond the current price.
package sim

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/catalog"
	"github.com/tradestack/market-sim/internal/metrics"
	"github.com/tradestack/market-sim/internal/model"
)

const (
	// DefaultVolatility bounds the per-tick relative change to ±2%.
	DefaultVolatility = 0.02

	// priceScale is the display precision prices are rounded to.
	priceScale int32 = 2
)

// PriceFloor is the minimum price after a tick. Prices never reach zero.
var PriceFloor = decimal.NewFromFloat(0.01)

// Publisher receives the full snapshot after each tick.
type Publisher interface {
	BroadcastSnapshot(instruments []model.Instrument)
}

// Simulator drives the catalog's price walk.
type Simulator struct {
	catalog    *catalog.Catalog
	pub        Publisher
	rng        *rand.Rand
	volatility float64
	interval   time.Duration
}

// New creates a simulator. Pass nil for pub to skip broadcasting (tests).
// rng must not be shared with other goroutines; Tick is the only caller.
func New(cat *catalog.Catalog, pub Publisher, rng *rand.Rand, volatility float64, interval time.Duration) *Simulator {
	if volatility <= 0 {
		volatility = DefaultVolatility
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Simulator{
		catalog:    cat,
		pub:        pub,
		rng:        rng,
		volatility: volatility,
		interval:   interval,
	}
}

// Tick advances every price once and returns the updated snapshot.
// newPrice = max(floor, price * (1 + u)), u uniform in [-v, +v],
// rounded to 2 decimal places.
func (s *Simulator) Tick() []model.Instrument {
	snapshot := s.catalog.ApplyTick(func(price decimal.Decimal) decimal.Decimal {
		change := (s.rng.Float64()*2 - 1) * s.volatility
		next := price.Mul(decimal.NewFromFloat(1 + change)).Round(priceScale)
		if next.LessThan(PriceFloor) {
			next = PriceFloor
		}
		return next
	})
	metrics.TicksTotal.Inc()
	return snapshot
}

// Run ticks at the configured interval until ctx is cancelled, pushing
// each snapshot to the publisher. This is the process's only writer of
// catalog prices.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("price simulator started",
		"instruments", s.catalog.Len(),
		"interval", s.interval.String(),
		"volatility", s.volatility,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("price simulator stopped")
			return
		case <-ticker.C:
			snapshot := s.Tick()
			if s.pub != nil {
				s.pub.BroadcastSnapshot(snapshot)
			}
		}
	}
}
