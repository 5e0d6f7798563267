// Package news produces synthetic headline events correlated to an
// instrument's category. Events are ephemeral: broadcast once, retained
// only in the hub's recent-window buffer, never persisted.
package news

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tradestack/market-sim/internal/catalog"
	"github.com/tradestack/market-sim/internal/metrics"
	"github.com/tradestack/market-sim/internal/model"
)

// generalMixChance is the probability a category instrument draws from the
// general pool anyway.
const generalMixChance = 0.3

// Publisher receives each generated event.
type Publisher interface {
	BroadcastNews(event model.NewsEvent)
}

// Generator emits one event per interval for a random instrument.
type Generator struct {
	catalog  *catalog.Catalog
	pub      Publisher
	rng      *rand.Rand
	interval time.Duration
	lastID   atomic.Int64
}

// New creates a generator. Pass nil for pub to skip broadcasting (tests).
func New(cat *catalog.Catalog, pub Publisher, rng *rand.Rand, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	g := &Generator{
		catalog:  cat,
		pub:      pub,
		rng:      rng,
		interval: interval,
	}
	// Seed the ID sequence past any prior run so IDs stay unique across
	// restarts without coordination.
	g.lastID.Store(time.Now().UnixNano())
	return g
}

// Generate builds one event: uniform instrument, pool by category with a
// general mix-in, uniform template, display name substituted.
func (g *Generator) Generate() model.NewsEvent {
	instruments := g.catalog.Snapshot()
	in := instruments[g.rng.Intn(len(instruments))]

	pool, ok := templatePools[in.Category]
	if !ok || g.rng.Float64() < generalMixChance {
		pool = templatePools[generalPool]
	}
	t := pool[g.rng.Intn(len(pool))]

	return model.NewsEvent{
		ID:             g.lastID.Add(1),
		InstrumentCode: in.Code,
		Headline:       strings.ReplaceAll(t.Text, "{company}", in.Name),
		Summary:        "AI Sentiment Analysis indicates a " + strings.ToLower(string(t.Sentiment)) + " market reaction.",
		Sentiment:      t.Sentiment,
		ImpactScore:    t.Score,
		Timestamp:      time.Now().UTC(),
	}
}

// Run generates and publishes on its own schedule, independent of the
// price tick, until ctx is cancelled.
func (g *Generator) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	slog.Info("news generator started", "interval", g.interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("news generator stopped")
			return
		case <-ticker.C:
			ev := g.Generate()
			metrics.NewsEventsTotal.WithLabelValues(string(ev.Sentiment)).Inc()
			if g.pub != nil {
				g.pub.BroadcastNews(ev)
			}
		}
	}
}
