package news_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/catalog"
	"github.com/tradestack/market-sim/internal/model"
	"github.com/tradestack/market-sim/internal/news"
)

func newCatalog(instruments ...model.Instrument) *catalog.Catalog {
	return catalog.New(instruments)
}

func instr(code, name, category string) model.Instrument {
	return model.Instrument{Code: code, Name: name, Category: category, Price: decimal.NewFromInt(100)}
}

func TestGenerate_SubstitutesDisplayName(t *testing.T) {
	cat := newCatalog(instr("ACME", "Acme Industries", "Tech"))
	g := news.New(cat, nil, rand.New(rand.NewSource(1)), 0)

	for i := 0; i < 50; i++ {
		ev := g.Generate()
		if ev.InstrumentCode != "ACME" {
			t.Fatalf("expected code ACME, got %s", ev.InstrumentCode)
		}
		if strings.Contains(ev.Headline, "{company}") {
			t.Fatalf("placeholder left in headline: %q", ev.Headline)
		}
		// Every template names the company, so the substituted display
		// name must always appear.
		if !strings.Contains(ev.Headline, "Acme Industries") {
			t.Fatalf("headline missing company name: %q", ev.Headline)
		}
	}
}

func TestGenerate_IDsMonotonic(t *testing.T) {
	cat := newCatalog(instr("ACME", "Acme Industries", "Tech"))
	g := news.New(cat, nil, rand.New(rand.NewSource(2)), 0)

	var last int64
	for i := 0; i < 100; i++ {
		ev := g.Generate()
		if ev.ID <= last {
			t.Fatalf("id %d not greater than previous %d", ev.ID, last)
		}
		last = ev.ID
	}
}

func TestGenerate_FieldsPopulated(t *testing.T) {
	cat := newCatalog(instr("ACME", "Acme Industries", "Finance"))
	g := news.New(cat, nil, rand.New(rand.NewSource(3)), 0)

	ev := g.Generate()
	if ev.Sentiment != model.SentimentPositive && ev.Sentiment != model.SentimentNegative {
		t.Errorf("unexpected sentiment %q", ev.Sentiment)
	}
	if ev.ImpactScore.IsZero() {
		t.Error("expected non-zero impact score")
	}
	if ev.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
	if !strings.Contains(ev.Summary, strings.ToLower(string(ev.Sentiment))) {
		t.Errorf("summary %q does not reflect sentiment %q", ev.Summary, ev.Sentiment)
	}
}

func TestGenerate_ScoreSignMatchesSentiment(t *testing.T) {
	cat := newCatalog(
		instr("AAA", "Alpha Co", "Tech"),
		instr("BBB", "Beta Co", "Auto"),
		instr("CCC", "Gamma Co", "Finance"),
	)
	g := news.New(cat, nil, rand.New(rand.NewSource(4)), 0)

	for i := 0; i < 200; i++ {
		ev := g.Generate()
		switch ev.Sentiment {
		case model.SentimentPositive:
			if !ev.ImpactScore.IsPositive() {
				t.Fatalf("positive sentiment with score %s", ev.ImpactScore)
			}
		case model.SentimentNegative:
			if !ev.ImpactScore.IsNegative() {
				t.Fatalf("negative sentiment with score %s", ev.ImpactScore)
			}
		}
	}
}

func TestGenerate_CategoryWithoutPoolFallsBack(t *testing.T) {
	// "Media" has no dedicated pool; every draw must still produce a
	// valid event (general pool fallback).
	cat := newCatalog(instr("NFLX", "Netflix Inc.", "Media"))
	g := news.New(cat, nil, rand.New(rand.NewSource(5)), 0)

	for i := 0; i < 50; i++ {
		ev := g.Generate()
		if ev.Headline == "" {
			t.Fatal("empty headline for category without a pool")
		}
		if !strings.Contains(ev.Headline, "Netflix Inc.") {
			t.Fatalf("expected substituted name, got %q", ev.Headline)
		}
	}
}
