package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/model"
)

func seed(code, name, category string, price float64) model.Instrument {
	return model.Instrument{
		Code:     code,
		Name:     name,
		Category: category,
		Price:    decimal.NewFromFloat(price),
	}
}

// Seed returns the static instrument list the simulation starts from.
func Seed() []model.Instrument {
	return []model.Instrument{
		// Tech
		seed("GOOG", "Alphabet Inc.", "Tech", 150.00),
		seed("AMZN", "Amazon.com", "Tech", 130.00),
		seed("META", "Meta Platforms", "Tech", 300.00),
		seed("NVDA", "NVIDIA Corp", "Tech", 450.00),
		seed("AAPL", "Apple Inc.", "Tech", 175.00),
		seed("MSFT", "Microsoft Corp", "Tech", 330.00),
		seed("AMD", "Adv Micro Devices", "Tech", 110.00),
		seed("INTC", "Intel Corp", "Tech", 35.00),
		seed("NFLX", "Netflix Inc.", "Media", 400.00),

		// Finance
		seed("JPM", "JPMorgan Chase", "Finance", 150.00),
		seed("BAC", "Bank of America", "Finance", 28.00),
		seed("V", "Visa Inc.", "Finance", 240.00),
		seed("GS", "Goldman Sachs", "Finance", 320.00),
		seed("BLK", "BlackRock", "Finance", 680.00),

		// Retail & consumer
		seed("WMT", "Walmart", "Retail", 160.00),
		seed("TGT", "Target Corp", "Retail", 110.00),
		seed("KO", "Coca-Cola", "Consumer", 58.00),
		seed("PEP", "PepsiCo", "Consumer", 170.00),
		seed("MCD", "McDonald's", "Consumer", 280.00),
		seed("SBUX", "Starbucks", "Consumer", 95.00),
		seed("NKE", "Nike Inc.", "Consumer", 100.00),

		// Auto & industrial
		seed("TSLA", "Tesla Inc.", "Auto", 220.00),
		seed("F", "Ford Motor", "Auto", 12.00),
		seed("GM", "General Motors", "Auto", 32.00),
		seed("BA", "Boeing", "Industrial", 190.00),
		seed("GE", "General Electric", "Industrial", 110.00),

		// Energy
		seed("XOM", "Exxon Mobil", "Energy", 110.00),
		seed("CVX", "Chevron", "Energy", 160.00),
		seed("SHEL", "Shell PLC", "Energy", 65.00),

		// Real estate
		seed("PLD", "Prologis", "Real Estate", 110.00),
		seed("O", "Realty Income", "Real Estate", 55.00),
	}
}
