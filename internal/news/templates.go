package news

import (
	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/model"
)

// template is one headline pattern. {company} is replaced with the
// instrument's display name. Score is the suggested price-impact magnitude
// shown to clients; it does not feed back into the price walk.
type template struct {
	Text      string
	Sentiment model.Sentiment
	Score     decimal.Decimal
}

func tmpl(text string, sentiment model.Sentiment, score float64) template {
	return template{Text: text, Sentiment: sentiment, Score: decimal.NewFromFloat(score)}
}

// generalPool serves every category and is mixed in for variety.
const generalPool = "General"

var templatePools = map[string][]template{
	"Tech": {
		tmpl("{company} unveils revolutionary AI chip, promising 50% faster processing.", model.SentimentPositive, 0.05),
		tmpl("{company} faces antitrust lawsuit over market dominance.", model.SentimentNegative, -0.04),
		tmpl("{company} announces partnership with major cloud provider.", model.SentimentPositive, 0.03),
		tmpl("Data breach compromise reported at {company}, millions of users affected.", model.SentimentNegative, -0.06),
		tmpl("{company} quarterly earnings beat expectations by 15%.", model.SentimentPositive, 0.04),
		tmpl("Supply chain issues delay {company}'s flagship product launch.", model.SentimentNegative, -0.03),
	},
	"Finance": {
		tmpl("{company} reports record profits in investment banking division.", model.SentimentPositive, 0.04),
		tmpl("Regulatory body investigates {company} for trading irregularities.", model.SentimentNegative, -0.05),
		tmpl("{company} raises dividend payout for shareholders.", model.SentimentPositive, 0.03),
		tmpl("Global economic slowdown impacts {company}'s lending growth.", model.SentimentNegative, -0.03),
	},
	"Auto": {
		tmpl("{company} recalls 50,000 vehicles due to safety concerns.", model.SentimentNegative, -0.05),
		tmpl("{company} launches new electric vehicle model to rave reviews.", model.SentimentPositive, 0.06),
		tmpl("{company} opens new gigafactory ahead of schedule.", model.SentimentPositive, 0.04),
	},
	generalPool: {
		tmpl("{company} CEO steps down unexpectedly.", model.SentimentNegative, -0.04),
		tmpl("Analysts upgrade {company} to 'Buy' rating.", model.SentimentPositive, 0.03),
		tmpl("{company} announces massive stock buyback program.", model.SentimentPositive, 0.04),
	},
}
