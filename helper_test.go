package captable

import (
	"time"

	"github.com/shopspring/decimal"
)

// USD is a helper for tests to create dollar money from const
func USD(v float64) Money { return M(v, "USD") }

// D is a helper for tests to create a decimal from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// jan is a helper for tests to create a date in January 2025.
func jan(day int) Date { return NewDate(2025, time.January, day) }

// foundedRegistry replays a simple founding: two founders splitting common
// stock 60/40 over the given total.
func foundedRegistry(total int64) *Registry {
	l := NewLedger("USD")
	l.Append(NewFound(jan(1), "Acme", "common", Q(total),
		FounderAllocation{Holder: "alice", Name: "Alice", Shares: Q(total * 6 / 10)},
		FounderAllocation{Holder: "bob", Name: "Bob", Shares: Q(total * 4 / 10)},
	))
	reg, _, err := l.Replay()
	if err != nil {
		panic(err)
	}
	return reg
}

// seriesA applies a plain Series A to a registry: $2.5M at $10M pre-money,
// 1x non-participating preference.
func seriesA(reg *Registry) (*Registry, *RoundResult, error) {
	return ApplyPricedRound(reg, PricedRound{
		ID:       "series-a",
		Date:     jan(15),
		Amount:   USD(2_500_000),
		PreMoney: USD(10_000_000),
		Class:    ShareClass{ID: "series-a", Name: "Series A", Kind: Preferred, Seniority: 1},
		Investors: []InvestorRecord{
			{Holder: "vc-one", Amount: USD(2_500_000), Board: true},
		},
	})
}
