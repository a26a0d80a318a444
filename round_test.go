package captable

import (
	"errors"
	"testing"
)

func TestApplyPricedRound_FromPreMoney(t *testing.T) {
	reg := foundedRegistry(10_000_000)
	next, result, err := seriesA(reg)
	if err != nil {
		t.Fatalf("ApplyPricedRound() error = %v", err)
	}
	if !result.SharePrice.Equal(USD(1)) {
		t.Errorf("SharePrice = %s, want $1.00", result.SharePrice)
	}
	if !result.PostMoney.Equal(USD(12_500_000)) {
		t.Errorf("PostMoney = %s, want $12,500,000", result.PostMoney)
	}
	if !result.NewShares.Equal(Q(2_500_000)) {
		t.Errorf("NewShares = %s, want 2,500,000", result.NewShares)
	}
	if !next.Holder("vc-one").SharesOf("series-a").Equal(Q(2_500_000)) {
		t.Errorf("vc-one holds %s shares", next.Holder("vc-one").SharesOf("series-a"))
	}
	// vc-one owns 20% post: 2.5M of 12.5M shares.
	if got := PercentOf(Q(2_500_000), next.FullyDilutedShares()); !got.Equal(Pct(20)) {
		t.Errorf("investor ownership = %s, want 20%%", got)
	}
	if class := next.Class("series-a"); !class.IssuePrice.Equal(USD(1)) {
		t.Errorf("class issue price = %s, want $1.00", class.IssuePrice)
	}
}

func TestApplyPricedRound_DerivationsAgree(t *testing.T) {
	base := PricedRound{
		ID:        "series-a",
		Date:      jan(15),
		Amount:    USD(2_500_000),
		Class:     ShareClass{ID: "series-a", Kind: Preferred, Seniority: 1},
		Investors: []InvestorRecord{{Holder: "vc-one", Amount: USD(2_500_000)}},
	}

	cases := map[string]func(*PricedRound){
		"pre-money":   func(r *PricedRound) { r.PreMoney = USD(10_000_000) },
		"post-money":  func(r *PricedRound) { r.PostMoney = USD(12_500_000) },
		"share-price": func(r *PricedRound) { r.SharePrice = USD(1) },
	}
	for name, set := range cases {
		t.Run(name, func(t *testing.T) {
			round := base
			set(&round)
			_, result, err := ApplyPricedRound(foundedRegistry(10_000_000), round)
			if err != nil {
				t.Fatalf("ApplyPricedRound() error = %v", err)
			}
			if !result.PreMoney.Equal(USD(10_000_000)) {
				t.Errorf("PreMoney = %s, want $10,000,000", result.PreMoney)
			}
			if !result.PostMoney.Equal(USD(12_500_000)) {
				t.Errorf("PostMoney = %s, want $12,500,000", result.PostMoney)
			}
			if !result.SharePrice.Equal(USD(1)) {
				t.Errorf("SharePrice = %s, want $1.00", result.SharePrice)
			}
		})
	}
}

func TestApplyPricedRound_AmbiguousValuation(t *testing.T) {
	reg := foundedRegistry(10_000_000)
	round := PricedRound{
		ID:        "series-a",
		Amount:    USD(2_500_000),
		Class:     ShareClass{ID: "series-a"},
		Investors: []InvestorRecord{{Holder: "vc-one", Amount: USD(2_500_000)}},
	}

	_, _, err := ApplyPricedRound(reg, round) // none given
	if !errors.Is(err, ErrAmbiguousValuation) {
		t.Errorf("no valuation: error = %v, want ErrAmbiguousValuation", err)
	}

	round.PreMoney = USD(10_000_000)
	round.SharePrice = USD(1)
	_, _, err = ApplyPricedRound(reg, round) // two given
	if !errors.Is(err, ErrAmbiguousValuation) {
		t.Errorf("two valuations: error = %v, want ErrAmbiguousValuation", err)
	}
}

func TestApplyPricedRound_InvestorAmountsMustSum(t *testing.T) {
	reg := foundedRegistry(10_000_000)
	_, _, err := ApplyPricedRound(reg, PricedRound{
		ID:       "series-a",
		Amount:   USD(2_500_000),
		PreMoney: USD(10_000_000),
		Class:    ShareClass{ID: "series-a"},
		Investors: []InvestorRecord{
			{Holder: "vc-one", Amount: USD(1_000_000)},
			{Holder: "vc-two", Amount: USD(1_000_000)},
		},
	})
	if err == nil {
		t.Fatal("expected an error when investor amounts do not sum to the round amount")
	}
}

func TestApplyPricedRound_PreMoneyPoolJointEquation(t *testing.T) {
	// 8,000,000 pre-round shares, 15% pre-money pool target, $8M pre-money,
	// $2M raised. The joint equation sizes the top-up at
	// (0.15 x 8M) / 0.85 = 1,411,764.7, not the naive 15% of the final table.
	reg := foundedRegistry(8_000_000)
	next, result, err := ApplyPricedRound(reg, PricedRound{
		ID:        "series-a",
		Date:      jan(15),
		Amount:    USD(2_000_000),
		PreMoney:  USD(8_000_000),
		Class:     ShareClass{ID: "series-a", Kind: Preferred, Seniority: 1},
		Pool:      &PoolAdjustment{TargetPct: Pct(15), PreMoney: true},
		Investors: []InvestorRecord{{Holder: "vc-one", Amount: USD(2_000_000)}},
	})
	if err != nil {
		t.Fatalf("ApplyPricedRound() error = %v", err)
	}
	if got := DefaultRounding.Shares(result.PoolShares); !got.Equal(Q(1_411_765)) {
		t.Errorf("PoolShares = %s, want 1,411,765", got)
	}
	// Pricing includes the top-up: $8M over 9,411,764.7 shares is $0.85.
	if got := DefaultRounding.Cash(result.SharePrice); !got.Equal(USD(0.85)) {
		t.Errorf("SharePrice = %s, want $0.85", got)
	}
	// The pool equals the target share of the pre-money base.
	poolPct := PercentOf(next.Pool().Unissued(), Q(8_000_000).Add(result.PoolShares))
	if !poolPct.Equal(Pct(15)) {
		t.Errorf("pool is %s of the pre-money base, want 15%%", poolPct)
	}
}

func TestApplyPricedRound_InvestorDilutionByPoolTiming(t *testing.T) {
	round := PricedRound{
		ID:        "series-a",
		Amount:    USD(2_000_000),
		PreMoney:  USD(8_000_000),
		Class:     ShareClass{ID: "series-a", Kind: Preferred},
		Investors: []InvestorRecord{{Holder: "vc-one", Amount: USD(2_000_000)}},
	}

	t.Run("pre-money pool spares the investors", func(t *testing.T) {
		r := round
		r.Pool = &PoolAdjustment{TargetPct: Pct(15), PreMoney: true}
		_, result, err := ApplyPricedRound(foundedRegistry(8_000_000), r)
		if err != nil {
			t.Fatalf("ApplyPricedRound() error = %v", err)
		}
		// Investors land at exactly amount/post-money.
		if got := DefaultRounding.Ownership(result.InvestorDilution); !got.IsZero() {
			t.Errorf("InvestorDilution = %s, want 0", got)
		}
	})

	t.Run("post-money pool dilutes the investors too", func(t *testing.T) {
		r := round
		r.Pool = &PoolAdjustment{TargetPct: Pct(15), PreMoney: false}
		_, result, err := ApplyPricedRound(foundedRegistry(8_000_000), r)
		if err != nil {
			t.Fatalf("ApplyPricedRound() error = %v", err)
		}
		if !result.InvestorDilution.GreaterThan(Pct(0)) {
			t.Errorf("InvestorDilution = %s, want positive", result.InvestorDilution)
		}
	})

	t.Run("founders absorb more under a pre-money pool", func(t *testing.T) {
		pre := round
		pre.Pool = &PoolAdjustment{TargetPct: Pct(15), PreMoney: true}
		_, preResult, err := ApplyPricedRound(foundedRegistry(8_000_000), pre)
		if err != nil {
			t.Fatalf("pre-money error = %v", err)
		}
		post := round
		post.Pool = &PoolAdjustment{TargetPct: Pct(15), PreMoney: false}
		_, postResult, err := ApplyPricedRound(foundedRegistry(8_000_000), post)
		if err != nil {
			t.Fatalf("post-money error = %v", err)
		}
		if !preResult.FounderDilution.GreaterThan(postResult.FounderDilution) {
			t.Errorf("founder dilution pre=%s should exceed post=%s",
				preResult.FounderDilution, postResult.FounderDilution)
		}
	})
}

func TestApplyPricedRound_Warnings(t *testing.T) {
	reg := foundedRegistry(10_000_000)
	reg, _, err := seriesA(reg) // $1.00 per share
	if err != nil {
		t.Fatalf("seriesA error = %v", err)
	}

	_, result, err := ApplyPricedRound(reg, PricedRound{
		ID:         "series-b",
		Date:       jan(20),
		Amount:     USD(1_000_000),
		SharePrice: USD(0.50),
		Class:      ShareClass{ID: "series-b", Kind: Preferred, Seniority: 2},
		Investors:  []InvestorRecord{{Holder: "vc-two", Amount: USD(1_000_000)}},
	})
	if err != nil {
		t.Fatalf("ApplyPricedRound() error = %v", err)
	}
	if !hasWarning(result.Warnings, WarnDownRound) {
		t.Errorf("expected a down-round warning, got %v", result.Warnings)
	}

	// Raising more than the company is worth leaves existing holders under 50%.
	_, result, err = ApplyPricedRound(foundedRegistry(10_000_000), PricedRound{
		ID:        "mega",
		Amount:    USD(20_000_000),
		PreMoney:  USD(10_000_000),
		Class:     ShareClass{ID: "mega", Kind: Preferred},
		Investors: []InvestorRecord{{Holder: "vc-big", Amount: USD(20_000_000)}},
	})
	if err != nil {
		t.Fatalf("ApplyPricedRound() error = %v", err)
	}
	if !hasWarning(result.Warnings, WarnHighDilution) {
		t.Errorf("expected a high-dilution warning, got %v", result.Warnings)
	}
}

func hasWarning(warnings []Warning, kind WarningKind) bool {
	for _, w := range warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func TestApplyPricedRound_ExistingPoolAboveTarget(t *testing.T) {
	reg := foundedRegistry(8_000_000)
	reg, _, err := CreatePool(reg, "esop", Pct(20), false)
	if err != nil {
		t.Fatalf("CreatePool() error = %v", err)
	}
	// The existing pool already exceeds a 10% pre-money target, so the round
	// must not shrink it and must not issue a negative top-up.
	next, result, err := ApplyPricedRound(reg, PricedRound{
		ID:        "series-a",
		Amount:    USD(2_000_000),
		PreMoney:  USD(8_000_000),
		Class:     ShareClass{ID: "series-a", Kind: Preferred},
		Pool:      &PoolAdjustment{TargetPct: Pct(10), PreMoney: true},
		Investors: []InvestorRecord{{Holder: "vc-one", Amount: USD(2_000_000)}},
	})
	if err != nil {
		t.Fatalf("ApplyPricedRound() error = %v", err)
	}
	if !result.PoolShares.IsZero() {
		t.Errorf("PoolShares = %s, want 0", result.PoolShares)
	}
	if !next.Pool().Total.Equal(reg.Pool().Total) {
		t.Errorf("round shrank the pool: %s -> %s", reg.Pool().Total, next.Pool().Total)
	}
}
