package captable

import "testing"

// protectedRegistry founds the company and closes a Series A at $1 per share
// with the given anti-dilution protection.
func protectedRegistry(t *testing.T, kind AntiDilutionKind) *Registry {
	t.Helper()
	reg := foundedRegistry(10_000_000)
	next, _, err := ApplyPricedRound(reg, PricedRound{
		ID:       "series-a",
		Date:     jan(15),
		Amount:   USD(2_500_000),
		PreMoney: USD(10_000_000), // implies $1.00 per share
		Class: ShareClass{ID: "series-a", Name: "Series A", Kind: Preferred,
			AntiDilution: kind, Seniority: 1},
		Investors: []InvestorRecord{{Holder: "vc-one", Amount: USD(2_500_000)}},
	})
	if err != nil {
		t.Fatalf("ApplyPricedRound() error = %v", err)
	}
	return next
}

func TestApplyAntiDilution_UpRoundIsNoOp(t *testing.T) {
	for _, kind := range []AntiDilutionKind{FullRatchet, WeightedAverageNarrow, WeightedAverageBroad} {
		t.Run(string(kind), func(t *testing.T) {
			reg := protectedRegistry(t, kind)
			next, result, err := ApplyAntiDilution(reg, "series-a", DownRound{
				Price: USD(1.50), Amount: USD(3_000_000), Shares: Q(2_000_000)}, nil)
			if err != nil {
				t.Fatalf("ApplyAntiDilution() error = %v", err)
			}
			if !result.Ratio.Equal(D(1)) {
				t.Errorf("Ratio = %s, want 1 on an up round", result.Ratio)
			}
			if !next.ClassShares("series-a").Equal(reg.ClassShares("series-a")) {
				t.Errorf("up round changed the protected class share count")
			}
		})
	}
}

func TestApplyAntiDilution_FullRatchet(t *testing.T) {
	reg := protectedRegistry(t, FullRatchet)
	next, result, err := ApplyAntiDilution(reg, "series-a", DownRound{
		Price: USD(0.50), Amount: USD(1_000_000), Shares: Q(2_000_000)}, nil)
	if err != nil {
		t.Fatalf("ApplyAntiDilution() error = %v", err)
	}
	// Ratio is originalPrice / newPrice = 1.00 / 0.50.
	if !result.Ratio.Equal(D(2)) {
		t.Errorf("Ratio = %s, want 2", result.Ratio)
	}
	if !result.AdjustedShares.Equal(Q(5_000_000)) {
		t.Errorf("AdjustedShares = %s, want 5,000,000", result.AdjustedShares)
	}
	if !next.Holder("vc-one").SharesOf("series-a").Equal(Q(5_000_000)) {
		t.Errorf("holder shares were not scaled")
	}
	if !result.ConversionRatio.Equal(D(2)) {
		t.Errorf("ConversionRatio = %s, want 2", result.ConversionRatio)
	}
}

func TestApplyAntiDilution_WeightedAverageNarrow(t *testing.T) {
	reg := protectedRegistry(t, WeightedAverageNarrow)
	// Narrow base: 10,000,000 common. New round: $1,000,000 for 2,000,000
	// shares at $0.50. NP = (10M*1 + 1M) / (10M + 2M) = 11/12.
	_, result, err := ApplyAntiDilution(reg, "series-a", DownRound{
		Price: USD(0.50), Amount: USD(1_000_000), Shares: Q(2_000_000)}, nil)
	if err != nil {
		t.Fatalf("ApplyAntiDilution() error = %v", err)
	}
	want := D(12).Div(D(11)) // ratio = P0/NP = 12/11
	if !result.Ratio.Round(10).Equal(want.Round(10)) {
		t.Errorf("Ratio = %s, want %s", result.Ratio, want)
	}
}

func TestApplyAntiDilution_BroadBaseIsWider(t *testing.T) {
	// The broad base adds convertibles, so the same down round produces a
	// smaller adjustment than the narrow base.
	down := DownRound{Price: USD(0.50), Amount: USD(1_000_000), Shares: Q(2_000_000)}

	_, narrow, err := ApplyAntiDilution(protectedRegistry(t, WeightedAverageNarrow), "series-a", down, nil)
	if err != nil {
		t.Fatalf("narrow error = %v", err)
	}
	_, broad, err := ApplyAntiDilution(protectedRegistry(t, WeightedAverageBroad), "series-a", down, nil)
	if err != nil {
		t.Fatalf("broad error = %v", err)
	}
	if !broad.Ratio.LessThan(narrow.Ratio) {
		t.Errorf("broad ratio %s should be below narrow ratio %s", broad.Ratio, narrow.Ratio)
	}
	if !broad.Ratio.GreaterThan(D(1)) {
		t.Errorf("broad ratio %s should still adjust upward", broad.Ratio)
	}
}

func TestApplyAntiDilution_CarveOut(t *testing.T) {
	reg := protectedRegistry(t, WeightedAverageBroad)
	// Carving the protected class itself out of the broad base reproduces
	// the narrow ratio on this table (no pool, no other convertibles).
	down := DownRound{Price: USD(0.50), Amount: USD(1_000_000), Shares: Q(2_000_000)}
	_, carved, err := ApplyAntiDilution(reg, "series-a", down, []string{"series-a"})
	if err != nil {
		t.Fatalf("ApplyAntiDilution() error = %v", err)
	}
	want := D(12).Div(D(11))
	if !carved.Ratio.Round(10).Equal(want.Round(10)) {
		t.Errorf("Ratio = %s, want %s", carved.Ratio, want)
	}
}

func TestApplyAntiDilution_UnprotectedClassFails(t *testing.T) {
	reg := protectedRegistry(t, NoAntiDilution)
	_, _, err := ApplyAntiDilution(reg, "series-a", DownRound{Price: USD(0.5)}, nil)
	if err == nil {
		t.Fatal("expected an error for a class without protection")
	}
}
