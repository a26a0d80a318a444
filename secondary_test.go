package captable

import "testing"

func TestApplySecondary(t *testing.T) {
	reg := foundedRegistry(10_000_000)

	next, result, err := ApplySecondary(reg, SecondaryTransaction{
		Date: jan(10), Seller: "alice", Buyer: "fund", Class: "common",
		Shares: Q(1_000_000), PricePerShare: USD(1.50),
	})
	if err != nil {
		t.Fatalf("ApplySecondary() error = %v", err)
	}
	if !next.Holder("alice").SharesOf("common").Equal(Q(5_000_000)) {
		t.Errorf("alice holds %s shares, want 5,000,000", next.Holder("alice").SharesOf("common"))
	}
	if !next.Holder("fund").SharesOf("common").Equal(Q(1_000_000)) {
		t.Errorf("fund holds %s shares, want 1,000,000", next.Holder("fund").SharesOf("common"))
	}
	if !next.TotalShares().Equal(reg.TotalShares()) {
		t.Errorf("secondary changed total shares: %s -> %s", reg.TotalShares(), next.TotalShares())
	}
	if !result.Proceeds.Equal(USD(1_500_000)) {
		t.Errorf("Proceeds = %s, want $1,500,000", result.Proceeds)
	}
	if !result.SellerBefore.Equal(Pct(60)) || !result.SellerAfter.Equal(Pct(50)) {
		t.Errorf("seller ownership %s -> %s, want 60%% -> 50%%", result.SellerBefore, result.SellerAfter)
	}
	if !result.BuyerBefore.IsZero() || !result.BuyerAfter.Equal(Pct(10)) {
		t.Errorf("buyer ownership %s -> %s, want 0%% -> 10%%", result.BuyerBefore, result.BuyerAfter)
	}
	// The input snapshot is untouched.
	if !reg.Holder("alice").SharesOf("common").Equal(Q(6_000_000)) {
		t.Errorf("input registry was mutated")
	}
}

func TestApplySecondary_Rejections(t *testing.T) {
	reg := foundedRegistry(10_000_000)
	cases := map[string]SecondaryTransaction{
		"zero shares":     {Seller: "alice", Buyer: "fund", Class: "common"},
		"self sale":       {Seller: "alice", Buyer: "alice", Class: "common", Shares: Q(1)},
		"unknown seller":  {Seller: "nobody", Buyer: "fund", Class: "common", Shares: Q(1)},
		"unknown class":   {Seller: "alice", Buyer: "fund", Class: "preferred-x", Shares: Q(1)},
		"oversized sale":  {Seller: "bob", Buyer: "fund", Class: "common", Shares: Q(5_000_000)},
	}
	for name, tx := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := ApplySecondary(reg, tx); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
