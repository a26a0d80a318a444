package captable

import (
	"errors"
	"testing"
)

func safeNote(id, holder string, terms SAFETerms) SAFENote {
	return SAFENote{ID: id, Holder: holder, Date: jan(5), Terms: terms}
}

// registryWithSAFEs founds the company and records the given notes plus the
// class they will convert into.
func registryWithSAFEs(t *testing.T, notes ...SAFENote) *Registry {
	t.Helper()
	reg := foundedRegistry(10_000_000).Clone()
	err := reg.addClass(ShareClass{ID: "series-a", Name: "Series A", Kind: Preferred,
		LiquidationPref: D(1), ConversionRatio: D(1), Seniority: 1})
	if err != nil {
		t.Fatalf("addClass() error = %v", err)
	}
	reg.safes = append(reg.safes, notes...)
	return reg
}

func TestConvertSAFEs_MissingPreMoney(t *testing.T) {
	reg := registryWithSAFEs(t, safeNote("s1", "angel", SAFETerms{
		Principal: USD(500_000), ValuationCap: USD(5_000_000), Trigger: QualifiedFinancing}))
	_, _, err := ConvertSAFEs(reg, SAFETrigger{Trigger: QualifiedFinancing, Class: "series-a"})
	if !errors.Is(err, ErrMissingPreMoney) {
		t.Fatalf("ConvertSAFEs() error = %v, want ErrMissingPreMoney", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("ConvertSAFEs() error is not a ValidationError: %v", err)
	}
}

func TestConvertSAFEs_CapBeatsRoundPrice(t *testing.T) {
	// 10M shares, $10M pre-money: round price $1. A $5M cap halves it.
	reg := registryWithSAFEs(t, safeNote("s1", "angel", SAFETerms{
		Principal: USD(500_000), ValuationCap: USD(5_000_000), Trigger: QualifiedFinancing}))

	next, result, err := ConvertSAFEs(reg, SAFETrigger{
		Trigger: QualifiedFinancing, PreMoney: USD(10_000_000), NewMoney: USD(2_000_000), Class: "series-a"})
	if err != nil {
		t.Fatalf("ConvertSAFEs() error = %v", err)
	}
	if len(result.Conversions) != 1 {
		t.Fatalf("got %d conversions, want 1", len(result.Conversions))
	}
	c := result.Conversions[0]
	if c.Method != "cap" {
		t.Errorf("Method = %q, want cap", c.Method)
	}
	if !c.Price.Equal(USD(0.5)) {
		t.Errorf("Price = %s, want $0.50", c.Price)
	}
	if !c.Shares.Equal(Q(1_000_000)) {
		t.Errorf("Shares = %s, want 1,000,000", c.Shares)
	}
	if len(next.SAFEs()) != 0 {
		t.Errorf("note was not removed from the registry")
	}
	if got := next.Holder("angel").SharesOf("series-a"); !got.Equal(Q(1_000_000)) {
		t.Errorf("angel holds %s series-a shares, want 1,000,000", got)
	}
}

func TestConvertSAFEs_GrowsAuthorized(t *testing.T) {
	// Conversion shares are new issuance; the target class must authorize
	// them or the registry fails the per-class reconciliation.
	reg := registryWithSAFEs(t, safeNote("s1", "angel", SAFETerms{
		Principal: USD(500_000), ValuationCap: USD(5_000_000), Trigger: QualifiedFinancing}))
	before := reg.Class("series-a").Authorized

	next, result, err := ConvertSAFEs(reg, SAFETrigger{
		Trigger: QualifiedFinancing, PreMoney: USD(10_000_000), NewMoney: USD(2_000_000), Class: "series-a"})
	if err != nil {
		t.Fatalf("ConvertSAFEs() error = %v", err)
	}
	got := next.Class("series-a").Authorized
	if want := before.Add(result.TotalShares); !got.Equal(want) {
		t.Errorf("Authorized = %s, want %s", got, want)
	}
	report := CheckIntegrity(next, DefaultRounding)
	if !report.IsValid {
		t.Errorf("registry fails integrity after conversion: %v", report.Errors)
	}
}

func TestConvertSAFEs_DiscountWhenCapDoesNotBind(t *testing.T) {
	// Cap $20M is above the $10M pre-money, so the 20% discount applies.
	reg := registryWithSAFEs(t, safeNote("s1", "angel", SAFETerms{
		Principal: USD(400_000), ValuationCap: USD(20_000_000), Discount: D(0.2),
		Trigger: QualifiedFinancing}))

	_, result, err := ConvertSAFEs(reg, SAFETrigger{
		Trigger: QualifiedFinancing, PreMoney: USD(10_000_000), NewMoney: USD(2_000_000), Class: "series-a"})
	if err != nil {
		t.Fatalf("ConvertSAFEs() error = %v", err)
	}
	c := result.Conversions[0]
	if c.Method != "discount" {
		t.Errorf("Method = %q, want discount", c.Method)
	}
	if !c.Price.Equal(USD(0.8)) {
		t.Errorf("Price = %s, want $0.80", c.Price)
	}
	if !c.Shares.Equal(Q(500_000)) {
		t.Errorf("Shares = %s, want 500,000", c.Shares)
	}
}

func TestConvertSAFEs_PriceIsMinOfCandidates(t *testing.T) {
	// Property: the applied price always equals the lowest candidate among
	// round price, cap price and discount price, and never exceeds the
	// round's implied price.
	cases := []struct {
		name   string
		terms  SAFETerms
		want   Money
		method string
	}{
		{"cap only", SAFETerms{Principal: USD(100_000), ValuationCap: USD(8_000_000), Trigger: QualifiedFinancing}, USD(0.8), "cap"},
		{"discount only", SAFETerms{Principal: USD(100_000), Discount: D(0.25), Trigger: QualifiedFinancing}, USD(0.75), "discount"},
		{"cap beats discount", SAFETerms{Principal: USD(100_000), ValuationCap: USD(6_000_000), Discount: D(0.1), Trigger: QualifiedFinancing}, USD(0.6), "cap"},
		{"discount beats cap", SAFETerms{Principal: USD(100_000), ValuationCap: USD(9_900_000), Discount: D(0.5), Trigger: QualifiedFinancing}, USD(0.5), "discount"},
		{"neither binds below round", SAFETerms{Principal: USD(100_000), ValuationCap: USD(99_000_000), Discount: D(0.001), Trigger: QualifiedFinancing}, USD(0.999), "discount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := registryWithSAFEs(t, safeNote("s1", "angel", tc.terms))
			_, result, err := ConvertSAFEs(reg, SAFETrigger{
				Trigger: QualifiedFinancing, PreMoney: USD(10_000_000), Class: "series-a"})
			if err != nil {
				t.Fatalf("ConvertSAFEs() error = %v", err)
			}
			c := result.Conversions[0]
			if !c.Price.Equal(tc.want) {
				t.Errorf("Price = %s, want %s", c.Price, tc.want)
			}
			if c.Method != tc.method {
				t.Errorf("Method = %q, want %q", c.Method, tc.method)
			}
			if c.Price.GreaterThan(result.Price) {
				t.Errorf("conversion price %s exceeds round price %s", c.Price, result.Price)
			}
		})
	}
}

func TestConvertSAFEs_MFNTakesBestPrice(t *testing.T) {
	reg := registryWithSAFEs(t,
		safeNote("s1", "angel", SAFETerms{
			Principal: USD(100_000), ValuationCap: USD(4_000_000), Trigger: QualifiedFinancing}),
		safeNote("s2", "fund", SAFETerms{
			Principal: USD(200_000), Discount: D(0.1), MFN: true, Trigger: QualifiedFinancing}),
	)
	_, result, err := ConvertSAFEs(reg, SAFETrigger{
		Trigger: QualifiedFinancing, PreMoney: USD(10_000_000), Class: "series-a"})
	if err != nil {
		t.Fatalf("ConvertSAFEs() error = %v", err)
	}

	byNote := make(map[string]SAFEConversion)
	for _, c := range result.Conversions {
		byNote[c.Note] = c
	}
	// s1's cap price is $0.40; s2's own discount price would be $0.90 but
	// MFN matches the better cap price.
	if c := byNote["s2"]; c.Method != "mfn" || !c.Price.Equal(USD(0.40)) {
		t.Errorf("s2 converted via %q at %s, want mfn at $0.40", c.Method, c.Price)
	}
	if len(result.Warnings) == 0 || result.Warnings[0].Kind != WarnMFN {
		t.Errorf("expected an MFN warning, got %v", result.Warnings)
	}
}

func TestConvertSAFEs_SimultaneousSameBase(t *testing.T) {
	// Both notes must convert against the same pre-conversion share count:
	// 10M shares, $5M cap each, so each gets principal / $0.50.
	reg := registryWithSAFEs(t,
		safeNote("s1", "angel", SAFETerms{
			Principal: USD(250_000), ValuationCap: USD(5_000_000), Trigger: QualifiedFinancing}),
		safeNote("s2", "fund", SAFETerms{
			Principal: USD(750_000), ValuationCap: USD(5_000_000), Trigger: QualifiedFinancing}),
	)
	_, result, err := ConvertSAFEs(reg, SAFETrigger{
		Trigger: QualifiedFinancing, PreMoney: USD(10_000_000), Class: "series-a"})
	if err != nil {
		t.Fatalf("ConvertSAFEs() error = %v", err)
	}
	if !result.TotalShares.Equal(Q(2_000_000)) {
		t.Errorf("TotalShares = %s, want 2,000,000", result.TotalShares)
	}
}

func TestConvertSAFEs_QualifyingThreshold(t *testing.T) {
	// A note demanding at least $3M of new money does not convert in a $2M
	// round and stays outstanding.
	reg := registryWithSAFEs(t, safeNote("s1", "angel", SAFETerms{
		Principal: USD(500_000), ValuationCap: USD(5_000_000),
		Trigger: QualifiedFinancing, QualifyingThreshold: USD(3_000_000)}))

	next, result, err := ConvertSAFEs(reg, SAFETrigger{
		Trigger: QualifiedFinancing, PreMoney: USD(10_000_000), NewMoney: USD(2_000_000), Class: "series-a"})
	if err != nil {
		t.Fatalf("ConvertSAFEs() error = %v", err)
	}
	if len(result.Conversions) != 0 {
		t.Errorf("note converted below its qualifying threshold")
	}
	if len(next.SAFEs()) != 1 {
		t.Errorf("note should remain outstanding")
	}
}

func TestSAFETerms_Validate(t *testing.T) {
	cases := []struct {
		name    string
		terms   SAFETerms
		wantErr bool
	}{
		{"cap only", SAFETerms{Principal: USD(1), ValuationCap: USD(1_000_000), Trigger: Maturity}, false},
		{"discount only", SAFETerms{Principal: USD(1), Discount: D(0.2), Trigger: Maturity}, false},
		{"neither cap nor discount", SAFETerms{Principal: USD(1), Trigger: Maturity}, true},
		{"zero principal", SAFETerms{ValuationCap: USD(1_000_000), Trigger: Maturity}, true},
		{"discount of 1", SAFETerms{Principal: USD(1), Discount: D(1), Trigger: Maturity}, true},
		{"negative discount", SAFETerms{Principal: USD(1), Discount: D(-0.1), Trigger: Maturity}, true},
		{"missing trigger", SAFETerms{Principal: USD(1), Discount: D(0.2)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.terms.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
