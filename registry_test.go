package captable

import (
	"math/rand"
	"testing"
)

func TestRegistry_CloneDoesNotShareState(t *testing.T) {
	reg := foundedRegistry(10_000_000)
	clone := reg.Clone()

	holder := clone.Holder("alice")
	clone.addShares(holder, Holding{Class: "common", Shares: Q(1_000_000)})

	if !reg.Holder("alice").Shares().Equal(Q(6_000_000)) {
		t.Errorf("mutating a clone changed the original: alice has %s shares", reg.Holder("alice").Shares())
	}
	if !clone.Holder("alice").Shares().Equal(Q(7_000_000)) {
		t.Errorf("clone did not take the mutation: alice has %s shares", clone.Holder("alice").Shares())
	}
}

func TestRegistry_OwnershipSumsTo100(t *testing.T) {
	// Property: for randomized share distributions the fully diluted
	// ownership always sums to 100% within the 0.01 tolerance.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		l := NewLedger("USD")
		n := 2 + rng.Intn(8)
		founders := make([]FounderAllocation, n)
		for j := range founders {
			founders[j] = FounderAllocation{
				Holder: string(rune('a' + j)),
				Shares: Q(1 + rng.Int63n(10_000_000)),
			}
		}
		l.Append(NewFound(jan(1), "Rand", "common", Q(0), founders...))
		reg, _, err := l.Replay()
		if err != nil {
			t.Fatalf("Replay() error = %v", err)
		}

		report := CheckIntegrity(reg, DefaultRounding)
		if !report.IsValid {
			t.Fatalf("iteration %d: integrity errors %v", i, report.Errors)
		}
		if !report.OwnershipTotal.Equal(Pct(100)) {
			t.Errorf("iteration %d: ownership sums to %s", i, report.OwnershipTotal)
		}
	}
}

func TestRegistry_RecomputationIsIdempotent(t *testing.T) {
	reg := foundedRegistry(10_000_000)
	next, _, err := seriesA(reg)
	if err != nil {
		t.Fatalf("seriesA() error = %v", err)
	}

	first := next.OwnershipTable()
	second := next.OwnershipTable()
	if len(first) != len(second) {
		t.Fatalf("ownership table size changed between calls: %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Holder != second[i].Holder || !first[i].Percent.Equal(second[i].Percent) {
			t.Errorf("row %d differs: %+v then %+v", i, first[i], second[i])
		}
	}
}

func TestRegistry_InvestedBy(t *testing.T) {
	reg := foundedRegistry(10_000_000)
	next, _, err := seriesA(reg)
	if err != nil {
		t.Fatalf("seriesA() error = %v", err)
	}
	if got := next.InvestedBy("vc-one"); !got.Equal(USD(2_500_000)) {
		t.Errorf("InvestedBy(vc-one) = %s, want $2,500,000", got)
	}
	if got := next.InvestedBy("alice"); !got.IsZero() {
		t.Errorf("InvestedBy(alice) = %s, want 0", got)
	}
}
