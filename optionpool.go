package captable

// OptionGrant is one outstanding (unexercised) grant out of the pool.
type OptionGrant struct {
	Holder        string // Shareholder id
	Shares        Quantity
	ExercisePrice Money
	Date          Date
	Vesting       *Vesting
}

// MarshalJSON implements the json.Marshaler interface for OptionGrant.
func (g OptionGrant) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("holder", g.Holder)
	w.Append("shares", g.Shares)
	w.Optional("exercisePrice", g.ExercisePrice)
	w.Optional("date", g.Date)
	return w.MarshalJSON()
}

// OptionPool tracks the employee option pool for one company.
//
// Invariant: Available + Allocated + Exercised == Total. Exercising moves
// shares from Allocated to Exercised; Total only changes on create/refresh.
type OptionPool struct {
	Class          string // ShareClass id backing the pool
	Total          Quantity
	Available      Quantity
	Allocated      Quantity
	Exercised      Quantity
	PreMoney       bool    // timing semantics the pool was sized under
	LastRefreshPct Percent // target percentage of the last create/refresh

	Grants []OptionGrant // outstanding grants, in grant order
}

// clone returns a deep copy of the pool.
func (p OptionPool) clone() *OptionPool {
	c := p
	c.Grants = make([]OptionGrant, len(p.Grants))
	copy(c.Grants, p.Grants)
	for i, g := range c.Grants {
		if g.Vesting != nil {
			v := *g.Vesting
			c.Grants[i].Vesting = &v
		}
	}
	return &c
}

// Unissued returns the pool shares not yet exercised into holdings. These
// count toward fully diluted totals but not toward issued shares.
func (p OptionPool) Unissued() Quantity {
	return p.Available.Add(p.Allocated)
}

// check verifies the pool conservation invariant.
func (p OptionPool) check() error {
	sum := p.Available.Add(p.Allocated).Add(p.Exercised)
	if !sum.Equal(p.Total) {
		return computationErr("option pool does not reconcile: available %s + allocated %s + exercised %s != total %s",
			p.Available, p.Allocated, p.Exercised, p.Total)
	}
	if p.Available.IsNegative() || p.Allocated.IsNegative() || p.Exercised.IsNegative() {
		return computationErr("option pool has a negative bucket")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for OptionPool.
func (p OptionPool) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("class", p.Class)
	w.Append("total", p.Total)
	w.Append("available", p.Available)
	w.Append("allocated", p.Allocated)
	w.Append("exercised", p.Exercised)
	w.Append("preMoney", p.PreMoney)
	w.Optional("lastRefreshPct", p.LastRefreshPct)
	return w.MarshalJSON()
}
