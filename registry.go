package captable

import (
	"fmt"
	"sort"
)

// InvestorRecord is one investor's participation in a priced round.
type InvestorRecord struct {
	Holder  string // Shareholder id
	Amount  Money
	ProRata bool
	Board   bool
}

// MarshalJSON implements the json.Marshaler interface for InvestorRecord.
func (i InvestorRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("holder", i.Holder)
	w.Append("amount", i.Amount)
	w.Optional("proRata", i.ProRata)
	w.Optional("board", i.Board)
	return w.MarshalJSON()
}

// RoundRecord is the registry's memory of a completed priced round. Exit
// scenarios read invested amounts from these records to compute return
// multiples; the integrity validator reconciles them.
type RoundRecord struct {
	ID         string
	Date       Date
	Amount     Money
	PreMoney   Money
	PostMoney  Money
	SharePrice Money
	Class      string // ShareClass id issued in the round
	Investors  []InvestorRecord
}

// Registry is an immutable snapshot of the cap table: share classes,
// shareholder holdings, the option pool, outstanding SAFE notes and the
// priced-round history. Calculators never mutate a Registry in place; they
// clone it, apply their changes to the clone, and return it. Callers
// therefore retain a consistent history of every intermediate state.
type Registry struct {
	Currency string // reporting currency for all monetary amounts

	classes []ShareClass  // insertion order
	holders []Shareholder // insertion order
	pool    *OptionPool
	safes   []SAFENote
	rounds  []RoundRecord

	safePrincipal map[string]Money // converted SAFE principal per holder id
}

// NewRegistry creates an empty registry reporting in the given currency.
func NewRegistry(currency string) *Registry {
	return &Registry{Currency: currency}
}

// money creates a zero Money in the registry's currency.
func (r *Registry) money() Money { return M(0, r.Currency) }

// Clone returns a deep copy of the registry. Calculators work on clones so
// the input snapshot is never touched.
func (r *Registry) Clone() *Registry {
	c := &Registry{Currency: r.Currency}
	c.classes = make([]ShareClass, len(r.classes))
	copy(c.classes, r.classes)
	c.holders = make([]Shareholder, len(r.holders))
	for i, h := range r.holders {
		c.holders[i] = h.clone()
	}
	if r.pool != nil {
		c.pool = r.pool.clone()
	}
	c.safes = make([]SAFENote, len(r.safes))
	copy(c.safes, r.safes)
	c.rounds = make([]RoundRecord, len(r.rounds))
	for i, rd := range r.rounds {
		c.rounds[i] = rd
		c.rounds[i].Investors = make([]InvestorRecord, len(rd.Investors))
		copy(c.rounds[i].Investors, rd.Investors)
	}
	if r.safePrincipal != nil {
		c.safePrincipal = make(map[string]Money, len(r.safePrincipal))
		for k, v := range r.safePrincipal {
			c.safePrincipal[k] = v
		}
	}
	return c
}

// Class returns the share class with this id, or nil if unknown.
func (r *Registry) Class(id string) *ShareClass {
	for i := range r.classes {
		if r.classes[i].ID == id {
			return &r.classes[i]
		}
	}
	return nil
}

// Holder returns the shareholder with this id, or nil if unknown.
func (r *Registry) Holder(id string) *Shareholder {
	for i := range r.holders {
		if r.holders[i].ID == id {
			return &r.holders[i]
		}
	}
	return nil
}

// Classes returns the share classes in insertion order.
func (r *Registry) Classes() []ShareClass { return r.classes }

// Holders returns the shareholders in insertion order.
func (r *Registry) Holders() []Shareholder { return r.holders }

// Pool returns the option pool, or nil if none was created.
func (r *Registry) Pool() *OptionPool { return r.pool }

// SAFEs returns the outstanding (unconverted) SAFE notes.
func (r *Registry) SAFEs() []SAFENote { return r.safes }

// Rounds returns the priced-round history.
func (r *Registry) Rounds() []RoundRecord { return r.rounds }

// LastRound returns the most recent priced round, or nil.
func (r *Registry) LastRound() *RoundRecord {
	if len(r.rounds) == 0 {
		return nil
	}
	return &r.rounds[len(r.rounds)-1]
}

// addClass registers a new share class. Used by calculators on clones.
func (r *Registry) addClass(c ShareClass) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if r.Class(c.ID) != nil {
		return &ValidationError{Msg: fmt.Sprintf("share class %q already exists", c.ID)}
	}
	r.classes = append(r.classes, c)
	return nil
}

// ensureHolder returns the shareholder with this id, creating it if needed.
func (r *Registry) ensureHolder(id, name string, role Role) *Shareholder {
	if h := r.Holder(id); h != nil {
		return h
	}
	r.holders = append(r.holders, Shareholder{ID: id, Name: name, Role: role})
	return &r.holders[len(r.holders)-1]
}

// addShares adds shares of a class to a holder, merging into an existing
// holding of the same class when one exists without grant terms.
func (r *Registry) addShares(holder *Shareholder, h Holding) {
	if h.Vesting == nil && h.ExercisePrice.IsZero() {
		for i := range holder.Holdings {
			ex := &holder.Holdings[i]
			if ex.Class == h.Class && ex.Vesting == nil && ex.ExercisePrice.IsZero() {
				ex.Shares = ex.Shares.Add(h.Shares)
				return
			}
		}
	}
	holder.Holdings = append(holder.Holdings, h)
}

// removeShares removes shares of a class from a holder. It fails when the
// holder does not own that many shares of the class.
func (r *Registry) removeShares(holder *Shareholder, class string, shares Quantity) error {
	remaining := shares
	for i := range holder.Holdings {
		h := &holder.Holdings[i]
		if h.Class != class || remaining.IsZero() {
			continue
		}
		take := remaining
		if h.Shares.LessThan(take) {
			take = h.Shares
		}
		h.Shares = h.Shares.Sub(take)
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		return computationErr("holder %q owns fewer than %s shares of class %q", holder.ID, shares, class)
	}
	// drop emptied holdings
	kept := holder.Holdings[:0]
	for _, h := range holder.Holdings {
		if !h.Shares.IsZero() {
			kept = append(kept, h)
		}
	}
	holder.Holdings = kept
	return nil
}

// TotalShares returns the issued share count, summed over all holdings.
// Unissued option pool shares are excluded.
func (r *Registry) TotalShares() Quantity {
	var total Quantity
	for _, h := range r.holders {
		total = total.Add(h.Shares())
	}
	return total
}

// FullyDilutedShares returns the issued shares plus the unissued option pool.
// Granting and exercising options never change this total: pool shares are
// counted from the moment they are reserved.
func (r *Registry) FullyDilutedShares() Quantity {
	total := r.TotalShares()
	if r.pool != nil {
		total = total.Add(r.pool.Unissued())
	}
	return total
}

// ClassShares returns the issued share count of one class.
func (r *Registry) ClassShares(id string) Quantity {
	var total Quantity
	for _, h := range r.holders {
		total = total.Add(h.SharesOf(id))
	}
	return total
}

// CommonShares returns the issued shares of all common classes.
func (r *Registry) CommonShares() Quantity {
	var total Quantity
	for _, c := range r.classes {
		if c.Kind == Common {
			total = total.Add(r.ClassShares(c.ID))
		}
	}
	return total
}

// convertibleShares returns the common-equivalent count of all non-common
// issued shares, used by broad-based anti-dilution denominators.
func (r *Registry) convertibleShares() Quantity {
	var total Quantity
	for _, c := range r.classes {
		if c.Kind == Common {
			continue
		}
		total = total.Add(c.asCommon(r.ClassShares(c.ID)))
	}
	return total
}

// InvestedBy returns the total amount a shareholder has invested across the
// priced-round history and converted SAFE principal.
func (r *Registry) InvestedBy(holder string) Money {
	total := r.money()
	for _, rd := range r.rounds {
		for _, inv := range rd.Investors {
			if inv.Holder == holder {
				total = total.Add(inv.Amount)
			}
		}
	}
	if p, ok := r.safePrincipal[holder]; ok {
		total = total.Add(p)
	}
	return total
}

// Ownership is one line of the ownership table.
type Ownership struct {
	Holder  string
	Name    string
	Role    Role
	Shares  Quantity
	Percent Percent // of fully diluted shares
}

// OwnershipTable computes per-shareholder ownership of the fully diluted cap
// table, in descending share order. Percentages are at full precision; the
// caller rounds them through its policy.
func (r *Registry) OwnershipTable() []Ownership {
	fd := r.FullyDilutedShares()
	table := make([]Ownership, 0, len(r.holders))
	for _, h := range r.holders {
		shares := h.Shares()
		table = append(table, Ownership{
			Holder:  h.ID,
			Name:    h.Name,
			Role:    h.Role,
			Shares:  shares,
			Percent: PercentOf(shares, fd),
		})
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Shares.GreaterThan(table[j].Shares)
	})
	return table
}

// ownershipByRole sums fully diluted ownership per role in percentage points.
func (r *Registry) ownershipByRole() map[Role]Percent {
	fd := r.FullyDilutedShares()
	byRole := make(map[Role]Percent)
	for _, h := range r.holders {
		byRole[h.Role] = byRole[h.Role].Add(PercentOf(h.Shares(), fd))
	}
	return byRole
}
