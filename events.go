package captable

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType is a typed string identifying financing event commands.
type EventType string

// Command types used for identifying financing events in the ledger.
const (
	CmdFound       EventType = "found"
	CmdSAFE        EventType = "safe"
	CmdRound       EventType = "round"
	CmdPoolCreate  EventType = "pool-create"
	CmdPoolRefresh EventType = "pool-refresh"
	CmdGrant       EventType = "grant"
	CmdExercise    EventType = "exercise"
	CmdSecondary   EventType = "secondary"
	CmdExit        EventType = "exit"
)

// Event defines the common interface for all financing events that can be
// recorded in the ledger.
type Event interface {
	What() EventType // What returns the command type of the event.
	When() Date      // When returns the date on which the event occurred.
	Validate(reg *Registry) error
}

type baseCmd struct {
	Command EventType `json:"command"`
	Date    Date      `json:"date"`
	Memo    string    `json:"memo,omitempty"` // optional rationale for the event
}

// What returns the command name for the event.
func (t baseCmd) What() EventType { return t.Command }

// When returns the date of the event.
func (t baseCmd) When() Date { return t.Date }

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// FounderAllocation is one founder's initial common stake.
type FounderAllocation struct {
	Holder string   `json:"holder"`
	Name   string   `json:"name,omitempty"`
	Shares Quantity `json:"shares"`
}

// Found incorporates the company: it creates the initial common class and
// issues founder shares.
type Found struct {
	baseCmd
	Company    string
	Class      string // common class id, "common" by default
	Authorized Quantity
	Founders   []FounderAllocation
}

// NewFound creates a founding event.
func NewFound(on Date, company, class string, authorized Quantity, founders ...FounderAllocation) Found {
	return Found{
		baseCmd:    baseCmd{Command: CmdFound, Date: on},
		Company:    company,
		Class:      class,
		Authorized: authorized,
		Founders:   founders,
	}
}

// Validate checks the founding event against the registry.
func (t Found) Validate(reg *Registry) error {
	if len(t.Founders) == 0 {
		return &ValidationError{Msg: "founding needs at least one founder"}
	}
	var issued Quantity
	for _, f := range t.Founders {
		if !f.Shares.IsPositive() {
			return &ValidationError{Msg: fmt.Sprintf("founder %q shares must be positive", f.Holder)}
		}
		issued = issued.Add(f.Shares)
	}
	if !t.Authorized.IsZero() && t.Authorized.LessThan(issued) {
		return &ValidationError{Msg: "founders are issued more shares than authorized"}
	}
	if len(reg.Classes()) > 0 {
		return &ValidationError{Msg: "company is already founded"}
	}
	return nil
}

// apply issues the founding common stock on a clone of the registry.
func (t Found) apply(reg *Registry) (*Registry, error) {
	next := reg.Clone()
	class := t.Class
	if class == "" {
		class = "common"
	}
	authorized := t.Authorized
	if authorized.IsZero() {
		for _, f := range t.Founders {
			authorized = authorized.Add(f.Shares)
		}
	}
	err := next.addClass(ShareClass{
		ID:              class,
		Name:            "Common Stock",
		Kind:            Common,
		Authorized:      authorized,
		ConversionRatio: decimal.NewFromInt(1),
	})
	if err != nil {
		return nil, err
	}
	for _, f := range t.Founders {
		holder := next.ensureHolder(f.Holder, f.Name, Founder)
		next.addShares(holder, Holding{Class: class, Shares: f.Shares, GrantDate: t.Date})
	}
	return next, nil
}

// MarshalJSON implements the json.Marshaler interface for Found.
func (t Found) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Optional("company", t.Company)
	w.Optional("class", t.Class)
	w.Optional("authorized", t.Authorized)
	w.Append("founders", t.Founders)
	return w.MarshalJSON()
}

// SAFEIssue records a new SAFE note. The note sits in the registry until a
// later priced round (or another trigger) converts it.
type SAFEIssue struct {
	baseCmd
	Note SAFENote
}

// NewSAFEIssue creates a SAFE issuance event.
func NewSAFEIssue(on Date, holder string, terms SAFETerms) SAFEIssue {
	return SAFEIssue{
		baseCmd: baseCmd{Command: CmdSAFE, Date: on},
		Note:    SAFENote{ID: uuid.NewString(), Holder: holder, Date: on, Terms: terms},
	}
}

// Validate checks the SAFE terms.
func (t SAFEIssue) Validate(reg *Registry) error {
	if t.Note.Holder == "" {
		return &ValidationError{Msg: "SAFE holder is missing"}
	}
	return t.Note.Terms.Validate()
}

func (t SAFEIssue) apply(reg *Registry) (*Registry, error) {
	next := reg.Clone()
	note := t.Note
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.Date.IsZero() {
		note.Date = t.Date
	}
	next.ensureHolder(note.Holder, note.Holder, Investor)
	next.safes = append(next.safes, note)
	return next, nil
}

// MarshalJSON implements the json.Marshaler interface for SAFEIssue.
func (t SAFEIssue) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("id", t.Note.ID)
	w.Append("holder", t.Note.Holder)
	w.Append("terms", t.Note.Terms)
	return w.MarshalJSON()
}

// Round records a priced equity round.
type Round struct {
	baseCmd
	PricedRound
}

// NewRound creates a priced round event.
func NewRound(on Date, round PricedRound) Round {
	round.Date = on
	return Round{baseCmd: baseCmd{Command: CmdRound, Date: on}, PricedRound: round}
}

// Validate checks the round's shape without computing it.
func (t Round) Validate(reg *Registry) error {
	if !t.Amount.IsPositive() {
		return &ValidationError{Msg: "round amount must be positive"}
	}
	given := 0
	for _, m := range []Money{t.PreMoney, t.PostMoney, t.SharePrice} {
		if !m.IsZero() {
			given++
		}
	}
	if given != 1 {
		return validationErr(ErrAmbiguousValuation, "round %q: %v", t.ID, ErrAmbiguousValuation)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Round.
func (t Round) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Optional("id", t.ID)
	w.Append("amount", t.Amount)
	w.Optional("preMoney", t.PreMoney)
	w.Optional("postMoney", t.PostMoney)
	w.Optional("sharePrice", t.SharePrice)
	w.Append("class", t.Class.ID)
	w.Optional("className", t.Class.Name)
	w.Optional("liquidationPref", t.Class.LiquidationPref)
	w.Optional("participating", t.Class.Participating)
	w.Optional("participationCap", t.Class.ParticipationCap)
	w.Optional("antiDilution", string(t.Class.AntiDilution))
	w.Optional("seniority", t.Class.Seniority)
	if t.PricedRound.Pool != nil {
		w.Append("poolPct", t.PricedRound.Pool.TargetPct)
		w.Append("poolPreMoney", t.PricedRound.Pool.PreMoney)
	}
	w.Append("investors", t.Investors)
	w.Optional("founderSecondary", t.FounderSecondary)
	return w.MarshalJSON()
}

// PoolCreate reserves the employee option pool.
type PoolCreate struct {
	baseCmd
	Class    string
	Pct      Percent
	PreMoney bool
}

// NewPoolCreate creates a pool creation event.
func NewPoolCreate(on Date, class string, pct Percent, preMoney bool) PoolCreate {
	return PoolCreate{baseCmd: baseCmd{Command: CmdPoolCreate, Date: on}, Class: class, Pct: pct, PreMoney: preMoney}
}

// Validate checks the pool creation parameters.
func (t PoolCreate) Validate(reg *Registry) error {
	if reg.Pool() != nil {
		return &ValidationError{Msg: "option pool already exists, use pool-refresh"}
	}
	return validPoolPct(t.Pct)
}

// MarshalJSON implements the json.Marshaler interface for PoolCreate.
func (t PoolCreate) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("class", t.Class)
	w.Append("pct", t.Pct)
	w.Append("preMoney", t.PreMoney)
	return w.MarshalJSON()
}

// PoolRefresh resizes the option pool to a new target percentage.
type PoolRefresh struct {
	baseCmd
	Pct Percent
}

// NewPoolRefresh creates a pool refresh event.
func NewPoolRefresh(on Date, pct Percent) PoolRefresh {
	return PoolRefresh{baseCmd: baseCmd{Command: CmdPoolRefresh, Date: on}, Pct: pct}
}

// Validate checks the refresh parameters.
func (t PoolRefresh) Validate(reg *Registry) error {
	if reg.Pool() == nil {
		return &ValidationError{Msg: "no option pool to refresh"}
	}
	return validPoolPct(t.Pct)
}

// MarshalJSON implements the json.Marshaler interface for PoolRefresh.
func (t PoolRefresh) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("pct", t.Pct)
	return w.MarshalJSON()
}

// Grant allocates option pool shares to an employee.
type Grant struct {
	baseCmd
	Holder        string
	Shares        Quantity
	ExercisePrice Money
}

// NewGrant creates an option grant event.
func NewGrant(on Date, holder string, shares Quantity, exercisePrice Money) Grant {
	return Grant{baseCmd: baseCmd{Command: CmdGrant, Date: on}, Holder: holder, Shares: shares, ExercisePrice: exercisePrice}
}

// Validate checks the grant against the pool.
func (t Grant) Validate(reg *Registry) error {
	if t.Holder == "" {
		return &ValidationError{Msg: "grant holder is missing"}
	}
	pool := reg.Pool()
	if pool == nil {
		return &ValidationError{Msg: "no option pool to grant from"}
	}
	if pool.Available.LessThan(t.Shares) {
		return validationErr(ErrInsufficientPool,
			"cannot grant %s shares: only %s available", t.Shares, pool.Available)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Grant.
func (t Grant) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("holder", t.Holder)
	w.Append("shares", t.Shares)
	w.Optional("exercisePrice", t.ExercisePrice)
	return w.MarshalJSON()
}

// Exercise converts an employee's allocated options into issued shares.
type Exercise struct {
	baseCmd
	Holder string
	Shares Quantity
}

// NewExercise creates an option exercise event.
func NewExercise(on Date, holder string, shares Quantity) Exercise {
	return Exercise{baseCmd: baseCmd{Command: CmdExercise, Date: on}, Holder: holder, Shares: shares}
}

// Validate checks the exercise against the pool.
func (t Exercise) Validate(reg *Registry) error {
	if t.Holder == "" {
		return &ValidationError{Msg: "exercise holder is missing"}
	}
	if reg.Pool() == nil {
		return &ValidationError{Msg: "no option pool to exercise from"}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Exercise.
func (t Exercise) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("holder", t.Holder)
	w.Append("shares", t.Shares)
	return w.MarshalJSON()
}

// SecondarySale records a sale of existing shares between holders.
type SecondarySale struct {
	baseCmd
	SecondaryTransaction
}

// NewSecondarySale creates a secondary sale event.
func NewSecondarySale(on Date, tx SecondaryTransaction) SecondarySale {
	tx.Date = on
	return SecondarySale{baseCmd: baseCmd{Command: CmdSecondary, Date: on}, SecondaryTransaction: tx}
}

// Validate checks the sale against current holdings.
func (t SecondarySale) Validate(reg *Registry) error {
	if !t.Shares.IsPositive() {
		return &ValidationError{Msg: "secondary sale shares must be positive"}
	}
	seller := reg.Holder(t.Seller)
	if seller == nil {
		return &ValidationError{Msg: fmt.Sprintf("unknown seller %q", t.Seller)}
	}
	if seller.SharesOf(t.SecondaryTransaction.Class).LessThan(t.Shares) {
		return &ValidationError{Msg: fmt.Sprintf(
			"seller %q holds fewer than %s shares of class %q",
			t.Seller, t.Shares, t.SecondaryTransaction.Class)}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for SecondarySale.
func (t SecondarySale) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("seller", t.Seller)
	w.Append("buyer", t.Buyer)
	w.Append("class", t.SecondaryTransaction.Class)
	w.Append("shares", t.Shares)
	w.Optional("pricePerShare", t.PricePerShare)
	return w.MarshalJSON()
}

// Exit records an exit evaluation. It never changes the registry; the
// computed distribution is kept in the replay checkpoints.
type Exit struct {
	baseCmd
	ExitScenario
}

// NewExit creates an exit event.
func NewExit(on Date, scenario ExitScenario) Exit {
	scenario.Date = on
	return Exit{baseCmd: baseCmd{Command: CmdExit, Date: on}, ExitScenario: scenario}
}

// Validate checks the exit scenario.
func (t Exit) Validate(reg *Registry) error {
	if t.ExitValue.IsNegative() {
		return &ValidationError{Msg: "exit value must not be negative"}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Exit.
func (t Exit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Optional("name", t.Name)
	w.Append("exitValue", t.ExitValue)
	w.Optional("kind", string(t.Kind))
	w.Optional("simplified", t.Simplified)
	return w.MarshalJSON()
}
