package captable

import "fmt"

// Role identifies a shareholder's relationship to the company.
type Role string

const (
	Founder  Role = "founder"
	Employee Role = "employee"
	Investor Role = "investor"
	Advisor  Role = "advisor"
)

// ParseRole parses a string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case Founder, Employee, Investor, Advisor:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown shareholder role: %q", s)
	}
}

// Vesting describes a time-based vesting schedule attached to a holding.
type Vesting struct {
	Start       Date
	Months      int // total vesting period
	CliffMonths int
}

// Holding is one shareholder's position in one share class.
type Holding struct {
	Class         string // ShareClass id
	Shares        Quantity
	Vesting       *Vesting
	ExercisePrice Money // for option grants
	GrantDate     Date
}

// MarshalJSON implements the json.Marshaler interface for Holding.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("class", h.Class)
	w.Append("shares", h.Shares)
	if h.Vesting != nil {
		w.Append("vestingStart", h.Vesting.Start)
		w.Append("vestingMonths", h.Vesting.Months)
		w.Optional("cliffMonths", h.Vesting.CliffMonths)
	}
	w.Optional("exercisePrice", h.ExercisePrice)
	w.Optional("grantDate", h.GrantDate)
	return w.MarshalJSON()
}

// Shareholder is one owner on the cap table with an ordered list of holdings.
type Shareholder struct {
	ID       string
	Name     string
	Role     Role
	Holdings []Holding
}

// Shares returns the shareholder's total share count across all classes.
func (s Shareholder) Shares() Quantity {
	var total Quantity
	for _, h := range s.Holdings {
		total = total.Add(h.Shares)
	}
	return total
}

// SharesOf returns the shareholder's share count in one class.
func (s Shareholder) SharesOf(class string) Quantity {
	var total Quantity
	for _, h := range s.Holdings {
		if h.Class == class {
			total = total.Add(h.Shares)
		}
	}
	return total
}

// clone returns a deep copy of the shareholder.
func (s Shareholder) clone() Shareholder {
	c := s
	c.Holdings = make([]Holding, len(s.Holdings))
	copy(c.Holdings, s.Holdings)
	for i, h := range c.Holdings {
		if h.Vesting != nil {
			v := *h.Vesting
			c.Holdings[i].Vesting = &v
		}
	}
	return c
}

// MarshalJSON implements the json.Marshaler interface for Shareholder.
func (s Shareholder) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", s.ID)
	w.Optional("name", s.Name)
	w.Append("role", string(s.Role))
	w.Append("holdings", s.Holdings)
	return w.MarshalJSON()
}
