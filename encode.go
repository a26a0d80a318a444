package captable

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// moneyField decodes an optional {currency, amount} object.
type moneyField struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (f moneyField) money(fallback string) Money {
	if f.Amount.IsZero() {
		return Money{}
	}
	cur := f.Currency
	if cur == "" {
		cur = fallback
	}
	return M(f.Amount, cur)
}

// EncodeEvent writes a single event as one JSONL line.
func EncodeEvent(w io.Writer, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("could not encode %s event: %w", e.What(), err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// EncodeLedger writes the whole ledger in canonical JSONL form.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, e := range l.Events() {
		if err := EncodeEvent(w, e); err != nil {
			return err
		}
	}
	return nil
}

// safeTermsCmd is a specialized struct for decoding SAFE terms.
type safeTermsCmd struct {
	Principal           moneyField      `json:"principal"`
	ValuationCap        moneyField      `json:"valuationCap"`
	Discount            decimal.Decimal `json:"discount"`
	MFN                 bool            `json:"mfn"`
	Trigger             string          `json:"trigger"`
	QualifyingThreshold moneyField      `json:"qualifyingThreshold"`
}

func (c safeTermsCmd) terms(cur string) SAFETerms {
	return SAFETerms{
		Principal:           c.Principal.money(cur),
		ValuationCap:        c.ValuationCap.money(cur),
		Discount:            c.Discount,
		MFN:                 c.MFN,
		Trigger:             ConversionTrigger(c.Trigger),
		QualifyingThreshold: c.QualifyingThreshold.money(cur),
	}
}

// investorCmd is a specialized struct for decoding round investors.
type investorCmd struct {
	Holder  string     `json:"holder"`
	Amount  moneyField `json:"amount"`
	ProRata bool       `json:"proRata"`
	Board   bool       `json:"board"`
}

// DecodeLedger reads a stream of JSONL events, decodes each line into the
// appropriate event struct, and returns a sorted Ledger.
func DecodeLedger(r io.Reader, currency string) (*Ledger, error) {
	ledger := NewLedger(currency)
	cur := ledger.Currency()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command EventType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decoded Event

		switch identifier.Command {
		case CmdFound:
			var temp struct {
				baseCmd
				Company    string              `json:"company"`
				Class      string              `json:"class"`
				Authorized Quantity            `json:"authorized"`
				Founders   []FounderAllocation `json:"founders"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = Found{baseCmd: temp.baseCmd, Company: temp.Company, Class: temp.Class,
				Authorized: temp.Authorized, Founders: temp.Founders}

		case CmdSAFE:
			var temp struct {
				baseCmd
				ID     string       `json:"id"`
				Holder string       `json:"holder"`
				Terms  safeTermsCmd `json:"terms"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = SAFEIssue{baseCmd: temp.baseCmd, Note: SAFENote{
				ID: temp.ID, Holder: temp.Holder, Date: temp.Date, Terms: temp.Terms.terms(cur)}}

		case CmdRound:
			var temp struct {
				baseCmd
				ID               string          `json:"id"`
				Amount           moneyField      `json:"amount"`
				PreMoney         moneyField      `json:"preMoney"`
				PostMoney        moneyField      `json:"postMoney"`
				SharePrice       moneyField      `json:"sharePrice"`
				Class            string          `json:"class"`
				ClassName        string          `json:"className"`
				LiquidationPref  decimal.Decimal `json:"liquidationPref"`
				Participating    bool            `json:"participating"`
				ParticipationCap decimal.Decimal `json:"participationCap"`
				AntiDilution     string          `json:"antiDilution"`
				Seniority        int             `json:"seniority"`
				PoolPct          Percent         `json:"poolPct"`
				PoolPreMoney     bool            `json:"poolPreMoney"`
				Investors        []investorCmd   `json:"investors"`
				FounderSecondary moneyField      `json:"founderSecondary"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			round := PricedRound{
				ID:         temp.ID,
				Date:       temp.Date,
				Amount:     temp.Amount.money(cur),
				PreMoney:   temp.PreMoney.money(cur),
				PostMoney:  temp.PostMoney.money(cur),
				SharePrice: temp.SharePrice.money(cur),
				Class: ShareClass{
					ID:               temp.Class,
					Name:             temp.ClassName,
					Kind:             Preferred,
					LiquidationPref:  temp.LiquidationPref,
					Participating:    temp.Participating,
					ParticipationCap: temp.ParticipationCap,
					AntiDilution:     AntiDilutionKind(temp.AntiDilution),
					Seniority:        temp.Seniority,
				},
				FounderSecondary: temp.FounderSecondary.money(cur),
			}
			if !temp.PoolPct.IsZero() {
				round.Pool = &PoolAdjustment{TargetPct: temp.PoolPct, PreMoney: temp.PoolPreMoney}
			}
			for _, inv := range temp.Investors {
				round.Investors = append(round.Investors, InvestorRecord{
					Holder:  inv.Holder,
					Amount:  inv.Amount.money(cur),
					ProRata: inv.ProRata,
					Board:   inv.Board,
				})
			}
			decoded = Round{baseCmd: temp.baseCmd, PricedRound: round}

		case CmdPoolCreate:
			var temp struct {
				baseCmd
				Class    string  `json:"class"`
				Pct      Percent `json:"pct"`
				PreMoney bool    `json:"preMoney"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = PoolCreate{baseCmd: temp.baseCmd, Class: temp.Class, Pct: temp.Pct, PreMoney: temp.PreMoney}

		case CmdPoolRefresh:
			var temp struct {
				baseCmd
				Pct Percent `json:"pct"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = PoolRefresh{baseCmd: temp.baseCmd, Pct: temp.Pct}

		case CmdGrant:
			var temp struct {
				baseCmd
				Holder        string     `json:"holder"`
				Shares        Quantity   `json:"shares"`
				ExercisePrice moneyField `json:"exercisePrice"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = Grant{baseCmd: temp.baseCmd, Holder: temp.Holder, Shares: temp.Shares,
				ExercisePrice: temp.ExercisePrice.money(cur)}

		case CmdExercise:
			var temp struct {
				baseCmd
				Holder string   `json:"holder"`
				Shares Quantity `json:"shares"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = Exercise{baseCmd: temp.baseCmd, Holder: temp.Holder, Shares: temp.Shares}

		case CmdSecondary:
			var temp struct {
				baseCmd
				Seller        string     `json:"seller"`
				Buyer         string     `json:"buyer"`
				Class         string     `json:"class"`
				Shares        Quantity   `json:"shares"`
				PricePerShare moneyField `json:"pricePerShare"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = SecondarySale{baseCmd: temp.baseCmd, SecondaryTransaction: SecondaryTransaction{
				Date:          temp.Date,
				Seller:        temp.Seller,
				Buyer:         temp.Buyer,
				Class:         temp.Class,
				Shares:        temp.Shares,
				PricePerShare: temp.PricePerShare.money(cur),
			}}

		case CmdExit:
			var temp struct {
				baseCmd
				Name       string     `json:"name"`
				ExitValue  moneyField `json:"exitValue"`
				Kind       string     `json:"kind"`
				Simplified bool       `json:"simplified"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = Exit{baseCmd: temp.baseCmd, ExitScenario: ExitScenario{
				Name:       temp.Name,
				ExitValue:  temp.ExitValue.money(cur),
				Kind:       ExitKind(temp.Kind),
				Date:       temp.Date,
				Simplified: temp.Simplified,
			}}

		default:
			return nil, fmt.Errorf("unknown command %q in line %q", identifier.Command, string(lineBytes))
		}

		ledger.Append(decoded)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	return ledger, nil
}
