package captable

import "fmt"

// SecondaryTransaction is a sale of existing shares between two holders. It
// is a pure ledger entry: total shares outstanding never change, only
// ownership does.
type SecondaryTransaction struct {
	Date          Date
	Seller        string // Shareholder id
	Buyer         string // Shareholder id
	Class         string // ShareClass id
	Shares        Quantity
	PricePerShare Money
}

// SecondaryResult reports the ownership shift caused by a secondary sale.
type SecondaryResult struct {
	Transaction  SecondaryTransaction
	Proceeds     Money
	SellerBefore Percent
	SellerAfter  Percent
	BuyerBefore  Percent
	BuyerAfter   Percent
}

// ApplySecondary transfers shares from the seller to the buyer at the stated
// price. The input registry is left untouched.
func ApplySecondary(reg *Registry, tx SecondaryTransaction) (*Registry, *SecondaryResult, error) {
	if !tx.Shares.IsPositive() {
		return nil, nil, &ValidationError{Msg: "secondary sale shares must be positive"}
	}
	if tx.Seller == tx.Buyer {
		return nil, nil, &ValidationError{Msg: "seller and buyer must differ"}
	}
	seller := reg.Holder(tx.Seller)
	if seller == nil {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf("unknown seller %q", tx.Seller)}
	}
	if reg.Class(tx.Class) == nil {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf("unknown share class %q", tx.Class)}
	}
	if seller.SharesOf(tx.Class).LessThan(tx.Shares) {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf(
			"seller %q holds fewer than %s shares of class %q", tx.Seller, tx.Shares, tx.Class)}
	}

	fd := reg.FullyDilutedShares()
	result := &SecondaryResult{
		Transaction:  tx,
		Proceeds:     tx.PricePerShare.Mul(tx.Shares),
		SellerBefore: PercentOf(seller.Shares(), fd),
	}
	if buyer := reg.Holder(tx.Buyer); buyer != nil {
		result.BuyerBefore = PercentOf(buyer.Shares(), fd)
	}

	next := reg.Clone()
	if err := next.removeShares(next.Holder(tx.Seller), tx.Class, tx.Shares); err != nil {
		return nil, nil, err
	}
	buyer := next.ensureHolder(tx.Buyer, tx.Buyer, Investor)
	next.addShares(buyer, Holding{Class: tx.Class, Shares: tx.Shares, GrantDate: tx.Date})

	// Totals must be conserved; a drift here is a bug, not bad input.
	if !next.TotalShares().Equal(reg.TotalShares()) {
		return nil, nil, computationErr("secondary sale changed total shares outstanding")
	}

	result.SellerAfter = PercentOf(next.Holder(tx.Seller).Shares(), fd)
	result.BuyerAfter = PercentOf(next.Holder(tx.Buyer).Shares(), fd)
	return next, result, nil
}
