package finance

// Totals accumulates dealer cost and list price across equipment lines.
type Totals struct {
	Dealer Money `json:"dealer"`
	MSRP   Money `json:"msrp"`
}

// NewTotals returns zero totals in currency.
func NewTotals(currency string) Totals {
	return Totals{Dealer: NewMoney(0, currency), MSRP: NewMoney(0, currency)}
}

// AddLine adds qty units priced at dealer/msrp major-unit amounts.
func (t *Totals) AddLine(dealer, msrp float64, qty int) error {
	d, err := t.Dealer.Add(FromMajor(dealer, t.Dealer.Currency).Mul(qty))
	if err != nil {
		return err
	}
	m, err := t.MSRP.Add(FromMajor(msrp, t.MSRP.Currency).Mul(qty))
	if err != nil {
		return err
	}
	t.Dealer, t.MSRP = d, m
	return nil
}

// Margin returns MSRP minus dealer cost.
func (t Totals) Margin() Money {
	m, _ := t.MSRP.Sub(t.Dealer)
	return m
}

// MarginBasisPoints returns the margin as basis points of MSRP, 0 when MSRP is zero.
func (t Totals) MarginBasisPoints() int64 {
	if t.MSRP.AmountMinor == 0 {
		return 0
	}
	return t.Margin().AmountMinor * 10000 / t.MSRP.AmountMinor
}
