package section

import "math"

// DownPaymentCents is the down payment implied by the configured percent.
func (c *MortgageCalculatorConfig) DownPaymentCents() int64 {
	return int64(math.Round(float64(c.PriceCents) * c.DownPaymentPercent / 100))
}

// MonthlyPaymentCents is the principal-and-interest payment on the
// financed amount using the standard amortisation formula.  A zero rate
// divides principal evenly across the term.
func (c *MortgageCalculatorConfig) MonthlyPaymentCents() int64 {
	principal := float64(c.PriceCents - c.DownPaymentCents())
	n := float64(c.TermYears * 12)
	if principal <= 0 || n <= 0 {
		return 0
	}
	r := c.InterestRate / 100 / 12
	if r == 0 {
		return int64(math.Round(principal / n))
	}
	f := math.Pow(1+r, n)
	return int64(math.Round(principal * r * f / (f - 1)))
}
