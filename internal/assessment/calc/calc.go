// Package calc holds the pure tax arithmetic. Every function is a plain
// decimal computation with no I/O so the rules stay independently testable.
package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Flat applies a percentage rate to a base: base * rate / 100, rounded
// to cents.
func Flat(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred).Round(2)
}

// PresumedBase reduces gross revenue to the presumed profit base, with a
// separate presumption percentage per revenue category.
func PresumedBase(consultations, other, presumptionConsultations, presumptionOther decimal.Decimal) decimal.Decimal {
	c := consultations.Mul(presumptionConsultations).Div(hundred)
	o := other.Mul(presumptionOther).Div(hundred)
	return c.Add(o).Round(2)
}

// Payable nets withholdings against the amount due, floored at zero.
// Excess withholding never produces a negative payable.
func Payable(due, withheld decimal.Decimal) decimal.Decimal {
	p := due.Sub(withheld)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p.Round(2)
}

// Additional computes the surtax on the slice of the presumed base above
// the threshold. Zero when the base does not exceed it.
func Additional(base, threshold, rate decimal.Decimal) decimal.Decimal {
	excess := base.Sub(threshold)
	if !excess.IsPositive() {
		return decimal.Zero
	}
	return Flat(excess, rate)
}

// Apportion splits a company-level amount by the partner's share of the
// company base. A zero company base yields a zero share regardless of
// the partner base.
func Apportion(amount, partnerBase, companyBase decimal.Decimal) decimal.Decimal {
	if companyBase.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(partnerBase).Div(companyBase).Round(2)
}
