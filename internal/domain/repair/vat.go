package repair

import "math"

// Default revenue split used at item creation and as the fallback when an
// item has no prior split to preserve.
const (
	DefaultWithoutVATShare = 0.8
	DefaultVATShare        = 0.2
)

// Epsilon is the tolerance for the SumWithoutVAT + VATAmount == Revenue
// invariant under floating arithmetic.
const Epsilon = 1e-6

// DefaultSplit applies the fixed 80/20 split to a revenue amount.
func DefaultSplit(revenue float64) (withoutVAT, vat float64) {
	return revenue * DefaultWithoutVATShare, revenue * DefaultVATShare
}

// SetRevenue changes the item's revenue and re-derives the split. When the
// prior revenue is non-zero the prior VAT and without-VAT ratios are scaled
// onto the new amount, so a custom tax split survives a price edit; a zero
// prior revenue falls back to the default split.
func (it *RepairItem) SetRevenue(revenue float64) {
	if it.Revenue != 0 {
		vatRatio := it.VATAmount / it.Revenue
		withoutRatio := it.SumWithoutVAT / it.Revenue
		it.VATAmount = revenue * vatRatio
		it.SumWithoutVAT = revenue * withoutRatio
	} else {
		it.SumWithoutVAT, it.VATAmount = DefaultSplit(revenue)
	}
	it.Revenue = revenue
}

// SetRevenueExempt sets revenue with a zero-VAT split (labor cards).
func (it *RepairItem) SetRevenueExempt(revenue float64) {
	it.Revenue = revenue
	it.SumWithoutVAT = revenue
	it.VATAmount = 0
}

// SplitConsistent reports whether the derived split still adds up to revenue.
func (it *RepairItem) SplitConsistent() bool {
	return math.Abs(it.SumWithoutVAT+it.VATAmount-it.Revenue) < Epsilon
}
