package incentive

import (
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SlabCalculator computes tiered incentives: each slab's rate applies only
// to the part of the amount inside that slab.
type SlabCalculator struct {
}

func NewSlabCalculator() *SlabCalculator {
	return &SlabCalculator{}
}

func (c *SlabCalculator) Calculate(amountLac decimal.Decimal, slabs []incentive.Slab) (incentive.Breakdown, error) {
	if !amountLac.IsPositive() {
		return incentive.Breakdown{}, incentive.ErrNonPositiveAmount
	}
	if len(slabs) == 0 {
		return incentive.Breakdown{}, incentive.ErrNoActiveSlabs
	}

	sorted := make([]incentive.Slab, len(slabs))
	copy(sorted, slabs)
	incentive.SortSlabs(sorted)

	for _, s := range sorted {
		if !s.IsUnbounded() && !s.Width().IsPositive() {
			return incentive.Breakdown{}, incentive.ErrMalformedSlabs
		}
	}

	breakdown := incentive.Breakdown{AmountLac: amountLac, Total: decimal.Zero}
	if amountLac.LessThan(sorted[0].MinAmount) {
		return breakdown, nil
	}

	remaining := amountLac
	for _, s := range sorted {
		if !remaining.IsPositive() {
			break
		}

		portion := remaining
		if !s.IsUnbounded() {
			portion = decimal.Min(remaining, s.Width())
		}

		amount := portion.Mul(s.RatePerLac)
		breakdown.Lines = append(breakdown.Lines, incentive.BreakdownLine{
			Slab:      s,
			Portion:   portion,
			Incentive: amount,
		})
		breakdown.Total = breakdown.Total.Add(amount)
		remaining = remaining.Sub(portion)
	}

	return breakdown, nil
}

// ApplyWaiver discounts raw by waiverPercentage, which must lie in [0, 100].
func ApplyWaiver(raw, waiverPercentage decimal.Decimal) (decimal.Decimal, error) {
	if waiverPercentage.IsNegative() || waiverPercentage.GreaterThan(hundred) {
		return decimal.Zero, incentive.ErrInvalidWaiver
	}
	return raw.Mul(decimal.NewFromInt(1).Sub(waiverPercentage.Div(hundred))), nil
}
