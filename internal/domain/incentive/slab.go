package incentive

import (
	"fmt"
	"sort"

	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// SortSlabs orders slabs ascending by MinAmount in place.
func SortSlabs(slabs []Slab) {
	sort.SliceStable(slabs, func(i, j int) bool {
		return slabs[i].MinAmount.LessThan(slabs[j].MinAmount)
	})
}

// ValidateSlabSet enforces the shape an edited slab set must keep: positive
// rates, min > 0, max >= min, contiguous bands with next.min == prev.max + 1,
// and only the last slab unbounded. slabs must already be sorted.
func ValidateSlabSet(slabs []Slab) error {
	var errs validator.ValidationErrors

	if len(slabs) == 0 {
		errs.Add("slabs", "at least one slab is required")
		return errs
	}

	one := decimal.NewFromInt(1)
	for i, s := range slabs {
		field := fmt.Sprintf("slabs[%d]", i)

		if !s.MinAmount.IsPositive() {
			errs.Add(field+".min_amount", "must be greater than 0")
		}
		if !s.RatePerLac.IsPositive() {
			errs.Add(field+".rate_per_lac", "must be greater than 0")
		}
		if s.MaxAmount != nil && s.MaxAmount.LessThan(s.MinAmount) {
			errs.Add(field+".max_amount", "must be greater than or equal to min_amount")
		}
		if s.MaxAmount == nil && i != len(slabs)-1 {
			errs.Add(field+".max_amount", "only the last slab may be unbounded")
		}

		if i > 0 {
			prev := slabs[i-1]
			if prev.MaxAmount != nil && !s.MinAmount.Equal(prev.MaxAmount.Add(one)) {
				errs.Add(field+".min_amount", fmt.Sprintf("must be %s to continue the previous slab", prev.MaxAmount.Add(one)))
			}
		}
	}

	return errs.Err()
}
