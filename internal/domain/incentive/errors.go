package incentive

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks slab sets that cannot be used until an admin fixes them.
var ErrConfiguration = errors.New("incentive configuration error")

var (
	ErrNoActiveSlabs  = fmt.Errorf("%w: no active incentive slabs", ErrConfiguration)
	ErrMalformedSlabs = fmt.Errorf("%w: incentive slabs are malformed", ErrConfiguration)

	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrInvalidWaiver     = errors.New("waiver percentage must be between 0 and 100")

	ErrLoanTypeNotFound    = errors.New("loan type not found")
	ErrLoanTypeNameExists  = errors.New("loan type name already exists")
	ErrLoanTypeInactive    = errors.New("loan type is inactive")
	ErrLeadNotFound        = errors.New("lead not found")
	ErrInvalidTransition   = errors.New("lead status transition not allowed")
	ErrCalculationNotFound = errors.New("incentive calculation not found")
)

var ErrInvalidDateRange = errors.New("end date must not be before start date")
