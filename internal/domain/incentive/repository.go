package incentive

import (
	"context"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
)

type SlabRepository interface {
	ListActive(ctx context.Context) ([]Slab, error)
	// ReplaceActive deactivates the current set and inserts slabs.
	ReplaceActive(ctx context.Context, slabs []Slab) ([]Slab, error)
}

type LoanTypeRepository interface {
	Create(ctx context.Context, loanType LoanType) (LoanType, error)
	GetByID(ctx context.Context, id string) (LoanType, error)
	List(ctx context.Context) ([]LoanType, error)
}

type LeadRepository interface {
	Create(ctx context.Context, lead Lead) (Lead, error)
	GetByIDForUpdate(ctx context.Context, id string) (Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus, disbursedAt *time.Time) (Lead, error)
	// ListDisbursed returns leads disbursed in [from, to) with loan type points joined.
	ListDisbursed(ctx context.Context, employeeID string, from, to time.Time) ([]Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]Lead, int64, error)
	// ListCreatedBetween returns leads created in [from, to) in any status.
	ListCreatedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Lead, error)
}

type CalculationRepository interface {
	Upsert(ctx context.Context, calc Calculation) (Calculation, error)
	// Get returns ErrCalculationNotFound when nothing is stored for the month.
	Get(ctx context.Context, employeeID string, month time.Time) (Calculation, error)
	ListByMonth(ctx context.Context, month time.Time, employeeID *string) ([]Calculation, error)
}

type TargetRepository interface {
	Upsert(ctx context.Context, target Target) (Target, error)
	// CreateIfAbsent reports false when the employee already has a target for the month.
	CreateIfAbsent(ctx context.Context, target Target) (bool, error)
	ListByMonth(ctx context.Context, month time.Time, employeeID *string) ([]Target, error)
}

// AttendanceReader is the slice of call attendance the incentive checks read.
type AttendanceReader interface {
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]callattendance.CallAttendance, error)
}
