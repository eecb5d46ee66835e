package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }
func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

// ==========================================
// DEFAULT ATTENDANCE THRESHOLDS
// ==========================================

// DefaultAttendanceConfig returns the thresholds used before any admin edit
func DefaultAttendanceConfig() callattendance.Config {
	return callattendance.Config{
		FullDayMinutes:         callattendance.DefaultFullDayMinutes,
		HalfDayMinutes:         callattendance.DefaultHalfDayMinutes,
		AbsentThresholdMinutes: callattendance.DefaultAbsentThresholdMinutes,
	}
}

// ==========================================
// DEFAULT INCENTIVE SLABS
// ==========================================

// DefaultIncentiveSlabs returns the standard disbursal slabs in Lac
func DefaultIncentiveSlabs() []incentive.Slab {
	rows := []struct {
		min, max, rate string
	}{
		{"1", "5", "300"},
		{"6", "10", "400"},
		{"11", "15", "500"},
		{"16", "20", "600"},
		{"21", "25", "700"},
		{"26", "30", "750"},
		{"31", "35", "800"},
		{"36", "40", "850"},
		{"41", "45", "900"},
		{"46", "50", "950"},
		{"51", "", "1000"}, // unbounded top slab
	}

	slabs := make([]incentive.Slab, 0, len(rows))
	for _, r := range rows {
		s := incentive.Slab{MinAmount: dec(r.min), RatePerLac: dec(r.rate), IsActive: true}
		if r.max != "" {
			s.MaxAmount = decPtr(r.max)
		}
		slabs = append(slabs, s)
	}
	return slabs
}

// ==========================================
// DEFAULT LOAN TYPES
// ==========================================

// DefaultLoanTypes returns loan categories with their points per Lac
func DefaultLoanTypes() []incentive.LoanType {
	return []incentive.LoanType{
		{Name: "Home Loan", PointsPerLac: dec("0.2"), IsActive: true},
		{Name: "Loan Against Property", PointsPerLac: dec("0.3"), IsActive: true},
		{Name: "Commercial Vehicle", PointsPerLac: dec("0.2"), IsActive: true},
		{Name: "Personal Loan", PointsPerLac: dec("1.0"), IsActive: true},
		{Name: "Business Loan", PointsPerLac: dec("1.0"), IsActive: true},
		{Name: "Used Car Loan", PointsPerLac: dec("1.0"), IsActive: true},
		{Name: "New Car Loan", PointsPerLac: dec("0.2"), IsActive: true},
	}
}

// ==========================================
// SEEDER
// ==========================================

// Seeder fills empty tables with the defaults above. Existing data is never touched.
type Seeder struct {
	tx        database.Transactor
	configs   callattendance.ConfigRepository
	slabs     incentive.SlabRepository
	loanTypes incentive.LoanTypeRepository
}

func NewSeeder(
	tx database.Transactor,
	configs callattendance.ConfigRepository,
	slabs incentive.SlabRepository,
	loanTypes incentive.LoanTypeRepository,
) *Seeder {
	return &Seeder{tx: tx, configs: configs, slabs: slabs, loanTypes: loanTypes}
}

func (s *Seeder) Seed(ctx context.Context) error {
	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.seedConfig(txCtx); err != nil {
			return err
		}
		if err := s.seedSlabs(txCtx); err != nil {
			return err
		}
		return s.seedLoanTypes(txCtx)
	})
}

func (s *Seeder) seedConfig(ctx context.Context) error {
	existing, err := s.configs.List(ctx)
	if err != nil {
		return fmt.Errorf("list attendance configs: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	created, err := s.configs.Create(ctx, DefaultAttendanceConfig())
	if err != nil {
		return fmt.Errorf("create default attendance config: %w", err)
	}
	if err := s.configs.SetActive(ctx, created.ID); err != nil {
		return fmt.Errorf("activate default attendance config: %w", err)
	}
	slog.Info("seeded default attendance config", "config_id", created.ID)
	return nil
}

func (s *Seeder) seedSlabs(ctx context.Context) error {
	active, err := s.slabs.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list incentive slabs: %w", err)
	}
	if len(active) > 0 {
		return nil
	}

	if _, err := s.slabs.ReplaceActive(ctx, DefaultIncentiveSlabs()); err != nil {
		return fmt.Errorf("create default incentive slabs: %w", err)
	}
	slog.Info("seeded default incentive slabs")
	return nil
}

func (s *Seeder) seedLoanTypes(ctx context.Context) error {
	existing, err := s.loanTypes.List(ctx)
	if err != nil {
		return fmt.Errorf("list loan types: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, lt := range DefaultLoanTypes() {
		if _, err := s.loanTypes.Create(ctx, lt); err != nil && !errors.Is(err, incentive.ErrLoanTypeNameExists) {
			return fmt.Errorf("create loan type %s: %w", lt.Name, err)
		}
	}
	slog.Info("seeded default loan types", "count", len(DefaultLoanTypes()))
	return nil
}
