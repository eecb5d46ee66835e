package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type incentiveCalculationRepositoryImpl struct {
	db *database.DB
}

func NewIncentiveCalculationRepository(db *database.DB) incentive.CalculationRepository {
	return &incentiveCalculationRepositoryImpl{db: db}
}

const calculationColumns = `
	id, employee_id, month, total_disbursed_amount, total_points,
	incentive_amount, waiver_percentage, final_incentive, calculated_at
`

func scanCalculation(row pgx.Row) (incentive.Calculation, error) {
	var c incentive.Calculation
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.Month, &c.TotalDisbursedAmount, &c.TotalPoints,
		&c.IncentiveAmount, &c.WaiverPercentage, &c.FinalIncentive, &c.CalculatedAt,
	)
	return c, err
}

// Upsert implements incentive.CalculationRepository.
func (r *incentiveCalculationRepositoryImpl) Upsert(ctx context.Context, c incentive.Calculation) (incentive.Calculation, error) {
	q := GetQuerier(ctx, r.db)
	err := q.QueryRow(ctx, `
		INSERT INTO incentive_calculations (
			employee_id, month, total_disbursed_amount, total_points,
			incentive_amount, waiver_percentage, final_incentive, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, month) DO UPDATE SET
			total_disbursed_amount = EXCLUDED.total_disbursed_amount,
			total_points = EXCLUDED.total_points,
			incentive_amount = EXCLUDED.incentive_amount,
			waiver_percentage = EXCLUDED.waiver_percentage,
			final_incentive = EXCLUDED.final_incentive,
			calculated_at = EXCLUDED.calculated_at
		RETURNING id
	`, c.EmployeeID, c.Month, c.TotalDisbursedAmount, c.TotalPoints,
		c.IncentiveAmount, c.WaiverPercentage, c.FinalIncentive, c.CalculatedAt,
	).Scan(&c.ID)
	if err != nil {
		return incentive.Calculation{}, fmt.Errorf("failed to upsert incentive calculation: %w", err)
	}
	return c, nil
}

// Get implements incentive.CalculationRepository.
func (r *incentiveCalculationRepositoryImpl) Get(ctx context.Context, employeeID string, month time.Time) (incentive.Calculation, error) {
	if !isUUID(employeeID) {
		return incentive.Calculation{}, incentive.ErrCalculationNotFound
	}

	q := GetQuerier(ctx, r.db)
	c, err := scanCalculation(q.QueryRow(ctx, `
		SELECT `+calculationColumns+`
		FROM incentive_calculations
		WHERE employee_id = $1 AND month = $2
	`, employeeID, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return incentive.Calculation{}, incentive.ErrCalculationNotFound
		}
		return incentive.Calculation{}, fmt.Errorf("failed to get incentive calculation: %w", err)
	}
	return c, nil
}

// ListByMonth implements incentive.CalculationRepository.
func (r *incentiveCalculationRepositoryImpl) ListByMonth(ctx context.Context, month time.Time, employeeID *string) ([]incentive.Calculation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + calculationColumns + ` FROM incentive_calculations WHERE month = $1`
	args := []interface{}{month}
	if employeeID != nil {
		if !isUUID(*employeeID) {
			return nil, nil
		}
		query += ` AND employee_id = $2`
		args = append(args, *employeeID)
	}
	query += ` ORDER BY final_incentive DESC, employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incentive calculations: %w", err)
	}
	defer rows.Close()

	var out []incentive.Calculation
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incentive calculation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
