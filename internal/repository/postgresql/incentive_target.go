package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type incentiveTargetRepositoryImpl struct {
	db *database.DB
}

func NewIncentiveTargetRepository(db *database.DB) incentive.TargetRepository {
	return &incentiveTargetRepositoryImpl{db: db}
}

const targetColumns = `
	id, employee_id, month, target_amount, auto_target_amount,
	final_target_amount, created_at, updated_at
`

func scanTarget(row pgx.Row) (incentive.Target, error) {
	var t incentive.Target
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.Month, &t.TargetAmount, &t.AutoTargetAmount,
		&t.FinalTargetAmount, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Upsert implements incentive.TargetRepository.
func (r *incentiveTargetRepositoryImpl) Upsert(ctx context.Context, t incentive.Target) (incentive.Target, error) {
	q := GetQuerier(ctx, r.db)
	err := q.QueryRow(ctx, `
		INSERT INTO incentive_targets (employee_id, month, target_amount, auto_target_amount, final_target_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, month) DO UPDATE SET
			target_amount = EXCLUDED.target_amount,
			auto_target_amount = EXCLUDED.auto_target_amount,
			final_target_amount = EXCLUDED.final_target_amount,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, t.EmployeeID, t.Month, t.TargetAmount, t.AutoTargetAmount, t.FinalTargetAmount,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return incentive.Target{}, employee.ErrEmployeeNotFound
		}
		return incentive.Target{}, fmt.Errorf("failed to upsert incentive target: %w", err)
	}
	return t, nil
}

// CreateIfAbsent implements incentive.TargetRepository.
func (r *incentiveTargetRepositoryImpl) CreateIfAbsent(ctx context.Context, t incentive.Target) (bool, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		INSERT INTO incentive_targets (employee_id, month, target_amount, auto_target_amount, final_target_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, month) DO NOTHING
	`, t.EmployeeID, t.Month, t.TargetAmount, t.AutoTargetAmount, t.FinalTargetAmount)
	if err != nil {
		return false, fmt.Errorf("failed to create incentive target: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByMonth implements incentive.TargetRepository.
func (r *incentiveTargetRepositoryImpl) ListByMonth(ctx context.Context, month time.Time, employeeID *string) ([]incentive.Target, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + targetColumns + ` FROM incentive_targets WHERE month = $1`
	args := []interface{}{month}
	if employeeID != nil {
		if !isUUID(*employeeID) {
			return nil, nil
		}
		query += ` AND employee_id = $2`
		args = append(args, *employeeID)
	}
	query += ` ORDER BY final_target_amount DESC, employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incentive targets: %w", err)
	}
	defer rows.Close()

	var out []incentive.Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incentive target: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
