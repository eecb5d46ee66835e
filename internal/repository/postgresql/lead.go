package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type leadRepositoryImpl struct {
	db *database.DB
}

func NewLeadRepository(db *database.DB) incentive.LeadRepository {
	return &leadRepositoryImpl{db: db}
}

const leadColumns = `
	l.id, l.employee_id, l.loan_type_id, l.customer_name, l.loan_amount, l.status,
	l.disbursed_at, l.created_at, l.updated_at, lt.name, lt.points_per_lac
`

func scanLead(row pgx.Row) (incentive.Lead, error) {
	var l incentive.Lead
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.LoanTypeID, &l.CustomerName, &l.LoanAmount, &l.Status,
		&l.DisbursedAt, &l.CreatedAt, &l.UpdatedAt, &l.LoanTypeName, &l.PointsPerLac,
	)
	return l, err
}

// Create implements incentive.LeadRepository.
func (r *leadRepositoryImpl) Create(ctx context.Context, lead incentive.Lead) (incentive.Lead, error) {
	q := GetQuerier(ctx, r.db)
	err := q.QueryRow(ctx, `
		INSERT INTO leads (employee_id, loan_type_id, customer_name, loan_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, lead.EmployeeID, lead.LoanTypeID, lead.CustomerName, lead.LoanAmount, lead.Status,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return incentive.Lead{}, fmt.Errorf("failed to insert lead: %w", err)
	}
	return lead, nil
}

// GetByIDForUpdate implements incentive.LeadRepository.
func (r *leadRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (incentive.Lead, error) {
	if !isUUID(id) {
		return incentive.Lead{}, incentive.ErrLeadNotFound
	}

	q := GetQuerier(ctx, r.db)
	lead, err := scanLead(q.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		JOIN loan_types lt ON lt.id = l.loan_type_id
		WHERE l.id = $1
		FOR UPDATE OF l
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return incentive.Lead{}, incentive.ErrLeadNotFound
		}
		return incentive.Lead{}, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// UpdateStatus implements incentive.LeadRepository. A nil disbursedAt keeps
// the stored value.
func (r *leadRepositoryImpl) UpdateStatus(ctx context.Context, id string, status incentive.LeadStatus, disbursedAt *time.Time) (incentive.Lead, error) {
	q := GetQuerier(ctx, r.db)
	lead, err := scanLead(q.QueryRow(ctx, `
		WITH updated AS (
			UPDATE leads SET
				status = $2,
				disbursed_at = COALESCE($3, disbursed_at),
				updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+leadColumns+`
		FROM updated l
		JOIN loan_types lt ON lt.id = l.loan_type_id
	`, id, status, disbursedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return incentive.Lead{}, incentive.ErrLeadNotFound
		}
		return incentive.Lead{}, fmt.Errorf("failed to update lead status: %w", err)
	}
	return lead, nil
}

// ListDisbursed implements incentive.LeadRepository over [from, to).
func (r *leadRepositoryImpl) ListDisbursed(ctx context.Context, employeeID string, from, to time.Time) ([]incentive.Lead, error) {
	if !isUUID(employeeID) {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		JOIN loan_types lt ON lt.id = l.loan_type_id
		WHERE l.employee_id = $1
			AND l.status = 'DISBURSED'
			AND l.disbursed_at >= $2 AND l.disbursed_at < $3
		ORDER BY l.disbursed_at
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query disbursed leads: %w", err)
	}
	defer rows.Close()

	var out []incentive.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

// ListCreatedBetween implements incentive.LeadRepository.
func (r *leadRepositoryImpl) ListCreatedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]incentive.Lead, error) {
	if !isUUID(employeeID) {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		JOIN loan_types lt ON lt.id = l.loan_type_id
		WHERE l.employee_id = $1 AND l.created_at >= $2 AND l.created_at < $3
		ORDER BY l.created_at
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var out []incentive.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

// List implements incentive.LeadRepository.
func (r *leadRepositoryImpl) List(ctx context.Context, filter incentive.LeadFilter) ([]incentive.Lead, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		if !isUUID(*filter.EmployeeID) {
			return nil, 0, nil
		}
		baseWhere += fmt.Sprintf(" AND l.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND l.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Month != nil && *filter.Month != "" {
		if month, ok := validator.IsValidMonth(*filter.Month); ok {
			start, end := incentive.MonthRange(month)
			baseWhere += fmt.Sprintf(" AND l.created_at >= $%d AND l.created_at < $%d", argIdx, argIdx+1)
			args = append(args, start, end)
			argIdx += 2
		}
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leads l WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leads l
		JOIN loan_types lt ON lt.id = l.loan_type_id
		WHERE %s
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var out []incentive.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan lead: %w", err)
		}
		out = append(out, lead)
	}
	return out, total, rows.Err()
}
