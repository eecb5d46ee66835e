package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type loanTypeRepositoryImpl struct {
	db *database.DB
}

func NewLoanTypeRepository(db *database.DB) incentive.LoanTypeRepository {
	return &loanTypeRepositoryImpl{db: db}
}

// Create implements incentive.LoanTypeRepository.
func (r *loanTypeRepositoryImpl) Create(ctx context.Context, lt incentive.LoanType) (incentive.LoanType, error) {
	q := GetQuerier(ctx, r.db)
	err := q.QueryRow(ctx, `
		INSERT INTO loan_types (name, points_per_lac, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, lt.Name, lt.PointsPerLac, lt.IsActive).Scan(&lt.ID, &lt.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return incentive.LoanType{}, incentive.ErrLoanTypeNameExists
		}
		return incentive.LoanType{}, fmt.Errorf("failed to insert loan type: %w", err)
	}
	return lt, nil
}

// GetByID implements incentive.LoanTypeRepository.
func (r *loanTypeRepositoryImpl) GetByID(ctx context.Context, id string) (incentive.LoanType, error) {
	if !isUUID(id) {
		return incentive.LoanType{}, incentive.ErrLoanTypeNotFound
	}

	q := GetQuerier(ctx, r.db)
	var lt incentive.LoanType
	err := q.QueryRow(ctx, `
		SELECT id, name, points_per_lac, is_active, created_at
		FROM loan_types
		WHERE id = $1
	`, id).Scan(&lt.ID, &lt.Name, &lt.PointsPerLac, &lt.IsActive, &lt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return incentive.LoanType{}, incentive.ErrLoanTypeNotFound
		}
		return incentive.LoanType{}, fmt.Errorf("failed to get loan type: %w", err)
	}
	return lt, nil
}

// List implements incentive.LoanTypeRepository.
func (r *loanTypeRepositoryImpl) List(ctx context.Context) ([]incentive.LoanType, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, name, points_per_lac, is_active, created_at
		FROM loan_types
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan types: %w", err)
	}
	defer rows.Close()

	var out []incentive.LoanType
	for rows.Next() {
		var lt incentive.LoanType
		if err := rows.Scan(&lt.ID, &lt.Name, &lt.PointsPerLac, &lt.IsActive, &lt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan type: %w", err)
		}
		out = append(out, lt)
	}
	return out, rows.Err()
}
