package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
)

type incentiveSlabRepositoryImpl struct {
	db *database.DB
}

func NewIncentiveSlabRepository(db *database.DB) incentive.SlabRepository {
	return &incentiveSlabRepositoryImpl{db: db}
}

// ListActive implements incentive.SlabRepository.
func (r *incentiveSlabRepositoryImpl) ListActive(ctx context.Context) ([]incentive.Slab, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, min_amount, max_amount, rate_per_lac, is_active, created_at
		FROM incentive_slabs
		WHERE is_active
		ORDER BY min_amount
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query incentive slabs: %w", err)
	}
	defer rows.Close()

	var slabs []incentive.Slab
	for rows.Next() {
		var s incentive.Slab
		if err := rows.Scan(&s.ID, &s.MinAmount, &s.MaxAmount, &s.RatePerLac, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan incentive slab: %w", err)
		}
		slabs = append(slabs, s)
	}
	return slabs, rows.Err()
}

// ReplaceActive implements incentive.SlabRepository. Old slabs stay as
// inactive history; callers run it inside a transaction.
func (r *incentiveSlabRepositoryImpl) ReplaceActive(ctx context.Context, slabs []incentive.Slab) ([]incentive.Slab, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE incentive_slabs SET is_active = FALSE WHERE is_active`); err != nil {
		return nil, fmt.Errorf("failed to deactivate incentive slabs: %w", err)
	}

	saved := make([]incentive.Slab, 0, len(slabs))
	for _, s := range slabs {
		s.IsActive = true
		err := q.QueryRow(ctx, `
			INSERT INTO incentive_slabs (min_amount, max_amount, rate_per_lac, is_active)
			VALUES ($1, $2, $3, TRUE)
			RETURNING id, created_at
		`, s.MinAmount, s.MaxAmount, s.RatePerLac).Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert incentive slab: %w", err)
		}
		saved = append(saved, s)
	}
	return saved, nil
}
