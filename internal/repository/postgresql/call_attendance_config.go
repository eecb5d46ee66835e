package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type callAttendanceConfigRepositoryImpl struct {
	db *database.DB
}

func NewCallAttendanceConfigRepository(db *database.DB) callattendance.ConfigRepository {
	return &callAttendanceConfigRepositoryImpl{db: db}
}

const configSelect = `
	SELECT c.id, c.version, c.full_day_minutes, c.half_day_minutes, c.absent_threshold_minutes,
		(ac.config_id IS NOT NULL) AS is_active, c.created_by, c.created_at
	FROM call_attendance_configs c
	LEFT JOIN call_attendance_active_config ac ON ac.config_id = c.id
`

func scanConfig(row pgx.Row) (callattendance.Config, error) {
	var c callattendance.Config
	err := row.Scan(
		&c.ID, &c.Version, &c.FullDayMinutes, &c.HalfDayMinutes, &c.AbsentThresholdMinutes,
		&c.IsActive, &c.CreatedBy, &c.CreatedAt,
	)
	return c, err
}

// Create implements callattendance.ConfigRepository.
func (r *callAttendanceConfigRepositoryImpl) Create(ctx context.Context, cfg callattendance.Config) (callattendance.Config, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO call_attendance_configs (version, full_day_minutes, half_day_minutes, absent_threshold_minutes, created_by)
		SELECT COALESCE(MAX(version), 0) + 1, $1, $2, $3, $4 FROM call_attendance_configs
		RETURNING id, version, created_at
	`

	err := q.QueryRow(ctx, query,
		cfg.FullDayMinutes, cfg.HalfDayMinutes, cfg.AbsentThresholdMinutes, cfg.CreatedBy,
	).Scan(&cfg.ID, &cfg.Version, &cfg.CreatedAt)
	if err != nil {
		return callattendance.Config{}, fmt.Errorf("failed to insert attendance config: %w", err)
	}
	cfg.IsActive = false
	return cfg, nil
}

// GetByID implements callattendance.ConfigRepository.
func (r *callAttendanceConfigRepositoryImpl) GetByID(ctx context.Context, id string) (callattendance.Config, error) {
	if !isUUID(id) {
		return callattendance.Config{}, callattendance.ErrConfigNotFound
	}

	q := GetQuerier(ctx, r.db)
	cfg, err := scanConfig(q.QueryRow(ctx, configSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return callattendance.Config{}, callattendance.ErrConfigNotFound
		}
		return callattendance.Config{}, fmt.Errorf("failed to get attendance config: %w", err)
	}
	return cfg, nil
}

// GetActive implements callattendance.ConfigRepository.
func (r *callAttendanceConfigRepositoryImpl) GetActive(ctx context.Context) (callattendance.Config, error) {
	q := GetQuerier(ctx, r.db)
	cfg, err := scanConfig(q.QueryRow(ctx, configSelect+` WHERE ac.config_id IS NOT NULL`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return callattendance.Config{}, callattendance.ErrNoActiveConfig
		}
		return callattendance.Config{}, fmt.Errorf("failed to get active attendance config: %w", err)
	}
	return cfg, nil
}

// SetActive implements callattendance.ConfigRepository. The pointer row is
// swapped in a single statement so there is never zero or two active configs.
func (r *callAttendanceConfigRepositoryImpl) SetActive(ctx context.Context, id string) error {
	if !isUUID(id) {
		return callattendance.ErrConfigNotFound
	}

	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO call_attendance_active_config (singleton, config_id, activated_at)
		VALUES (TRUE, $1, NOW())
		ON CONFLICT (singleton) DO UPDATE SET
			config_id = EXCLUDED.config_id,
			activated_at = EXCLUDED.activated_at
	`
	if _, err := q.Exec(ctx, query, id); err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return callattendance.ErrConfigNotFound
		}
		return fmt.Errorf("failed to set active attendance config: %w", err)
	}
	return nil
}

// List implements callattendance.ConfigRepository.
func (r *callAttendanceConfigRepositoryImpl) List(ctx context.Context) ([]callattendance.Config, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, configSelect+` ORDER BY c.version DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance configs: %w", err)
	}
	defer rows.Close()

	var out []callattendance.Config
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance config: %w", err)
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}
