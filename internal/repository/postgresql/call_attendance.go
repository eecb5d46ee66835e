package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type callAttendanceRepositoryImpl struct {
	db *database.DB
}

func NewCallAttendanceRepository(db *database.DB) callattendance.CallAttendanceRepository {
	return &callAttendanceRepositoryImpl{db: db}
}

const callAttendanceColumns = `
	ca.id, ca.employee_id, ca.attendance_date, ca.call_duration_minutes, ca.call_count,
	ca.status, ca.source, ca.manual_reason, ca.updated_by, ca.created_at, ca.updated_at
`

func scanCallAttendance(row pgx.Row, withName bool) (callattendance.CallAttendance, error) {
	var a callattendance.CallAttendance
	dest := []interface{}{
		&a.ID, &a.EmployeeID, &a.AttendanceDate, &a.DurationMinutes, &a.CallCount,
		&a.Status, &a.Source, &a.ManualReason, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
	}
	if withName {
		dest = append(dest, &a.EmployeeName)
	}
	err := row.Scan(dest...)
	return a, err
}

// LockDate implements callattendance.CallAttendanceRepository.
func (r *callAttendanceRepositoryImpl) LockDate(ctx context.Context, date time.Time) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('call_attendance:' || $1::text))`, date.Format(validator.DateLayout))
	return err
}

// ListByDate implements callattendance.CallAttendanceRepository.
func (r *callAttendanceRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]callattendance.CallAttendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + callAttendanceColumns + ` FROM call_attendances ca WHERE ca.attendance_date = $1`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query call attendances: %w", err)
	}
	defer rows.Close()

	var out []callattendance.CallAttendance
	for rows.Next() {
		a, err := scanCallAttendance(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call attendance: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertAuto implements callattendance.CallAttendanceRepository. The WHERE on
// the conflict branch keeps a MANUAL row even if it was written after the
// caller last read the key.
func (r *callAttendanceRepositoryImpl) UpsertAuto(ctx context.Context, a callattendance.CallAttendance) (bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO call_attendances (employee_id, attendance_date, call_duration_minutes, call_count, status, source)
		VALUES ($1, $2, $3, $4, $5, 'AUTO')
		ON CONFLICT (employee_id, attendance_date) DO UPDATE SET
			call_duration_minutes = EXCLUDED.call_duration_minutes,
			call_count = EXCLUDED.call_count,
			status = EXCLUDED.status,
			source = 'AUTO',
			manual_reason = NULL,
			updated_by = NULL,
			updated_at = NOW()
		WHERE call_attendances.source <> 'MANUAL'
	`

	tag, err := q.Exec(ctx, query, a.EmployeeID, a.AttendanceDate, a.DurationMinutes, a.CallCount, a.Status)
	if err != nil {
		return false, fmt.Errorf("failed to upsert call attendance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetOrCreateForUpdate implements callattendance.CallAttendanceRepository.
func (r *callAttendanceRepositoryImpl) GetOrCreateForUpdate(ctx context.Context, employeeID string, date time.Time) (callattendance.CallAttendance, error) {
	q := GetQuerier(ctx, r.db)

	def := callattendance.NewDefaultAttendance(employeeID, date)
	_, err := q.Exec(ctx, `
		INSERT INTO call_attendances (employee_id, attendance_date, call_duration_minutes, call_count, status, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, attendance_date) DO NOTHING
	`, def.EmployeeID, def.AttendanceDate, def.DurationMinutes, def.CallCount, def.Status, def.Source)
	if err != nil {
		return callattendance.CallAttendance{}, fmt.Errorf("failed to materialise call attendance: %w", err)
	}

	query := `SELECT ` + callAttendanceColumns + `
		FROM call_attendances ca
		WHERE ca.employee_id = $1 AND ca.attendance_date = $2
		FOR UPDATE`
	a, err := scanCallAttendance(q.QueryRow(ctx, query, employeeID, date), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return callattendance.CallAttendance{}, callattendance.ErrAttendanceNotFound
		}
		return callattendance.CallAttendance{}, fmt.Errorf("failed to lock call attendance: %w", err)
	}
	return a, nil
}

// UpdateManual implements callattendance.CallAttendanceRepository.
func (r *callAttendanceRepositoryImpl) UpdateManual(ctx context.Context, a callattendance.CallAttendance) (callattendance.CallAttendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE call_attendances SET
			call_duration_minutes = $2,
			call_count = $3,
			status = $4,
			source = $5,
			manual_reason = $6,
			updated_by = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.DurationMinutes, a.CallCount, a.Status, a.Source, a.ManualReason, a.UpdatedBy,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return callattendance.CallAttendance{}, callattendance.ErrAttendanceNotFound
		}
		return callattendance.CallAttendance{}, fmt.Errorf("failed to update call attendance: %w", err)
	}
	return a, nil
}

// List implements callattendance.CallAttendanceRepository.
func (r *callAttendanceRepositoryImpl) List(ctx context.Context, filter callattendance.AttendanceFilter) ([]callattendance.CallAttendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		if !isUUID(*filter.EmployeeID) {
			return nil, 0, nil
		}
		baseWhere += fmt.Sprintf(" AND ca.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND ca.attendance_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND ca.attendance_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND ca.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Source != nil && *filter.Source != "" {
		baseWhere += fmt.Sprintf(" AND ca.source = $%d", argIdx)
		args = append(args, *filter.Source)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM call_attendances ca WHERE ` + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count call attendances: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, e.full_name
		FROM call_attendances ca
		LEFT JOIN employees e ON e.id = ca.employee_id
		WHERE %s
		ORDER BY ca.attendance_date DESC, e.full_name, ca.employee_id
		LIMIT $%d OFFSET $%d
	`, callAttendanceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query call attendances: %w", err)
	}
	defer rows.Close()

	var out []callattendance.CallAttendance
	for rows.Next() {
		a, err := scanCallAttendance(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan call attendance: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// ListByEmployeeAndRange implements callattendance.CallAttendanceRepository.
func (r *callAttendanceRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]callattendance.CallAttendance, error) {
	if !isUUID(employeeID) {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + callAttendanceColumns + `
		FROM call_attendances ca
		WHERE ca.employee_id = $1 AND ca.attendance_date BETWEEN $2 AND $3
		ORDER BY ca.attendance_date`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query call attendances: %w", err)
	}
	defer rows.Close()

	var out []callattendance.CallAttendance
	for rows.Next() {
		a, err := scanCallAttendance(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call attendance: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByDate implements callattendance.CallAttendanceRepository.
func (r *callAttendanceRepositoryImpl) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM call_attendances WHERE attendance_date = $1`, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count call attendances: %w", err)
	}
	return count, nil
}

// LastAutoUpdatedAt implements callattendance.CallAttendanceRepository.
func (r *callAttendanceRepositoryImpl) LastAutoUpdatedAt(ctx context.Context) (*time.Time, error) {
	q := GetQuerier(ctx, r.db)

	var last *time.Time
	if err := q.QueryRow(ctx, `SELECT MAX(updated_at) FROM call_attendances WHERE source = 'AUTO'`).Scan(&last); err != nil {
		return nil, fmt.Errorf("failed to get last auto calculation: %w", err)
	}
	return last, nil
}
