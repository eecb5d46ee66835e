package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
)

type callAttendanceAuditRepositoryImpl struct {
	db *database.DB
}

// NewCallAttendanceAuditRepository returns an append-only audit store. Rows
// leave the table only through DeleteOlderThan.
func NewCallAttendanceAuditRepository(db *database.DB) callattendance.AuditRepository {
	return &callAttendanceAuditRepositoryImpl{db: db}
}

// Append implements callattendance.AuditRepository.
func (r *callAttendanceAuditRepositoryImpl) Append(ctx context.Context, a callattendance.Audit) (callattendance.Audit, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO call_attendance_audits (
			id, call_attendance_id, employee_id, attendance_date,
			old_call_duration_minutes, old_call_count, old_status,
			new_call_duration_minutes, new_call_count, new_status,
			reason, updated_by, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := q.Exec(ctx, query,
		a.ID, a.CallAttendanceID, a.EmployeeID, a.AttendanceDate,
		a.Old.DurationMinutes, a.Old.CallCount, a.Old.Status,
		a.New.DurationMinutes, a.New.CallCount, a.New.Status,
		a.Reason, a.UpdatedBy, a.IPAddress, a.UserAgent, a.Timestamp,
	)
	if err != nil {
		return callattendance.Audit{}, fmt.Errorf("failed to insert audit: %w", err)
	}
	return a, nil
}

// List implements callattendance.AuditRepository. Newest first.
func (r *callAttendanceAuditRepositoryImpl) List(ctx context.Context, filter callattendance.AuditFilter) ([]callattendance.Audit, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		if !isUUID(*filter.EmployeeID) {
			return nil, 0, nil
		}
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND attendance_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND attendance_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM call_attendance_audits WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audits: %w", err)
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
		SELECT id, call_attendance_id, employee_id, attendance_date,
			old_call_duration_minutes, old_call_count, old_status,
			new_call_duration_minutes, new_call_count, new_status,
			reason, updated_by, ip_address, user_agent, created_at
		FROM call_attendance_audits
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()

	var out []callattendance.Audit
	for rows.Next() {
		var a callattendance.Audit
		if err := rows.Scan(
			&a.ID, &a.CallAttendanceID, &a.EmployeeID, &a.AttendanceDate,
			&a.Old.DurationMinutes, &a.Old.CallCount, &a.Old.Status,
			&a.New.DurationMinutes, &a.New.CallCount, &a.New.Status,
			&a.Reason, &a.UpdatedBy, &a.IPAddress, &a.UserAgent, &a.Timestamp,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// DeleteOlderThan implements callattendance.AuditRepository.
func (r *callAttendanceAuditRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM call_attendance_audits WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audits: %w", err)
	}
	return tag.RowsAffected(), nil
}
