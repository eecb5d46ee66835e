package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
)

type callLogRepositoryImpl struct {
	db *database.DB
}

func NewCallLogRepository(db *database.DB) callattendance.CallLogRepository {
	return &callLogRepositoryImpl{db: db}
}

// Upsert implements callattendance.CallLogRepository. xmax is zero only on
// rows this statement inserted.
func (r *callLogRepositoryImpl) Upsert(ctx context.Context, log callattendance.CallLog) (callattendance.CallLog, bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO call_logs (employee_id, call_date, call_duration_minutes, call_count, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, call_date) DO UPDATE SET
			call_duration_minutes = EXCLUDED.call_duration_minutes,
			call_count = EXCLUDED.call_count,
			source = EXCLUDED.source,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := q.QueryRow(ctx, query,
		log.EmployeeID, log.CallDate, log.DurationMinutes, log.CallCount, log.Source,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt, &inserted)
	if err != nil {
		return callattendance.CallLog{}, false, fmt.Errorf("failed to upsert call log: %w", err)
	}
	return log, inserted, nil
}

// ListByDate implements callattendance.CallLogRepository.
func (r *callLogRepositoryImpl) ListByDate(ctx context.Context, date time.Time, employeeID *string) ([]callattendance.CallLog, error) {
	q := GetQuerier(ctx, r.db)

	where := "cl.call_date = $1"
	args := []interface{}{date}
	if employeeID != nil {
		if !isUUID(*employeeID) {
			return nil, nil
		}
		where += " AND cl.employee_id = $2"
		args = append(args, *employeeID)
	}

	query := `
		SELECT cl.id, cl.employee_id, cl.call_date, cl.call_duration_minutes, cl.call_count,
			cl.source, cl.created_at, cl.updated_at, e.full_name
		FROM call_logs cl
		LEFT JOIN employees e ON e.id = cl.employee_id
		WHERE ` + where + `
		ORDER BY cl.employee_id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query call logs: %w", err)
	}
	defer rows.Close()

	var logs []callattendance.CallLog
	for rows.Next() {
		var log callattendance.CallLog
		if err := rows.Scan(
			&log.ID, &log.EmployeeID, &log.CallDate, &log.DurationMinutes, &log.CallCount,
			&log.Source, &log.CreatedAt, &log.UpdatedAt, &log.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan call log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
