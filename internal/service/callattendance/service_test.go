package callattendance

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday   = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	holiday  = time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	admin    = user.Actor{UserID: "u-admin", Role: user.RoleOwner, IsAdmin: true, IPAddress: "10.0.0.1", UserAgent: "test-agent"}
	teamLead = user.Actor{UserID: "u-tl", EmployeeID: strPtr("tl-1"), Role: user.RoleTeamLeader}
)

type testEnv struct {
	store *memStore
	svc   *CallAttendanceServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	for _, emp := range []employee.Employee{
		{ID: "emp-1", FullName: "Asha", EmploymentStatus: employee.EmploymentStatusActive, ReportingManagerID: strPtr("tl-1")},
		{ID: "emp-2", FullName: "Ravi", EmploymentStatus: employee.EmploymentStatusActive},
		{ID: "emp-3", FullName: "Meera", EmploymentStatus: employee.EmploymentStatusActive},
		{ID: "tl-1", FullName: "Lead", EmploymentStatus: employee.EmploymentStatusActive},
	} {
		store.employees[emp.ID] = emp
	}

	cal := calendar.New([]time.Weekday{time.Sunday}, calendar.Day{Date: holiday, Name: "Holi", Type: calendar.DayTypeHoliday})
	employees := employeeRepo{store}

	svc := NewCallAttendanceService(
		memTx{store},
		callLogRepo{store},
		attendanceRepo{store},
		configRepo{store},
		auditRepo{store},
		employees,
		cal,
		NewAuthorityChecker(employees),
		cache.NewMemoryGuard(time.Minute),
	).(*CallAttendanceServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }

	return &testEnv{store: store, svc: svc}
}

func (e *testEnv) activateDefaultConfig(t *testing.T) callattendance.ConfigResponse {
	t.Helper()
	cfg, err := e.svc.CreateConfig(context.Background(), admin, callattendance.CreateConfigRequest{
		FullDayMinutes:         intPtr(171),
		HalfDayMinutes:         intPtr(121),
		AbsentThresholdMinutes: intPtr(120),
		Activate:               true,
	})
	require.NoError(t, err)
	return cfg
}

func (e *testEnv) submit(t *testing.T, employeeID string, date time.Time, minutes, calls int) {
	t.Helper()
	_, _, err := e.svc.SubmitCallLog(context.Background(), callattendance.SubmitCallLogRequest{
		EmployeeID:          employeeID,
		CallDate:            date.Format(validator.DateLayout),
		CallDurationMinutes: intPtr(minutes),
		CallCount:           intPtr(calls),
	})
	require.NoError(t, err)
}

func (e *testEnv) record(employeeID string, date time.Time) (callattendance.CallAttendance, bool) {
	a, ok := e.store.attendance[key(employeeID, date)]
	return a, ok
}

func manualRequest(employeeID string, date time.Time, minutes, calls int, reason string) callattendance.ManualUpdateRequest {
	return callattendance.ManualUpdateRequest{
		EmployeeID:          employeeID,
		AttendanceDate:      date.Format(validator.DateLayout),
		CallDurationMinutes: intPtr(minutes),
		CallCount:           intPtr(calls),
		Reason:              reason,
	}
}

func TestReconcileDay_ClassifiesAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	env.submit(t, "emp-1", monday, 200, 40)
	env.submit(t, "emp-2", monday, 121, 30)
	env.submit(t, "emp-3", monday, 120, 25)

	first, err := env.svc.ReconcileDay(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Processed)
	assert.Equal(t, 0, first.Skipped)
	assert.Empty(t, first.Failed)
	assert.Equal(t, callattendance.ReasonSuccess, first.Reason)
	assert.NotEmpty(t, first.RunID)

	want := map[string]callattendance.Status{
		"emp-1": callattendance.StatusPresent,
		"emp-2": callattendance.StatusHalfDay,
		"emp-3": callattendance.StatusAbsent,
	}
	before := map[string]callattendance.CallAttendance{}
	for id, status := range want {
		rec, ok := env.record(id, monday)
		require.True(t, ok, id)
		assert.Equal(t, status, rec.Status, id)
		assert.Equal(t, callattendance.SourceAuto, rec.Source)
		assert.Nil(t, rec.ManualReason)
		before[id] = rec
	}

	second, err := env.svc.ReconcileDay(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, first.Processed, second.Processed)
	assert.NotEqual(t, first.RunID, second.RunID)
	for id := range want {
		rec, _ := env.record(id, monday)
		assert.Equal(t, before[id], rec, id)
	}
	assert.Empty(t, env.store.audits)
}

func TestReconcileDay_SkipsManualRecords(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	env.submit(t, "emp-1", monday, 60, 10)
	env.submit(t, "emp-2", monday, 200, 40)

	_, err := env.svc.ManualUpdate(context.Background(), admin, manualRequest("emp-1", monday, 180, 35, "dialer outage"))
	require.NoError(t, err)

	result, err := env.svc.ReconcileDay(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Skipped)

	rec, _ := env.record("emp-1", monday)
	assert.Equal(t, callattendance.SourceManual, rec.Source)
	assert.Equal(t, 180, rec.DurationMinutes)
	assert.Equal(t, callattendance.StatusPresent, rec.Status)
	assert.Len(t, env.store.audits, 1)
}

func TestReconcileDay_NonWorkingDay(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	env.submit(t, "emp-1", sunday, 200, 40)
	env.submit(t, "emp-1", holiday, 200, 40)

	for _, day := range []time.Time{sunday, holiday} {
		result, err := env.svc.ReconcileDay(context.Background(), day)
		require.NoError(t, err)
		assert.Equal(t, callattendance.ReasonNonWorkingDay, result.Reason)
		assert.Zero(t, result.Processed)
		_, ok := env.record("emp-1", day)
		assert.False(t, ok)
	}
}

func TestReconcileDay_NoActiveConfig(t *testing.T) {
	env := newTestEnv(t)
	env.submit(t, "emp-1", monday, 200, 40)

	_, err := env.svc.ReconcileDay(context.Background(), monday)
	require.ErrorIs(t, err, callattendance.ErrNoActiveConfig)
	assert.ErrorIs(t, err, callattendance.ErrConfiguration)
	assert.Empty(t, env.store.attendance)
}

func TestReconcileDay_EmployeeFailureIsIsolated(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	env.submit(t, "emp-1", monday, 200, 40)
	env.submit(t, "emp-2", monday, 150, 30)
	env.submit(t, "emp-3", monday, 10, 2)
	env.store.upsertFail["emp-2"] = errors.New("deadlock detected")

	result, err := env.svc.ReconcileDay(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "emp-2", result.Failed[0].EmployeeID)
	assert.Contains(t, result.Failed[0].Error, "deadlock")

	_, ok := env.record("emp-2", monday)
	assert.False(t, ok)
	_, ok = env.record("emp-3", monday)
	assert.True(t, ok)
}

func TestReconcileDay_SystemicFailureRollsBackDay(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	env.submit(t, "emp-1", monday, 200, 40)
	env.store.lockFail[monday.Format(validator.DateLayout)] = errors.New("lock timeout")

	_, err := env.svc.ReconcileDay(context.Background(), monday)
	require.Error(t, err)
	assert.Empty(t, env.store.attendance)
}

func TestReconcileRange_ContinuesAfterFailedDay(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	tuesday := monday.AddDate(0, 0, 1)
	env.submit(t, "emp-1", sunday, 200, 40)
	env.submit(t, "emp-1", monday, 200, 40)
	env.submit(t, "emp-1", tuesday, 130, 20)
	env.store.lockFail[monday.Format(validator.DateLayout)] = errors.New("lock timeout")

	result, err := env.svc.ReconcileRange(context.Background(), sunday, tuesday)
	require.NoError(t, err)
	require.Len(t, result.Days, 3)

	assert.Equal(t, callattendance.ReasonNonWorkingDay, result.Days[0].Result.Reason)
	assert.Nil(t, result.Days[1].Result)
	assert.Contains(t, result.Days[1].Error, "lock timeout")
	require.NotNil(t, result.Days[2].Result)
	assert.Equal(t, 1, result.Days[2].Result.Processed)

	rec, ok := env.record("emp-1", tuesday)
	require.True(t, ok)
	assert.Equal(t, callattendance.StatusHalfDay, rec.Status)
}

func TestReconcileRange_RejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ReconcileRange(context.Background(), monday, sunday)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestManualUpdate_AuditRecordsNumericChange(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	env.submit(t, "emp-1", monday, 200, 40)
	_, err := env.svc.ReconcileDay(context.Background(), monday)
	require.NoError(t, err)

	resp, err := env.svc.ManualUpdate(context.Background(), admin, manualRequest("emp-1", monday, 190, 38, "  recount after audit  "))
	require.NoError(t, err)

	assert.Equal(t, "MANUAL", resp.Attendance.Source)
	assert.Equal(t, "PRESENT", resp.Attendance.Status)
	require.NotNil(t, resp.Attendance.ManualReason)
	assert.Equal(t, "recount after audit", *resp.Attendance.ManualReason)

	require.Len(t, env.store.audits, 1)
	audit := env.store.audits[0]
	assert.Equal(t, callattendance.Snapshot{DurationMinutes: 200, CallCount: 40, Status: callattendance.StatusPresent}, audit.Old)
	assert.Equal(t, callattendance.Snapshot{DurationMinutes: 190, CallCount: 38, Status: callattendance.StatusPresent}, audit.New)
	assert.Equal(t, "u-admin", audit.UpdatedBy)
	assert.Equal(t, resp.Attendance.ID, audit.CallAttendanceID)
	require.NotNil(t, audit.IPAddress)
	assert.Equal(t, "10.0.0.1", *audit.IPAddress)
	assert.NotEmpty(t, audit.ID)
}

func TestManualUpdate_CreatesDefaultRecord(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)

	resp, err := env.svc.ManualUpdate(context.Background(), admin, manualRequest("emp-2", monday, 130, 20, "field visit"))
	require.NoError(t, err)

	assert.Equal(t, "HALF_DAY", resp.Attendance.Status)
	assert.Equal(t, "ABSENT", resp.Audit.Old.Status)
	assert.Zero(t, resp.Audit.Old.CallDurationMinutes)
	assert.Equal(t, 130, resp.Audit.New.CallDurationMinutes)
}

func TestManualUpdate_Authority(t *testing.T) {
	tests := []struct {
		name       string
		actor      user.Actor
		employeeID string
		wantErr    error
	}{
		{"admin", admin, "emp-2", nil},
		{"manager role", user.Actor{UserID: "u-m", Role: user.RoleManager}, "emp-2", nil},
		{"direct reporting manager", teamLead, "emp-1", nil},
		{"team leader of someone else", teamLead, "emp-2", callattendance.ErrManualUpdateForbidden},
		{"employee", user.Actor{UserID: "u-e", EmployeeID: strPtr("emp-2"), Role: user.RoleEmployee}, "emp-2", callattendance.ErrManualUpdateForbidden},
		{"anonymous", user.Actor{}, "emp-2", user.ErrActorRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.activateDefaultConfig(t)

			_, err := env.svc.ManualUpdate(context.Background(), tt.actor, manualRequest(tt.employeeID, monday, 200, 30, "correction"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, env.store.audits)
				assert.Empty(t, env.store.attendance)
				return
			}
			require.NoError(t, err)
			assert.Len(t, env.store.audits, 1)
		})
	}
}

func TestManualUpdate_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)

	tests := []struct {
		name  string
		req   callattendance.ManualUpdateRequest
		field string
	}{
		{"blank reason", manualRequest("emp-1", monday, 100, 10, "   "), "reason"},
		{"negative duration", manualRequest("emp-1", monday, -1, 10, "x"), "call_duration_minutes"},
		{"negative count", manualRequest("emp-1", monday, 10, -3, "x"), "call_count"},
		{"bad date", callattendance.ManualUpdateRequest{EmployeeID: "emp-1", AttendanceDate: "11/03/2024", CallDurationMinutes: intPtr(1), CallCount: intPtr(1), Reason: "x"}, "attendance_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.ManualUpdate(context.Background(), admin, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
	assert.Empty(t, env.store.audits)
}

func TestManualUpdate_DuplicateSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A failed update releases its key.
	_, err := env.svc.ManualUpdate(ctx, admin, manualRequest("emp-1", monday, 200, 30, "first"))
	require.ErrorIs(t, err, callattendance.ErrNoActiveConfig)

	env.activateDefaultConfig(t)
	_, err = env.svc.ManualUpdate(ctx, admin, manualRequest("emp-1", monday, 200, 30, "first"))
	require.NoError(t, err)

	// The key is actor, employee and date, so a different value is still held.
	_, err = env.svc.ManualUpdate(ctx, admin, manualRequest("emp-1", monday, 300, 31, "correction"))
	assert.ErrorIs(t, err, callattendance.ErrDuplicateSubmission)
	assert.EqualError(t, err, "a manual update for this employee and date was submitted recently")

	// Another actor is not blocked.
	other := user.Actor{UserID: "u-other", Role: user.RoleManager}
	_, err = env.svc.ManualUpdate(ctx, other, manualRequest("emp-1", monday, 210, 31, "again"))
	require.NoError(t, err)
	assert.Len(t, env.store.audits, 2)
}

func TestReconcileStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	today := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	status, err := env.svc.ReconcileStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-20", status.Today)
	assert.Equal(t, callattendance.ReconcileStatusPending, status.Status)
	assert.Zero(t, status.TodayRecords)
	assert.Nil(t, status.LastAutoCalculation)

	env.activateDefaultConfig(t)
	env.submit(t, "emp-1", yesterday, 200, 40)
	result, err := env.svc.ReconcileDay(ctx, yesterday)
	require.NoError(t, err)

	status, err = env.svc.ReconcileStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, callattendance.ReconcileStatusPending, status.Status)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, int64(1), status.YesterdayRecords)
	assert.NotNil(t, status.LastAutoCalculation)

	env.submit(t, "emp-2", today, 130, 20)
	_, err = env.svc.ReconcileDay(ctx, today)
	require.NoError(t, err)

	status, err = env.svc.ReconcileStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, callattendance.ReconcileStatusUpToDate, status.Status)
	assert.Equal(t, int64(1), status.TodayRecords)
	assert.Equal(t, int64(1), status.YesterdayRecords)
}

func TestManualUpdate_UnknownEmployee(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)

	_, err := env.svc.ManualUpdate(context.Background(), admin, manualRequest("ghost", monday, 200, 30, "x"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestConfig_ActivationKeepsSingleActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.activateDefaultConfig(t)

	b, err := env.svc.CreateConfig(ctx, admin, callattendance.CreateConfigRequest{
		FullDayMinutes:         intPtr(240),
		HalfDayMinutes:         intPtr(150),
		AbsentThresholdMinutes: intPtr(60),
	})
	require.NoError(t, err)
	assert.False(t, b.IsActive)
	assert.Equal(t, 2, b.Version)

	active, err := env.svc.GetActiveConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)

	_, err = env.svc.ActivateConfig(ctx, b.ID)
	require.NoError(t, err)

	configs, err := env.svc.ListConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	activeCount := 0
	for _, cfg := range configs {
		if cfg.IsActive {
			activeCount++
			assert.Equal(t, b.ID, cfg.ID)
		}
	}
	assert.Equal(t, 1, activeCount)

	_, err = env.svc.ActivateConfig(ctx, "missing")
	assert.ErrorIs(t, err, callattendance.ErrConfigNotFound)
}

func TestConfig_RejectsInvalidThresholds(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateConfig(context.Background(), admin, callattendance.CreateConfigRequest{
		FullDayMinutes:         intPtr(100),
		HalfDayMinutes:         intPtr(150),
		AbsentThresholdMinutes: intPtr(50),
		Activate:               true,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "full_day_minutes")
	assert.Empty(t, env.store.configs)
}

func TestSubmitCallLog_Upserts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := callattendance.SubmitCallLogRequest{EmployeeID: "emp-1", CallDate: "2024-03-11", CallDurationMinutes: intPtr(100), CallCount: intPtr(10)}

	first, created, err := env.svc.SubmitCallLog(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, callattendance.DefaultCallLogSource, first.Source)

	req.CallDurationMinutes = intPtr(180)
	second, created, err := env.svc.SubmitCallLog(ctx, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 180, second.CallDurationMinutes)
	assert.Len(t, env.store.callLogs, 1)

	_, _, err = env.svc.SubmitCallLog(ctx, callattendance.SubmitCallLogRequest{EmployeeID: "ghost", CallDate: "2024-03-11", CallDurationMinutes: intPtr(1), CallCount: intPtr(1)})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestBulkSubmitCallLogs_ReportsRowErrors(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.BulkSubmitCallLogs(context.Background(), callattendance.BulkSubmitCallLogsRequest{
		Source: "DIALER",
		CallLogs: []callattendance.SubmitCallLogRequest{
			{EmployeeID: "emp-1", CallDate: "2024-03-11", CallDurationMinutes: intPtr(200), CallCount: intPtr(30)},
			{EmployeeID: "emp-2", CallDate: "2024-03-11", CallDurationMinutes: intPtr(-5), CallCount: intPtr(30)},
			{EmployeeID: "ghost", CallDate: "2024-03-11", CallDurationMinutes: intPtr(10), CallCount: intPtr(1)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 3, result.Errors[1].Row)
	assert.Equal(t, "DIALER", env.store.callLogs[key("emp-1", monday)].Source)
}

func TestImportCallLogs_CSV(t *testing.T) {
	env := newTestEnv(t)
	env.submit(t, "emp-2", monday, 10, 1)

	csv := strings.Join([]string{
		"Employee_ID,Call_Date,Call_Duration_Minutes,Call_Count",
		"emp-1,2024-03-11,200,40",
		"emp-2,11/03/2024,150.0,22",
		"emp-3,2024-03-11,abc,1",
	}, "\n")

	result, err := env.svc.ImportCallLogs(context.Background(), strings.NewReader(csv), "calls.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, "emp-3", result.Errors[0].EmployeeID)

	log := env.store.callLogs[key("emp-2", monday)]
	assert.Equal(t, 150, log.DurationMinutes)
	assert.Equal(t, callattendance.BulkUploadSource, log.Source)
}

func TestImportCallLogs_XLSXTemplateRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	template, err := env.svc.CallLogTemplate(context.Background())
	require.NoError(t, err)
	rows, err := spreadsheet.ReadXLSX(bytes.NewReader(template))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, callLogColumns, rows[0])

	upload, err := spreadsheet.Build(spreadsheet.Sheet{
		Name:   "Call Logs",
		Header: callLogColumns,
		Rows:   [][]interface{}{{"emp-1", "2024-03-11", 185, 31}},
	})
	require.NoError(t, err)

	result, err := env.svc.ImportCallLogs(context.Background(), bytes.NewReader(upload), "upload.XLSX")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 185, env.store.callLogs[key("emp-1", monday)].DurationMinutes)
}

func TestImportCallLogs_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ImportCallLogs(ctx, strings.NewReader("x"), "calls.txt")
	assert.ErrorIs(t, err, callattendance.ErrUnsupportedFileType)

	_, err = env.svc.ImportCallLogs(ctx, strings.NewReader("employee_id,call_date,call_duration_minutes,call_count\n"), "calls.csv")
	assert.ErrorIs(t, err, callattendance.ErrEmptyUpload)

	_, err = env.svc.ImportCallLogs(ctx, strings.NewReader("employee_id,call_date\nemp-1,2024-03-11\n"), "calls.csv")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetEmployeeSummary(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	ctx := context.Background()

	days := []struct {
		date    time.Time
		minutes int
	}{
		{time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 200},
		{time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 130},
		{time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), 20},
		{time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), 180},
		{time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), 200}, // outside the default range
	}
	for _, d := range days {
		env.submit(t, "emp-1", d.date, d.minutes, 10)
		_, err := env.svc.ReconcileDay(ctx, d.date)
		require.NoError(t, err)
	}
	_, err := env.svc.ManualUpdate(ctx, admin, manualRequest("emp-1", days[2].date, 125, 12, "missed dialer sync"))
	require.NoError(t, err)

	summary, err := env.svc.GetEmployeeSummary(ctx, admin, callattendance.SummaryRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", summary.StartDate)
	assert.Equal(t, "2024-03-20", summary.EndDate)
	assert.Equal(t, 4, summary.TotalDays)
	assert.Equal(t, 2, summary.PresentDays)
	assert.Equal(t, 2, summary.HalfDays)
	assert.Equal(t, 0, summary.AbsentDays)
	assert.Equal(t, 635, summary.TotalCallMinutes)
	assert.Equal(t, 42, summary.TotalCalls)
	assert.Equal(t, 1, summary.ManualUpdates)
	assert.Equal(t, 100.0, summary.AttendancePercentage)

	own := user.Actor{UserID: "u-2", EmployeeID: strPtr("emp-2"), Role: user.RoleEmployee}
	_, err = env.svc.GetEmployeeSummary(ctx, own, callattendance.SummaryRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, callattendance.ErrViewForbidden)
}

func TestListAttendance_ScopesToOwnRecords(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	ctx := context.Background()
	env.submit(t, "emp-1", monday, 200, 40)
	env.submit(t, "emp-2", monday, 100, 20)
	_, err := env.svc.ReconcileDay(ctx, monday)
	require.NoError(t, err)

	own := user.Actor{UserID: "u-2", EmployeeID: strPtr("emp-2"), Role: user.RoleEmployee}
	list, err := env.svc.ListAttendance(ctx, own, callattendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "emp-2", list.Items[0].EmployeeID)
	assert.Equal(t, 20, list.Limit)

	_, err = env.svc.ListAttendance(ctx, own, callattendance.AttendanceFilter{EmployeeID: strPtr("emp-1")})
	assert.ErrorIs(t, err, callattendance.ErrViewForbidden)

	all, err := env.svc.ListAttendance(ctx, admin, callattendance.AttendanceFilter{Status: strPtr("PRESENT")})
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Equal(t, "emp-1", all.Items[0].EmployeeID)

	report, err := env.svc.ExportAttendanceReport(ctx, admin, callattendance.AttendanceFilter{})
	require.NoError(t, err)
	rows, err := spreadsheet.ReadXLSX(bytes.NewReader(report))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestAuditTrail_ListAndPurge(t *testing.T) {
	env := newTestEnv(t)
	env.activateDefaultConfig(t)
	ctx := context.Background()

	_, err := env.svc.ManualUpdate(ctx, admin, manualRequest("emp-1", monday, 200, 30, "first"))
	require.NoError(t, err)
	_, err = env.svc.ManualUpdate(ctx, admin, manualRequest("emp-2", monday, 100, 30, "second"))
	require.NoError(t, err)
	env.store.audits[0].Timestamp = env.svc.now().AddDate(0, 0, -120)

	list, err := env.svc.ListAudit(ctx, callattendance.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "second", list.Items[0].Reason)

	_, err = env.svc.PurgeAudit(ctx, teamLead, callattendance.PurgeAuditRequest{OlderThanDays: 90})
	assert.ErrorIs(t, err, callattendance.ErrPurgeForbidden)

	_, err = env.svc.PurgeAudit(ctx, admin, callattendance.PurgeAuditRequest{OlderThanDays: 0})
	assert.ErrorIs(t, err, callattendance.ErrInvalidRetention)

	purged, err := env.svc.PurgeAudit(ctx, user.SystemActor, callattendance.PurgeAuditRequest{OlderThanDays: 90})
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged.Deleted)
	require.Len(t, env.store.audits, 1)
	assert.Equal(t, "second", env.store.audits[0].Reason)
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }
