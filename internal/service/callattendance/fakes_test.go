package callattendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

// memStore backs every repository fake. Transactions and savepoints snapshot
// it and restore the snapshot when fn fails.
type memStore struct {
	seq        int
	callLogs   map[string]callattendance.CallLog
	attendance map[string]callattendance.CallAttendance
	configs    map[string]callattendance.Config
	activeID   string
	audits     []callattendance.Audit
	employees  map[string]employee.Employee

	// failures injected by tests
	upsertFail map[string]error // by employee id
	lockFail   map[string]error // by date
}

func newMemStore() *memStore {
	return &memStore{
		callLogs:   map[string]callattendance.CallLog{},
		attendance: map[string]callattendance.CallAttendance{},
		configs:    map[string]callattendance.Config{},
		employees:  map[string]employee.Employee{},
		upsertFail: map[string]error{},
		lockFail:   map[string]error{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) snapshot() *memStore {
	c := newMemStore()
	c.seq = m.seq
	c.activeID = m.activeID
	c.audits = append([]callattendance.Audit(nil), m.audits...)
	for k, v := range m.callLogs {
		c.callLogs[k] = v
	}
	for k, v := range m.attendance {
		c.attendance[k] = v
	}
	for k, v := range m.configs {
		c.configs[k] = v
	}
	for k, v := range m.employees {
		c.employees[k] = v
	}
	c.upsertFail = m.upsertFail
	c.lockFail = m.lockFail
	return c
}

func (m *memStore) restore(s *memStore) {
	m.seq, m.activeID, m.audits = s.seq, s.activeID, s.audits
	m.callLogs, m.attendance, m.configs, m.employees = s.callLogs, s.attendance, s.configs, s.employees
}

func key(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format(validator.DateLayout)
}

type memTx struct{ store *memStore }

func (t memTx) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func (t memTx) WithinSavepoint(ctx context.Context, fn func(context.Context) error) error {
	return t.WithinTransaction(ctx, fn)
}

type callLogRepo struct{ *memStore }

func (r callLogRepo) Upsert(_ context.Context, log callattendance.CallLog) (callattendance.CallLog, bool, error) {
	k := key(log.EmployeeID, log.CallDate)
	existing, ok := r.callLogs[k]
	if ok {
		log.ID = existing.ID
		log.CreatedAt = existing.CreatedAt
	} else {
		log.ID = r.nextID("log")
		log.CreatedAt = time.Now()
	}
	log.UpdatedAt = time.Now()
	r.callLogs[k] = log
	return log, !ok, nil
}

func (r callLogRepo) ListByDate(_ context.Context, date time.Time, employeeID *string) ([]callattendance.CallLog, error) {
	var out []callattendance.CallLog
	for _, log := range r.callLogs {
		if !log.CallDate.Equal(date) {
			continue
		}
		if employeeID != nil && log.EmployeeID != *employeeID {
			continue
		}
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

type attendanceRepo struct{ *memStore }

func (r attendanceRepo) LockDate(_ context.Context, date time.Time) error {
	return r.lockFail[date.Format(validator.DateLayout)]
}

func (r attendanceRepo) ListByDate(_ context.Context, date time.Time) ([]callattendance.CallAttendance, error) {
	var out []callattendance.CallAttendance
	for _, a := range r.attendance {
		if a.AttendanceDate.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r attendanceRepo) UpsertAuto(_ context.Context, a callattendance.CallAttendance) (bool, error) {
	if err := r.upsertFail[a.EmployeeID]; err != nil {
		return false, err
	}
	k := key(a.EmployeeID, a.AttendanceDate)
	existing, ok := r.attendance[k]
	if ok && existing.Source == callattendance.SourceManual {
		return false, nil
	}
	if ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		a.ID = r.nextID("att")
	}
	a.ManualReason = nil
	a.UpdatedBy = nil
	a.UpdatedAt = time.Now()
	r.attendance[k] = a
	return true, nil
}

func (r attendanceRepo) GetOrCreateForUpdate(_ context.Context, employeeID string, date time.Time) (callattendance.CallAttendance, error) {
	k := key(employeeID, date)
	if a, ok := r.attendance[k]; ok {
		return a, nil
	}
	a := callattendance.NewDefaultAttendance(employeeID, date)
	a.ID = r.nextID("att")
	r.attendance[k] = a
	return a, nil
}

func (r attendanceRepo) UpdateManual(_ context.Context, a callattendance.CallAttendance) (callattendance.CallAttendance, error) {
	k := key(a.EmployeeID, a.AttendanceDate)
	if _, ok := r.attendance[k]; !ok {
		return callattendance.CallAttendance{}, callattendance.ErrAttendanceNotFound
	}
	r.attendance[k] = a
	return a, nil
}

func (r attendanceRepo) List(_ context.Context, f callattendance.AttendanceFilter) ([]callattendance.CallAttendance, int64, error) {
	var out []callattendance.CallAttendance
	for _, a := range r.attendance {
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.Status != nil && string(a.Status) != *f.Status {
			continue
		}
		if f.Source != nil && string(a.Source) != *f.Source {
			continue
		}
		day := a.AttendanceDate.Format(validator.DateLayout)
		if f.StartDate != nil && day < *f.StartDate {
			continue
		}
		if f.EndDate != nil && day > *f.EndDate {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AttendanceDate.Equal(out[j].AttendanceDate) {
			return out[i].AttendanceDate.After(out[j].AttendanceDate)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})

	total := int64(len(out))
	from := (f.Page - 1) * f.Limit
	if from > len(out) {
		from = len(out)
	}
	to := from + f.Limit
	if to > len(out) {
		to = len(out)
	}
	return out[from:to], total, nil
}

func (r attendanceRepo) ListByEmployeeAndRange(_ context.Context, employeeID string, start, end time.Time) ([]callattendance.CallAttendance, error) {
	var out []callattendance.CallAttendance
	for _, a := range r.attendance {
		if a.EmployeeID != employeeID || a.AttendanceDate.Before(start) || a.AttendanceDate.After(end) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r attendanceRepo) CountByDate(_ context.Context, date time.Time) (int64, error) {
	var n int64
	for _, a := range r.attendance {
		if a.AttendanceDate.Equal(date) {
			n++
		}
	}
	return n, nil
}

func (r attendanceRepo) LastAutoUpdatedAt(context.Context) (*time.Time, error) {
	var last *time.Time
	for _, a := range r.attendance {
		if a.Source != callattendance.SourceAuto {
			continue
		}
		if last == nil || a.UpdatedAt.After(*last) {
			updated := a.UpdatedAt
			last = &updated
		}
	}
	return last, nil
}

type configRepo struct{ *memStore }

func (r configRepo) Create(_ context.Context, cfg callattendance.Config) (callattendance.Config, error) {
	cfg.ID = r.nextID("cfg")
	cfg.Version = len(r.configs) + 1
	cfg.IsActive = false
	r.configs[cfg.ID] = cfg
	return cfg, nil
}

func (r configRepo) GetByID(_ context.Context, id string) (callattendance.Config, error) {
	cfg, ok := r.configs[id]
	if !ok {
		return callattendance.Config{}, callattendance.ErrConfigNotFound
	}
	cfg.IsActive = id == r.activeID
	return cfg, nil
}

func (r configRepo) GetActive(ctx context.Context) (callattendance.Config, error) {
	if r.activeID == "" {
		return callattendance.Config{}, callattendance.ErrNoActiveConfig
	}
	return r.GetByID(ctx, r.activeID)
}

func (r configRepo) SetActive(_ context.Context, id string) error {
	if _, ok := r.configs[id]; !ok {
		return callattendance.ErrConfigNotFound
	}
	r.activeID = id
	return nil
}

func (r configRepo) List(_ context.Context) ([]callattendance.Config, error) {
	out := make([]callattendance.Config, 0, len(r.configs))
	for id, cfg := range r.configs {
		cfg.IsActive = id == r.activeID
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

type auditRepo struct{ *memStore }

func (r auditRepo) Append(_ context.Context, a callattendance.Audit) (callattendance.Audit, error) {
	r.audits = append(r.audits, a)
	return a, nil
}

func (r auditRepo) List(_ context.Context, f callattendance.AuditFilter) ([]callattendance.Audit, int64, error) {
	var out []callattendance.Audit
	for i := len(r.audits) - 1; i >= 0; i-- {
		a := r.audits[i]
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r auditRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []callattendance.Audit
	var deleted int64
	for _, a := range r.audits {
		if a.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.audits = kept
	return deleted, nil
}

type employeeRepo struct{ *memStore }

func (r employeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r employeeRepo) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range ids {
		if _, ok := r.employees[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r employeeRepo) GetActive(context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.IsActive() {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
