package incentive

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
)

// memStore backs every repository fake. The transactor snapshots it on
// entry and restores the snapshot when fn fails.
type memStore struct {
	seq          int
	slabs        []incentive.Slab
	loanTypes    map[string]incentive.LoanType
	leads        map[string]incentive.Lead
	calculations map[string]incentive.Calculation
	targets      map[string]incentive.Target
	employees    map[string]employee.Employee
	attendance   []callattendance.CallAttendance

	clock func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		loanTypes:    map[string]incentive.LoanType{},
		leads:        map[string]incentive.Lead{},
		calculations: map[string]incentive.Calculation{},
		targets:      map[string]incentive.Target{},
		employees:    map[string]employee.Employee{},
		clock:        time.Now,
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) snapshot() *memStore {
	c := newMemStore()
	c.seq = m.seq
	c.slabs = append([]incentive.Slab(nil), m.slabs...)
	for k, v := range m.loanTypes {
		c.loanTypes[k] = v
	}
	for k, v := range m.leads {
		c.leads[k] = v
	}
	for k, v := range m.calculations {
		c.calculations[k] = v
	}
	for k, v := range m.targets {
		c.targets[k] = v
	}
	for k, v := range m.employees {
		c.employees[k] = v
	}
	c.attendance = append([]callattendance.CallAttendance(nil), m.attendance...)
	c.clock = m.clock
	return c
}

func (m *memStore) restore(s *memStore) {
	m.seq, m.slabs, m.loanTypes, m.leads, m.calculations, m.employees = s.seq, s.slabs, s.loanTypes, s.leads, s.calculations, s.employees
	m.targets, m.attendance = s.targets, s.attendance
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

type slabRepo struct{ *memStore }

func (r slabRepo) ListActive(context.Context) ([]incentive.Slab, error) {
	return append([]incentive.Slab(nil), r.slabs...), nil
}

func (r slabRepo) ReplaceActive(_ context.Context, slabs []incentive.Slab) ([]incentive.Slab, error) {
	out := make([]incentive.Slab, 0, len(slabs))
	for _, s := range slabs {
		s.ID = r.nextID("slab")
		s.IsActive = true
		out = append(out, s)
	}
	r.slabs = out
	return out, nil
}

type loanTypeRepo struct{ *memStore }

func (r loanTypeRepo) Create(_ context.Context, lt incentive.LoanType) (incentive.LoanType, error) {
	for _, existing := range r.loanTypes {
		if existing.Name == lt.Name {
			return incentive.LoanType{}, incentive.ErrLoanTypeNameExists
		}
	}
	lt.ID = r.nextID("lt")
	r.loanTypes[lt.ID] = lt
	return lt, nil
}

func (r loanTypeRepo) GetByID(_ context.Context, id string) (incentive.LoanType, error) {
	lt, ok := r.loanTypes[id]
	if !ok {
		return incentive.LoanType{}, incentive.ErrLoanTypeNotFound
	}
	return lt, nil
}

func (r loanTypeRepo) List(context.Context) ([]incentive.LoanType, error) {
	out := make([]incentive.LoanType, 0, len(r.loanTypes))
	for _, lt := range r.loanTypes {
		out = append(out, lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type leadRepo struct{ *memStore }

func (r leadRepo) Create(_ context.Context, lead incentive.Lead) (incentive.Lead, error) {
	lead.ID = r.nextID("lead")
	lead.CreatedAt = r.clock()
	lead.UpdatedAt = lead.CreatedAt
	r.leads[lead.ID] = lead
	return lead, nil
}

func (r leadRepo) GetByIDForUpdate(_ context.Context, id string) (incentive.Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return incentive.Lead{}, incentive.ErrLeadNotFound
	}
	return lead, nil
}

func (r leadRepo) UpdateStatus(_ context.Context, id string, status incentive.LeadStatus, disbursedAt *time.Time) (incentive.Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return incentive.Lead{}, incentive.ErrLeadNotFound
	}
	lead.Status = status
	if disbursedAt != nil {
		lead.DisbursedAt = disbursedAt
	}
	r.leads[id] = lead
	return lead, nil
}

func (r leadRepo) ListDisbursed(_ context.Context, employeeID string, from, to time.Time) ([]incentive.Lead, error) {
	var out []incentive.Lead
	for _, lead := range r.leads {
		if lead.EmployeeID != employeeID || lead.Status != incentive.LeadStatusDisbursed || lead.DisbursedAt == nil {
			continue
		}
		if lead.DisbursedAt.Before(from) || !lead.DisbursedAt.Before(to) {
			continue
		}
		lt := r.loanTypes[lead.LoanTypeID]
		lead.PointsPerLac = &lt.PointsPerLac
		out = append(out, lead)
	}
	return out, nil
}

func (r leadRepo) List(_ context.Context, filter incentive.LeadFilter) ([]incentive.Lead, int64, error) {
	var out []incentive.Lead
	for _, lead := range r.leads {
		if filter.EmployeeID != nil && lead.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(lead.Status) != *filter.Status {
			continue
		}
		lt := r.loanTypes[lead.LoanTypeID]
		lead.LoanTypeName = &lt.Name
		lead.PointsPerLac = &lt.PointsPerLac
		out = append(out, lead)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r leadRepo) ListCreatedBetween(_ context.Context, employeeID string, from, to time.Time) ([]incentive.Lead, error) {
	var out []incentive.Lead
	for _, lead := range r.leads {
		if lead.EmployeeID != employeeID || lead.CreatedAt.Before(from) || !lead.CreatedAt.Before(to) {
			continue
		}
		lt := r.loanTypes[lead.LoanTypeID]
		lead.PointsPerLac = &lt.PointsPerLac
		out = append(out, lead)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type calculationRepo struct{ *memStore }

func calcKey(employeeID string, month time.Time) string {
	return employeeID + "|" + month.Format("2006-01")
}

func (r calculationRepo) Upsert(_ context.Context, c incentive.Calculation) (incentive.Calculation, error) {
	key := calcKey(c.EmployeeID, c.Month)
	if existing, ok := r.calculations[key]; ok {
		c.ID = existing.ID
	} else {
		c.ID = r.nextID("calc")
	}
	r.calculations[key] = c
	return c, nil
}

func (r calculationRepo) Get(_ context.Context, employeeID string, month time.Time) (incentive.Calculation, error) {
	c, ok := r.calculations[calcKey(employeeID, month)]
	if !ok {
		return incentive.Calculation{}, incentive.ErrCalculationNotFound
	}
	return c, nil
}

func (r calculationRepo) ListByMonth(_ context.Context, month time.Time, employeeID *string) ([]incentive.Calculation, error) {
	var out []incentive.Calculation
	for _, c := range r.calculations {
		if c.Month.Format("2006-01") != month.Format("2006-01") {
			continue
		}
		if employeeID != nil && c.EmployeeID != *employeeID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
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

type targetRepo struct{ *memStore }

func (r targetRepo) Upsert(_ context.Context, t incentive.Target) (incentive.Target, error) {
	key := calcKey(t.EmployeeID, t.Month)
	if existing, ok := r.targets[key]; ok {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
	} else {
		t.ID = r.nextID("target")
		t.CreatedAt = r.clock()
	}
	t.UpdatedAt = r.clock()
	r.targets[key] = t
	return t, nil
}

func (r targetRepo) CreateIfAbsent(ctx context.Context, t incentive.Target) (bool, error) {
	if _, ok := r.targets[calcKey(t.EmployeeID, t.Month)]; ok {
		return false, nil
	}
	_, err := r.Upsert(ctx, t)
	return err == nil, err
}

func (r targetRepo) ListByMonth(_ context.Context, month time.Time, employeeID *string) ([]incentive.Target, error) {
	var out []incentive.Target
	for _, t := range r.targets {
		if t.Month.Format("2006-01") != month.Format("2006-01") {
			continue
		}
		if employeeID != nil && t.EmployeeID != *employeeID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

type attendanceReader struct{ *memStore }

func (r attendanceReader) ListByEmployeeAndRange(_ context.Context, employeeID string, start, end time.Time) ([]callattendance.CallAttendance, error) {
	var out []callattendance.CallAttendance
	for _, a := range r.attendance {
		if a.EmployeeID != employeeID || a.AttendanceDate.Before(start) || a.AttendanceDate.After(end) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
