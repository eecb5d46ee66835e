package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ExistingIDs returns the subset of ids that belong to known employees.
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
	GetActive(ctx context.Context) ([]Employee, error)
}
