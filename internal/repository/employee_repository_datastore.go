package repository

import (
	"context"
	"fmt"

	"github.com/locvowork/employee_records/internal/database"
	"github.com/locvowork/employee_records/internal/domain"
)

// Compile-time interface guard.
var _ domain.RecordStore = (*DatastoreEmployeeRepository)(nil)

// DatastoreEmployeeRepository stores employees as Cloud Datastore entities.
// Datastore has no substring operator, so text matches scan the kind.
type DatastoreEmployeeRepository struct {
	ds *database.DatastoreClient
}

// NewDatastoreEmployeeRepository creates a new instance of DatastoreEmployeeRepository
func NewDatastoreEmployeeRepository(ds *database.DatastoreClient) *DatastoreEmployeeRepository {
	return &DatastoreEmployeeRepository{ds: ds}
}

// CreateSchema is a no-op: kinds exist as soon as an entity is written.
func (r *DatastoreEmployeeRepository) CreateSchema(ctx context.Context) error {
	return nil
}

func (r *DatastoreEmployeeRepository) Insert(ctx context.Context, e domain.NewEmployee) (int64, error) {
	if err := checkConstraints(e); err != nil {
		return 0, err
	}

	id, err := r.ds.SaveEmployee(ctx, database.NewEmployeeEntity(e))
	if err != nil {
		return 0, domain.NewStoreError("insert", err)
	}
	return id, nil
}

func (r *DatastoreEmployeeRepository) Query(ctx context.Context, p domain.Predicate) ([]domain.Employee, error) {
	switch {
	case p.Kind == domain.MatchID:
		e, err := r.ds.GetEmployee(ctx, p.ID)
		if err != nil {
			return nil, domain.NewStoreError(p.Kind.String(), err)
		}
		if e == nil {
			return []domain.Employee{}, nil
		}
		return []domain.Employee{*e}, nil

	case p.IsSubstring():
		all, err := r.ds.ListEmployees(ctx, "")
		if err != nil {
			return nil, domain.NewStoreError(p.Kind.String(), err)
		}
		return filterSubstring(all, p), nil

	case p.IsOrdering():
		sorted, err := r.ds.ListEmployees(ctx, datastoreProperty(p))
		if err != nil {
			return nil, domain.NewStoreError(p.Kind.String(), err)
		}
		return sorted, nil
	}
	return nil, domain.NewStoreError("query", fmt.Errorf("unsupported predicate %s", p.Kind))
}

func (r *DatastoreEmployeeRepository) Close() error {
	return r.ds.Close()
}

// datastoreProperty maps a predicate column to the entity property name.
func datastoreProperty(p domain.Predicate) string {
	switch p.Kind {
	case domain.OrderByAge:
		return "Age"
	case domain.OrderBySalary:
		return "Salary"
	}
	return ""
}

// filterSubstring keeps records whose predicate column contains the needle,
// ignoring case, in their original order.
func filterSubstring(all []domain.Employee, p domain.Predicate) []domain.Employee {
	out := []domain.Employee{}
	for _, e := range all {
		var field string
		switch p.Kind {
		case domain.MatchName:
			field = e.Name
		case domain.MatchDepartment:
			field = e.Department
		case domain.MatchRole:
			field = e.Role
		}
		if domain.ContainsFold(field, p.Substring) {
			out = append(out, e)
		}
	}
	return out
}

// checkConstraints applies the column checks the SQL schema enforces, for
// backends without a schema.
func checkConstraints(e domain.NewEmployee) error {
	if e.Age < domain.MinAge {
		return domain.NewConstraintError(fmt.Errorf("age %d is below %d", e.Age, domain.MinAge))
	}
	if e.Salary.IsNegative() {
		return domain.NewConstraintError(fmt.Errorf("salary %s is negative", e.Salary))
	}
	return nil
}
