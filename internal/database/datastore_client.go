package database

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/shopspring/decimal"
)

// EmployeeEntity is the Datastore form of an employee. The id lives in the key.
type EmployeeEntity struct {
	Name       string  `datastore:"Name"`
	Age        int     `datastore:"Age"`
	Salary     float64 `datastore:"Salary"`
	Department string  `datastore:"Department"`
	Role       string  `datastore:"Role"`
}

// NewEmployeeEntity converts a new record to its entity.
func NewEmployeeEntity(e domain.NewEmployee) *EmployeeEntity {
	return &EmployeeEntity{
		Name:       e.Name,
		Age:        e.Age,
		Salary:     e.Salary.InexactFloat64(),
		Department: e.Department,
		Role:       e.Role,
	}
}

// Employee converts the entity back to a domain record.
func (en EmployeeEntity) Employee(id int64) domain.Employee {
	return domain.Employee{
		ID:         id,
		Name:       en.Name,
		Age:        en.Age,
		Salary:     decimal.NewFromFloat(en.Salary),
		Department: en.Department,
		Role:       en.Role,
	}
}

// DatastoreClient wraps the cloud datastore client
type DatastoreClient struct {
	client *datastore.Client
	kind   string
}

// NewDatastoreClient connects to the given project.
func NewDatastoreClient(ctx context.Context, projectID, kind string) (*DatastoreClient, error) {
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return &DatastoreClient{client: client, kind: kind}, nil
}

// WrapDatastoreClient wraps existing datastore client
func WrapDatastoreClient(client *datastore.Client, kind string) *DatastoreClient {
	if client == nil {
		return nil
	}
	return &DatastoreClient{client: client, kind: kind}
}

// SaveEmployee stores a new entity and returns the id Datastore allocated.
func (dc *DatastoreClient) SaveEmployee(ctx context.Context, entity *EmployeeEntity) (int64, error) {
	if dc == nil || dc.client == nil {
		return 0, fmt.Errorf("datastore client is nil")
	}

	key, err := dc.client.Put(ctx, datastore.IncompleteKey(dc.kind, nil), entity)
	if err != nil {
		return 0, err
	}
	return key.ID, nil
}

// GetEmployee retrieves an employee by id. A missing entity returns nil.
func (dc *DatastoreClient) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	if dc == nil || dc.client == nil {
		return nil, fmt.Errorf("datastore client is nil")
	}

	var entity EmployeeEntity
	err := dc.client.Get(ctx, datastore.IDKey(dc.kind, id, nil), &entity)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e := entity.Employee(id)
	return &e, nil
}

// ListEmployees returns every employee, ordered by the given property when
// order is non-empty and by key otherwise.
func (dc *DatastoreClient) ListEmployees(ctx context.Context, order string) ([]domain.Employee, error) {
	if dc == nil || dc.client == nil {
		return nil, fmt.Errorf("datastore client is nil")
	}

	q := datastore.NewQuery(dc.kind)
	if order != "" {
		q = q.Order(order)
	}

	var entities []EmployeeEntity
	keys, err := dc.client.GetAll(ctx, q, &entities)
	if err != nil {
		return nil, err
	}

	employees := make([]domain.Employee, len(entities))
	for i := range entities {
		employees[i] = entities[i].Employee(keys[i].ID)
	}
	return employees, nil
}

// Close closes the underlying client.
func (dc *DatastoreClient) Close() error {
	if dc == nil || dc.client == nil {
		return nil
	}
	return dc.client.Close()
}
