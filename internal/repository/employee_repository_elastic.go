package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/locvowork/employee_records/internal/database"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/olivere/elastic/v7"
)

// maxIDAttempts bounds retries when another writer takes the next id first.
const maxIDAttempts = 3

// Compile-time interface guard.
var _ domain.RecordStore = (*ElasticEmployeeRepository)(nil)

// ElasticEmployeeRepository stores employees as Elasticsearch documents.
type ElasticEmployeeRepository struct {
	es *database.ElasticSearchClient
}

// NewElasticEmployeeRepository creates a new instance of ElasticEmployeeRepository
func NewElasticEmployeeRepository(es *database.ElasticSearchClient) *ElasticEmployeeRepository {
	return &ElasticEmployeeRepository{es: es}
}

func (r *ElasticEmployeeRepository) CreateSchema(ctx context.Context) error {
	if err := r.es.EnsureIndex(ctx); err != nil {
		return domain.NewStoreError("create schema", err)
	}
	return nil
}

func (r *ElasticEmployeeRepository) Insert(ctx context.Context, e domain.NewEmployee) (int64, error) {
	if err := checkConstraints(e); err != nil {
		return 0, err
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := r.es.NextID(ctx)
		if err != nil {
			return 0, domain.NewStoreError("insert", err)
		}

		err = r.es.CreateEmployee(ctx, database.NewEmployeeDoc(e.WithID(id)))
		if elastic.IsConflict(err) {
			continue
		}
		if err != nil {
			return 0, domain.NewStoreError("insert", err)
		}
		return id, nil
	}
	return 0, domain.NewStoreError("insert", fmt.Errorf("could not allocate an id after %d attempts", maxIDAttempts))
}

func (r *ElasticEmployeeRepository) Query(ctx context.Context, p domain.Predicate) ([]domain.Employee, error) {
	if p.Kind == domain.MatchID {
		doc, err := r.es.GetEmployee(ctx, p.ID)
		if err != nil {
			return nil, domain.NewStoreError(p.Kind.String(), err)
		}
		if doc == nil {
			return []domain.Employee{}, nil
		}
		return []domain.Employee{doc.Employee()}, nil
	}

	query, sortField, err := elasticQuery(p)
	if err != nil {
		return nil, domain.NewStoreError("query", err)
	}

	docs, err := r.es.ScrollEmployees(ctx, query, sortField)
	if err != nil {
		return nil, domain.NewStoreError(p.Kind.String(), err)
	}

	employees := make([]domain.Employee, len(docs))
	for i, d := range docs {
		employees[i] = d.Employee()
	}
	return employees, nil
}

func (r *ElasticEmployeeRepository) Close() error {
	r.es.Stop()
	return nil
}

// elasticQuery translates a search or ordering predicate into a query and
// sort field.
func elasticQuery(p domain.Predicate) (elastic.Query, string, error) {
	switch {
	case p.IsSubstring():
		return elastic.NewWildcardQuery(p.Column()+"_fold", wildcardPattern(p.Substring)), "", nil
	case p.IsOrdering():
		return elastic.NewMatchAllQuery(), p.Column(), nil
	}
	return nil, "", fmt.Errorf("unsupported predicate %s", p.Kind)
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// wildcardPattern matches s anywhere in a lower-cased keyword.
func wildcardPattern(s string) string {
	return "*" + wildcardEscaper.Replace(strings.ToLower(s)) + "*"
}
