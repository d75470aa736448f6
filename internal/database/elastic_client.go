package database

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/olivere/elastic/v7"
	"github.com/shopspring/decimal"
)

// employeeMapping keeps lower-cased copies of the text fields as keywords so
// wildcard queries can do case-insensitive substring matching.
const employeeMapping = `{
	"mappings": {
		"properties": {
			"id":              {"type": "long"},
			"name":            {"type": "keyword"},
			"name_fold":       {"type": "keyword"},
			"age":             {"type": "integer"},
			"salary":          {"type": "scaled_float", "scaling_factor": 100},
			"department":      {"type": "keyword"},
			"department_fold": {"type": "keyword"},
			"role":            {"type": "keyword"},
			"role_fold":       {"type": "keyword"}
		}
	}
}`

// EmployeeDoc mirrors domain.Employee for ES storage.
type EmployeeDoc struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	NameFold       string          `json:"name_fold"`
	Age            int             `json:"age"`
	Salary         decimal.Decimal `json:"salary"`
	Department     string          `json:"department"`
	DepartmentFold string          `json:"department_fold"`
	Role           string          `json:"role"`
	RoleFold       string          `json:"role_fold"`
}

// NewEmployeeDoc builds the indexed form of a record.
func NewEmployeeDoc(e domain.Employee) EmployeeDoc {
	return EmployeeDoc{
		ID:             e.ID,
		Name:           e.Name,
		NameFold:       strings.ToLower(e.Name),
		Age:            e.Age,
		Salary:         e.Salary,
		Department:     e.Department,
		DepartmentFold: strings.ToLower(e.Department),
		Role:           e.Role,
		RoleFold:       strings.ToLower(e.Role),
	}
}

// Employee converts the document back to a domain record.
func (d EmployeeDoc) Employee() domain.Employee {
	return domain.Employee{
		ID:         d.ID,
		Name:       d.Name,
		Age:        d.Age,
		Salary:     d.Salary,
		Department: d.Department,
		Role:       d.Role,
	}
}

// ElasticSearchClient wraps olivere/elastic client.
type ElasticSearchClient struct {
	client *elastic.Client
	index  string
}

// NewElasticSearchClient creates a new client for Elasticsearch 7.x.
func NewElasticSearchClient(url, index string) (*ElasticSearchClient, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &ElasticSearchClient{client: client, index: index}, nil
}

// Index returns the name of the employees index.
func (es *ElasticSearchClient) Index() string {
	return es.index
}

// EnsureIndex creates the employees index with its mapping if it is missing.
func (es *ElasticSearchClient) EnsureIndex(ctx context.Context) error {
	exists, err := es.client.IndexExists(es.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", es.index, err)
	}
	if exists {
		return nil
	}

	if _, err := es.client.CreateIndex(es.index).BodyString(employeeMapping).Do(ctx); err != nil {
		return fmt.Errorf("failed to create index %s: %w", es.index, err)
	}
	return nil
}

// NextID returns one past the highest id stored so far.
func (es *ElasticSearchClient) NextID(ctx context.Context) (int64, error) {
	res, err := es.client.Search().
		Index(es.index).
		Size(0).
		Aggregation("max_id", elastic.NewMaxAggregation().Field("id")).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read max id: %w", err)
	}

	agg, ok := res.Aggregations.Max("max_id")
	if !ok || agg.Value == nil {
		return 1, nil
	}
	return int64(*agg.Value) + 1, nil
}

// CreateEmployee indexes a new document under its id. It fails with a
// conflict if the id is already taken.
func (es *ElasticSearchClient) CreateEmployee(ctx context.Context, doc EmployeeDoc) error {
	_, err := es.client.Index().
		Index(es.index).
		Id(strconv.FormatInt(doc.ID, 10)).
		OpType("create").
		BodyJson(doc).
		Refresh("true"). // Make changes immediately searchable
		Do(ctx)
	return err
}

// GetEmployee retrieves an employee by id. A missing document returns nil.
func (es *ElasticSearchClient) GetEmployee(ctx context.Context, id int64) (*EmployeeDoc, error) {
	result, err := es.client.Get().
		Index(es.index).
		Id(strconv.FormatInt(id, 10)).
		Do(ctx)
	if elastic.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee %d: %w", id, err)
	}

	if !result.Found {
		return nil, nil
	}

	var doc EmployeeDoc
	if err := json.Unmarshal(result.Source, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal employee %d: %w", id, err)
	}
	return &doc, nil
}

// ScrollEmployees returns every document matching query. With an empty
// sortField the documents come back in index order.
func (es *ElasticSearchClient) ScrollEmployees(ctx context.Context, query elastic.Query, sortField string) ([]EmployeeDoc, error) {
	scroll := es.client.Scroll(es.index).
		Query(query).
		Size(1000).
		KeepAlive("2m")
	if sortField != "" {
		scroll = scroll.Sort(sortField, true)
	} else {
		scroll = scroll.Sort("_doc", true)
	}
	defer scroll.Clear(context.Background())

	docs := []EmployeeDoc{}
	for {
		results, err := scroll.Do(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scroll error: %w", err)
		}

		for _, hit := range results.Hits.Hits {
			var doc EmployeeDoc
			if err := json.Unmarshal(hit.Source, &doc); err != nil {
				return nil, fmt.Errorf("failed to unmarshal hit %s: %w", hit.Id, err)
			}
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// Stop releases the client's background resources.
func (es *ElasticSearchClient) Stop() {
	es.client.Stop()
}
