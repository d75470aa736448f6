package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PageSize is the number of records shown per result page.
const PageSize = 10

// MinAge is the lowest age the add form accepts.
const MinAge = 18

// Employee represents the employees table
type Employee struct {
	ID         int64           `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Age        int             `json:"age" db:"age"`
	Salary     decimal.Decimal `json:"salary" db:"salary"`
	Department string          `json:"department" db:"department"`
	Role       string          `json:"role" db:"role"`
}

// NewEmployee carries the user-supplied fields of a record that has not been
// stored yet. The id is assigned by the record store.
type NewEmployee struct {
	Name       string          `json:"name"`
	Age        int             `json:"age"`
	Salary     decimal.Decimal `json:"salary"`
	Department string          `json:"department"`
	Role       string          `json:"role"`
}

// WithID returns the stored form of the record.
func (n NewEmployee) WithID(id int64) Employee {
	return Employee{
		ID:         id,
		Name:       n.Name,
		Age:        n.Age,
		Salary:     n.Salary,
		Department: n.Department,
		Role:       n.Role,
	}
}

// FieldText returns the textual rendering of a displayed field, used by the
// in-memory filters.
func (e Employee) FieldText(f FilterField) string {
	switch f {
	case FilterName:
		return e.Name
	case FilterAge:
		return strconv.Itoa(e.Age)
	case FilterSalary:
		return e.Salary.String()
	case FilterDepartment:
		return e.Department
	case FilterRole:
		return e.Role
	}
	return ""
}

// ResultPage is one page of a filtered result set.
type ResultPage struct {
	Records  []Employee `json:"records"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	LastPage int        `json:"last_page"`
	PageSize int        `json:"page_size"`
}

// NoResults reports whether the filtered set was empty.
func (p ResultPage) NoResults() bool {
	return p.Total == 0
}
