package handler

import (
	"fmt"
	"strings"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/shopspring/decimal"
)

// AddEmployeeRequest is the body of POST /employees. Salary accepts a JSON
// number or a quoted decimal.
type AddEmployeeRequest struct {
	Name       string           `json:"name"`
	Age        *int             `json:"age"`
	Salary     *decimal.Decimal `json:"salary"`
	Department string           `json:"department"`
	Role       string           `json:"role"`
}

func (r AddEmployeeRequest) toNewEmployee() (domain.NewEmployee, error) {
	if r.Age == nil {
		return domain.NewEmployee{}, domain.NewInputError("age", "", fmt.Errorf("age is required"))
	}
	if r.Salary == nil {
		return domain.NewEmployee{}, domain.NewInputError("salary", "", fmt.Errorf("salary is required"))
	}
	return domain.NewEmployee{
		Name:       strings.TrimSpace(r.Name),
		Age:        *r.Age,
		Salary:     *r.Salary,
		Department: strings.TrimSpace(r.Department),
		Role:       strings.TrimSpace(r.Role),
	}, nil
}

// PageResponse is one result page as returned by the search and sort routes.
type PageResponse struct {
	Records  []domain.Employee `json:"records"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	LastPage int               `json:"last_page"`
	PageSize int               `json:"page_size"`
	Warning  string            `json:"warning,omitempty"`
}

func newPageResponse(p domain.ResultPage) PageResponse {
	records := p.Records
	if records == nil {
		records = []domain.Employee{}
	}
	return PageResponse{
		Records:  records,
		Total:    p.Total,
		Page:     p.Page,
		LastPage: p.LastPage,
		PageSize: p.PageSize,
	}
}
