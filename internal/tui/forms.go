package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/shopspring/decimal"
)

// Mode is an entry of the main menu.
type Mode string

const (
	ModeAdd    Mode = "add"
	ModeSearch Mode = "search"
	ModeSort   Mode = "sort"
	ModeQuit   Mode = "quit"
)

func newModeForm(mode *Mode) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[Mode]().
			Title("Employee Records").
			Description("Choose an action").
			Options(
				huh.NewOption("Add employee", ModeAdd),
				huh.NewOption("Search employees", ModeSearch),
				huh.NewOption("Sort employees", ModeSort),
				huh.NewOption("Quit", ModeQuit),
			).
			Value(mode),
	))
}

// AddFormData holds the raw text of the add form.
type AddFormData struct {
	Name       string
	Age        string
	Salary     string
	Department string
	Role       string
}

func newAddForm(data *AddFormData) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&data.Name),
		huh.NewInput().
			Title("Age").
			Description(fmt.Sprintf("%d or older", domain.MinAge)).
			Value(&data.Age).
			Validate(validateAge),
		huh.NewInput().
			Title("Salary").
			Value(&data.Salary).
			Validate(validateSalary),
		huh.NewInput().Title("Department").Value(&data.Department),
		huh.NewInput().Title("Role").Value(&data.Role),
	))
}

func validateAge(s string) error {
	age, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("age must be a whole number")
	}
	if age < domain.MinAge {
		return fmt.Errorf("age must be at least %d", domain.MinAge)
	}
	return nil
}

func validateSalary(s string) error {
	salary, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("salary must be a number")
	}
	if salary.IsNegative() {
		return fmt.Errorf("salary cannot be negative")
	}
	return nil
}

// NewEmployee converts validated form text into a record to insert.
func (d AddFormData) NewEmployee() (domain.NewEmployee, error) {
	age, err := strconv.Atoi(strings.TrimSpace(d.Age))
	if err != nil {
		return domain.NewEmployee{}, domain.NewInputError("age", d.Age, err)
	}
	salary, err := decimal.NewFromString(strings.TrimSpace(d.Salary))
	if err != nil {
		return domain.NewEmployee{}, domain.NewInputError("salary", d.Salary, err)
	}
	return domain.NewEmployee{
		Name:       strings.TrimSpace(d.Name),
		Age:        age,
		Salary:     salary,
		Department: strings.TrimSpace(d.Department),
		Role:       strings.TrimSpace(d.Role),
	}, nil
}

// SearchFormData holds the search form selections.
type SearchFormData struct {
	Field   domain.SearchField
	Value   string
	Filters []domain.FilterField
}

func newSearchForm(data *SearchFormData) *huh.Form {
	if data.Field == 0 {
		data.Field = domain.SearchByID
	}
	options := make([]huh.Option[domain.SearchField], len(domain.SearchFields))
	for i, f := range domain.SearchFields {
		options[i] = huh.NewOption(searchLabel(f), f)
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[domain.SearchField]().
			Title("Search by").
			Options(options...).
			Value(&data.Field),
		huh.NewInput().
			Title("Search value").
			Value(&data.Value),
		filterSelect(&data.Filters),
	))
}

// SortFormData holds the sort form selections.
type SortFormData struct {
	Field   domain.SortField
	Filters []domain.FilterField
}

func newSortForm(data *SortFormData) *huh.Form {
	if data.Field == 0 {
		data.Field = domain.SortByAge
	}
	options := make([]huh.Option[domain.SortField], len(domain.SortFields))
	for i, f := range domain.SortFields {
		options[i] = huh.NewOption(sortLabel(f), f)
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[domain.SortField]().
			Title("Sort by").
			Options(options...).
			Value(&data.Field),
		filterSelect(&data.Filters),
	))
}

func filterSelect(value *[]domain.FilterField) *huh.MultiSelect[domain.FilterField] {
	options := make([]huh.Option[domain.FilterField], len(domain.FilterFields))
	for i, f := range domain.FilterFields {
		options[i] = huh.NewOption(f.String(), f)
	}
	return huh.NewMultiSelect[domain.FilterField]().
		Title("Filter by").
		Description("Keep rows whose selected columns all contain the search value").
		Options(options...).
		Value(value)
}

func newPageForm(raw *string, lastPage int) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Page number (1-%d)", lastPage)).
			Description("Leave empty to return to the menu").
			Value(raw).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
					return fmt.Errorf("page must be a whole number")
				}
				return nil
			}),
	))
}

// parsePage reads the page prompt. ok is false when the user left it empty.
// Out-of-range numbers are clamped into [1, lastPage].
func parsePage(raw string, lastPage int) (page int, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return service.ClampPage(n, lastPage), true
}

func searchLabel(f domain.SearchField) string {
	if f == domain.SearchByID {
		return "ID"
	}
	return strings.ToUpper(f.String()[:1]) + f.String()[1:]
}

func sortLabel(f domain.SortField) string {
	return strings.ToUpper(f.String()[:1]) + f.String()[1:]
}
