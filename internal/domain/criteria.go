package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SearchField selects which column a search matches against.
type SearchField int

const (
	SearchByID SearchField = iota + 1
	SearchByName
	SearchByDepartment
	SearchByRole
)

// SearchFields lists the search variants in the order the surfaces offer them.
var SearchFields = []SearchField{SearchByID, SearchByName, SearchByDepartment, SearchByRole}

func (f SearchField) String() string {
	switch f {
	case SearchByID:
		return "id"
	case SearchByName:
		return "name"
	case SearchByDepartment:
		return "department"
	case SearchByRole:
		return "role"
	}
	return "unknown"
}

// ParseSearchField maps a user-facing field name to its variant.
func ParseSearchField(s string) (SearchField, error) {
	for _, f := range SearchFields {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, nil
		}
	}
	return 0, NewInputError("by", s, fmt.Errorf("search field must be one of id, name, department, role"))
}

// Predicate applies the variant's coercion rule to the raw user value.
// An id search needs an integer; the text fields match by substring.
func (f SearchField) Predicate(raw string) (Predicate, error) {
	switch f {
	case SearchByID:
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Predicate{}, NewInputError("id", raw, fmt.Errorf("please enter a valid integer for ID"))
		}
		return Predicate{Kind: MatchID, ID: id}, nil
	case SearchByName:
		return Predicate{Kind: MatchName, Substring: raw}, nil
	case SearchByDepartment:
		return Predicate{Kind: MatchDepartment, Substring: raw}, nil
	case SearchByRole:
		return Predicate{Kind: MatchRole, Substring: raw}, nil
	}
	return Predicate{}, NewInputError("by", f.String(), fmt.Errorf("unsupported search field"))
}

// SortField selects the ordering column of a sort request.
type SortField int

const (
	SortByAge SortField = iota + 1
	SortBySalary
)

// SortFields lists the sort variants in display order.
var SortFields = []SortField{SortByAge, SortBySalary}

func (f SortField) String() string {
	switch f {
	case SortByAge:
		return "age"
	case SortBySalary:
		return "salary"
	}
	return "unknown"
}

// ParseSortField maps a user-facing field name to its variant.
func ParseSortField(s string) (SortField, error) {
	for _, f := range SortFields {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, nil
		}
	}
	return 0, NewInputError("by", s, fmt.Errorf("sort field must be one of age, salary"))
}

// Predicate returns the ordering predicate for the field.
func (f SortField) Predicate() (Predicate, error) {
	switch f {
	case SortByAge:
		return Predicate{Kind: OrderByAge}, nil
	case SortBySalary:
		return Predicate{Kind: OrderBySalary}, nil
	}
	return Predicate{}, NewInputError("by", f.String(), fmt.Errorf("unsupported sort field"))
}

// SearchCriteria is the field/value pair of a search request.
type SearchCriteria struct {
	Field SearchField
	Value string
}

// FilterValue is the needle the post-query filters use after a search.
func (c SearchCriteria) FilterValue() string {
	return c.Value
}

// SortCriteria is the ordering of a sort request.
type SortCriteria struct {
	Field SortField
}

// FilterValue is always empty after a sort, so filters pass every record.
func (c SortCriteria) FilterValue() string {
	return ""
}

// FilterField is a displayed column a post-query filter can target.
type FilterField int

const (
	FilterName FilterField = iota + 1
	FilterAge
	FilterSalary
	FilterDepartment
	FilterRole
)

// FilterFields lists the filter columns in display order.
var FilterFields = []FilterField{FilterName, FilterAge, FilterSalary, FilterDepartment, FilterRole}

func (f FilterField) String() string {
	switch f {
	case FilterName:
		return "Name"
	case FilterAge:
		return "Age"
	case FilterSalary:
		return "Salary"
	case FilterDepartment:
		return "Department"
	case FilterRole:
		return "Role"
	}
	return "Unknown"
}

// ParseFilterField is case-insensitive: "name" and "Name" are the same column.
func ParseFilterField(s string) (FilterField, error) {
	for _, f := range FilterFields {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, nil
		}
	}
	return 0, NewInputError("filter", s, fmt.Errorf("filter must be one of name, age, salary, department, role"))
}

// FilterSet is the set of columns selected for secondary filtering.
type FilterSet []FilterField

// ParseFilterSet parses each name and drops duplicates, keeping first-seen order.
func ParseFilterSet(names []string) (FilterSet, error) {
	var fs FilterSet
	seen := make(map[FilterField]bool)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, err := ParseFilterField(n)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		fs = append(fs, f)
	}
	return fs, nil
}

// PredicateKind enumerates the queries a record store must answer.
type PredicateKind int

const (
	MatchID PredicateKind = iota + 1
	MatchName
	MatchDepartment
	MatchRole
	OrderByAge
	OrderBySalary
)

func (k PredicateKind) String() string {
	switch k {
	case MatchID:
		return "exact-match-on-id"
	case MatchName:
		return "substring-match-on-name"
	case MatchDepartment:
		return "substring-match-on-department"
	case MatchRole:
		return "substring-match-on-role"
	case OrderByAge:
		return "order-by-age"
	case OrderBySalary:
		return "order-by-salary"
	}
	return "unknown"
}

// Predicate describes a single store query.
type Predicate struct {
	Kind      PredicateKind
	ID        int64
	Substring string
}

// Column is the employees column the predicate targets.
func (p Predicate) Column() string {
	switch p.Kind {
	case MatchID:
		return "id"
	case MatchName:
		return "name"
	case MatchDepartment:
		return "department"
	case MatchRole:
		return "role"
	case OrderByAge:
		return "age"
	case OrderBySalary:
		return "salary"
	}
	return ""
}

// IsSubstring reports whether the predicate is a case-insensitive text match.
func (p Predicate) IsSubstring() bool {
	return p.Kind == MatchName || p.Kind == MatchDepartment || p.Kind == MatchRole
}

// IsOrdering reports whether the predicate returns every record in column order.
func (p Predicate) IsOrdering() bool {
	return p.Kind == OrderByAge || p.Kind == OrderBySalary
}

// ContainsFold is the in-memory form of the substring predicate, for stores
// that cannot evaluate it themselves.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
