package service

import "github.com/locvowork/employee_records/internal/domain"

// ResultProcessor applies the secondary in-memory filters and slices the
// result into pages.
type ResultProcessor struct {
	PageSize int
}

// NewResultProcessor creates a processor with the standard page size.
func NewResultProcessor() *ResultProcessor {
	return &ResultProcessor{PageSize: domain.PageSize}
}

// Process filters records and returns the requested page of what remains.
func (rp *ResultProcessor) Process(records []domain.Employee, filters domain.FilterSet, needle string, page int) domain.ResultPage {
	return rp.Paginate(ApplyFilters(records, filters, needle), page)
}

// ApplyFilters keeps the records whose every selected field contains needle,
// ignoring case. An empty filter set or an empty needle keeps everything.
func ApplyFilters(records []domain.Employee, filters domain.FilterSet, needle string) []domain.Employee {
	if len(filters) == 0 {
		return records
	}

	out := make([]domain.Employee, 0, len(records))
	for _, e := range records {
		keep := true
		for _, f := range filters {
			if !domain.ContainsFold(e.FieldText(f), needle) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

// Paginate clamps page into [1, last page] and returns that window.
func (rp *ResultProcessor) Paginate(records []domain.Employee, page int) domain.ResultPage {
	size := rp.PageSize
	if size <= 0 {
		size = domain.PageSize
	}

	total := len(records)
	lastPage := LastPage(total, size)
	page = ClampPage(page, lastPage)

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	window := make([]domain.Employee, end-start)
	copy(window, records[start:end])

	return domain.ResultPage{
		Records:  window,
		Total:    total,
		Page:     page,
		LastPage: lastPage,
		PageSize: size,
	}
}

// LastPage is ceil(total/size), never less than 1.
func LastPage(total, size int) int {
	last := (total + size - 1) / size
	if last < 1 {
		return 1
	}
	return last
}

// ClampPage forces page into [1, lastPage].
func ClampPage(page, lastPage int) int {
	if page < 1 {
		return 1
	}
	if page > lastPage {
		return lastPage
	}
	return page
}
