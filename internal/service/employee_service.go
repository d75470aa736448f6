package service

import (
	"context"
	"errors"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/metrics"
)

// EmployeeService is the query engine: it turns user criteria into store
// predicates and runs them. Store failures never escape as panics; reads
// degrade to an empty result plus a typed error the caller can show.
type EmployeeService struct {
	store     domain.RecordStore
	processor *ResultProcessor
}

// NewEmployeeService creates a new EmployeeService over the given store.
func NewEmployeeService(store domain.RecordStore) *EmployeeService {
	return &EmployeeService{
		store:     store,
		processor: NewResultProcessor(),
	}
}

// Add inserts one record and returns it with its assigned id.
func (s *EmployeeService) Add(ctx context.Context, n domain.NewEmployee) (domain.Employee, error) {
	id, err := s.store.Insert(ctx, n)
	if err != nil {
		var constraintErr *domain.ConstraintError
		if errors.As(err, &constraintErr) {
			metrics.OperationsTotal.WithLabelValues("add", metrics.StatusRejected).Inc()
		} else {
			err = asStoreError("insert", err)
			metrics.OperationsTotal.WithLabelValues("add", metrics.StatusStoreError).Inc()
		}
		logger.WarnLog(ctx, "add employee %q: %v", n.Name, err)
		return domain.Employee{}, err
	}

	metrics.OperationsTotal.WithLabelValues("add", metrics.StatusOK).Inc()
	logger.InfoLog(ctx, "added employee %d (%s)", id, n.Name)
	return n.WithID(id), nil
}

// Search returns the records matching the criteria in store order. A
// non-integer id yields an empty result and an *InputError.
func (s *EmployeeService) Search(ctx context.Context, c domain.SearchCriteria) ([]domain.Employee, error) {
	p, err := c.Field.Predicate(c.Value)
	if err != nil {
		metrics.OperationsTotal.WithLabelValues("search", metrics.StatusInvalid).Inc()
		logger.WarnLog(ctx, "search by %s: %v", c.Field, err)
		return []domain.Employee{}, err
	}
	return s.query(ctx, "search", p)
}

// Sort returns every record ascending by the chosen field. Records with equal
// keys come back in whatever order the store engine yields.
func (s *EmployeeService) Sort(ctx context.Context, c domain.SortCriteria) ([]domain.Employee, error) {
	p, err := c.Field.Predicate()
	if err != nil {
		metrics.OperationsTotal.WithLabelValues("sort", metrics.StatusInvalid).Inc()
		logger.WarnLog(ctx, "sort by %s: %v", c.Field, err)
		return []domain.Employee{}, err
	}
	return s.query(ctx, "sort", p)
}

// SearchPage runs a search and post-processes it into one result page. The
// page is valid (possibly empty) even when err is non-nil.
func (s *EmployeeService) SearchPage(ctx context.Context, c domain.SearchCriteria, filters domain.FilterSet, page int) (domain.ResultPage, error) {
	rows, err := s.Search(ctx, c)
	return s.processor.Process(rows, filters, c.FilterValue(), page), err
}

// SortPage runs a sort and post-processes it into one result page. Filters
// see an empty needle here, so they keep every record.
func (s *EmployeeService) SortPage(ctx context.Context, c domain.SortCriteria, filters domain.FilterSet, page int) (domain.ResultPage, error) {
	rows, err := s.Sort(ctx, c)
	return s.processor.Process(rows, filters, c.FilterValue(), page), err
}

func (s *EmployeeService) query(ctx context.Context, op string, p domain.Predicate) ([]domain.Employee, error) {
	rows, err := s.store.Query(ctx, p)
	if err != nil {
		err = asStoreError(p.Kind.String(), err)
		metrics.OperationsTotal.WithLabelValues(op, metrics.StatusStoreError).Inc()
		logger.WarnLog(ctx, "%s (%s): %v", op, p.Kind, err)
		return []domain.Employee{}, err
	}
	if rows == nil {
		rows = []domain.Employee{}
	}

	metrics.OperationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()
	metrics.ResultRows.WithLabelValues(op).Observe(float64(len(rows)))
	logger.DebugLog(ctx, "%s (%s) returned %d rows", op, p.Kind, len(rows))
	return rows, nil
}

// asStoreError keeps typed store errors and wraps anything else.
func asStoreError(op string, err error) error {
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return domain.NewStoreError(op, err)
}
