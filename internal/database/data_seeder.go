package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/pkg/dataflow"
	"github.com/shopspring/decimal"
)

// EmployeeAdder is the write side of the query engine the seeder goes through,
// so seeded rows pass the same checks as user input.
type EmployeeAdder interface {
	Add(ctx context.Context, n domain.NewEmployee) (domain.Employee, error)
}

type DataSeeder struct {
	adder   EmployeeAdder
	rng     *rand.Rand
	workers int
	retries int
	out     func(format string, args ...interface{})
}

// NewDataSeeder creates a seeder. The same seed yields the same employees.
func NewDataSeeder(adder EmployeeAdder, seed int64) *DataSeeder {
	return &DataSeeder{
		adder:   adder,
		rng:     rand.New(rand.NewSource(seed)),
		workers: 1,
		retries: 2,
		out:     func(format string, args ...interface{}) { fmt.Printf(format, args...) },
	}
}

var (
	firstNames  = []string{"Alice", "Bob", "Carol", "David", "Emma", "Felix", "Grace", "Hieu", "Ivy", "Khoa", "Linh", "Minh", "Nam", "Olivia", "Phuong", "Quan"}
	lastNames   = []string{"Nguyen", "Tran", "Le", "Pham", "Smith", "Johnson", "Garcia", "Kim", "Sato", "Muller"}
	departments = []string{"Engineering", "Sales", "Marketing", "Finance", "Human Resources", "Operations", "Support"}
	roles       = []string{"Developer", "Manager", "Analyst", "Designer", "Engineer", "Lead", "Intern", "Director"}
)

// RandomEmployee generates one valid employee.
func (ds *DataSeeder) RandomEmployee() domain.NewEmployee {
	cents := 2_500_000 + ds.rng.Int63n(15_000_000)
	return domain.NewEmployee{
		Name:       firstNames[ds.rng.Intn(len(firstNames))] + " " + lastNames[ds.rng.Intn(len(lastNames))],
		Age:        domain.MinAge + ds.rng.Intn(48),
		Salary:     decimal.New(cents, -2),
		Department: departments[ds.rng.Intn(len(departments))],
		Role:       roles[ds.rng.Intn(len(roles))],
	}
}

// SeedData inserts count random employees and returns how many were stored.
// Store failures are retried; rejected records stop the run.
func (ds *DataSeeder) SeedData(ctx context.Context, count int) (int, error) {
	start := time.Now()
	ds.out("🚀 Seeding %d employees with %d workers...\n", count, ds.workers)

	// Generation stays sequential so a seed always yields the same records.
	employees := make([]domain.NewEmployee, count)
	for i := range employees {
		employees[i] = ds.RandomEmployee()
	}

	var added atomic.Int64
	err := dataflow.ForEach(ctx, dataflow.From(ctx, employees...), func(ctx context.Context, n domain.NewEmployee) error {
		if _, err := ds.adder.Add(ctx, n); err != nil {
			return fmt.Errorf("failed to insert employee %q: %w", n.Name, err)
		}
		if done := added.Add(1); done%500 == 0 {
			ds.out("  ... %d/%d\n", done, count)
		}
		return nil
	},
		dataflow.WithWorkers(ds.workers),
		dataflow.WithRetry(ds.retries, func(attempt int) time.Duration { return time.Duration(attempt) * 50 * time.Millisecond }),
		dataflow.WithRetryIf(isStoreError),
	)

	n := int(added.Load())
	if err != nil {
		return n, err
	}

	elapsed := time.Since(start)
	ds.out("🎉 Created %d employees in %v\n", n, elapsed)
	logger.InfoLog(ctx, "seeded %d employees in %v", n, elapsed)
	return n, nil
}

// WithWorkers sets how many inserts run concurrently.
func (ds *DataSeeder) WithWorkers(n int) *DataSeeder {
	if n > 0 {
		ds.workers = n
	}
	return ds
}

func isStoreError(err error) bool {
	var storeErr *domain.StoreError
	return errors.As(err, &storeErr)
}

// Presets
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

// GetPresetConfig returns the employee count of a preset.
func GetPresetConfig(preset SeedPreset) int {
	switch preset {
	case PresetSmall:
		return 25
	case PresetMedium:
		return 250
	case PresetLarge:
		return 5000
	default:
		return 250
	}
}
