package database

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAdder struct {
	mu     sync.Mutex
	added  []domain.NewEmployee
	failAt int
	calls  int
}

func (r *recordingAdder) Add(ctx context.Context, n domain.NewEmployee) (domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failAt > 0 && len(r.added)+1 == r.failAt {
		return domain.Employee{}, domain.NewStoreError("insert", errors.New("disk full"))
	}
	r.added = append(r.added, n)
	return n.WithID(int64(len(r.added))), nil
}

func quietSeeder(adder EmployeeAdder, seed int64) *DataSeeder {
	ds := NewDataSeeder(adder, seed)
	ds.out = func(string, ...interface{}) {}
	ds.retries = 1
	return ds
}

func TestDataSeeder_SeedData(t *testing.T) {
	adder := &recordingAdder{}
	n, err := quietSeeder(adder, 1).SeedData(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, 40, n)
	require.Len(t, adder.added, 40)

	for _, e := range adder.added {
		assert.NotEmpty(t, e.Name)
		assert.GreaterOrEqual(t, e.Age, domain.MinAge)
		assert.False(t, e.Salary.IsNegative())
		assert.Contains(t, departments, e.Department)
		assert.Contains(t, roles, e.Role)
	}
}

func TestDataSeeder_Deterministic(t *testing.T) {
	a, b := &recordingAdder{}, &recordingAdder{}
	_, err := quietSeeder(a, 42).SeedData(context.Background(), 10)
	require.NoError(t, err)
	_, err = quietSeeder(b, 42).SeedData(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, a.added, b.added)
}

func TestDataSeeder_StopsOnError(t *testing.T) {
	adder := &recordingAdder{failAt: 3}
	n, err := quietSeeder(adder, 1).SeedData(context.Background(), 10)

	var storeErr *domain.StoreError
	assert.True(t, errors.As(err, &storeErr))
	assert.Equal(t, 2, n)
	// one retry of the failing insert
	assert.Equal(t, 4, adder.calls)
}

func TestDataSeeder_ConcurrentWorkers(t *testing.T) {
	sequential, concurrent := &recordingAdder{}, &recordingAdder{}
	_, err := quietSeeder(sequential, 7).SeedData(context.Background(), 60)
	require.NoError(t, err)
	n, err := quietSeeder(concurrent, 7).WithWorkers(4).SeedData(context.Background(), 60)
	require.NoError(t, err)
	assert.Equal(t, 60, n)

	names := func(r *recordingAdder) []string {
		out := make([]string, len(r.added))
		for i, e := range r.added {
			out[i] = e.Name + e.Salary.String()
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, names(sequential), names(concurrent))
}

func TestDataSeeder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := quietSeeder(&recordingAdder{}, 1).SeedData(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestGetPresetConfig(t *testing.T) {
	assert.Equal(t, 25, GetPresetConfig(PresetSmall))
	assert.Equal(t, 250, GetPresetConfig(PresetMedium))
	assert.Equal(t, 5000, GetPresetConfig(PresetLarge))
	assert.Equal(t, 250, GetPresetConfig("unknown"))
}
