package dataflow_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/locvowork/employee_records/pkg/dataflow"
)

func TestForEachWithWorkers(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var seen []int
	err := dataflow.ForEach(ctx, dataflow.From(ctx, 1, 2, 3, 4, 5, 6), func(_ context.Context, n int) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, n)
		return nil
	}, dataflow.WithWorkers(3))

	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	sort.Ints(seen)
	if fmt.Sprint(seen) != "[1 2 3 4 5 6]" {
		t.Errorf("unexpected items %v", seen)
	}
}

func TestGenerateKeepsOrder(t *testing.T) {
	ctx := context.Background()

	var got []string
	err := dataflow.ForEach(ctx, dataflow.Generate(ctx, 4, func(i int) string {
		return fmt.Sprintf("row-%d", i)
	}, dataflow.WithBufferSize(2)), func(_ context.Context, s string) error {
		got = append(got, s)
		return nil
	})

	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if fmt.Sprint(got) != "[row-0 row-1 row-2 row-3]" {
		t.Errorf("unexpected order %v", got)
	}
}

var errTransient = errors.New("transient error")

func TestForEachRetry(t *testing.T) {
	ctx := context.Background()

	var attempts int32
	err := dataflow.ForEach(ctx, dataflow.From(ctx, "retry"), func(_ context.Context, _ string) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errTransient
		}
		return nil
	}, dataflow.WithRetry(3, func(int) time.Duration { return time.Millisecond }))

	if err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestForEachRetryIf(t *testing.T) {
	ctx := context.Background()
	permanent := errors.New("permanent")

	var attempts int32
	err := dataflow.ForEach(ctx, dataflow.From(ctx, 1), func(_ context.Context, _ int) error {
		atomic.AddInt32(&attempts, 1)
		return permanent
	},
		dataflow.WithRetry(5, nil),
		dataflow.WithRetryIf(func(err error) bool { return errors.Is(err, errTransient) }),
	)

	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected no retries, got %d attempts", attempts)
	}
}

func TestForEachStopsOnFirstError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	var processed int32
	err := dataflow.ForEach(ctx, dataflow.From(ctx, 1, 2, 3, 4, 5), func(_ context.Context, n int) error {
		atomic.AddInt32(&processed, 1)
		if n == 2 {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if processed != 2 {
		t.Errorf("expected processing to stop after item 2, got %d items", processed)
	}
}

func TestForEachErrorHandlerSkips(t *testing.T) {
	ctx := context.Background()

	var skipped int32
	err := dataflow.ForEach(ctx, dataflow.From(ctx, 1, 2, 3), func(_ context.Context, n int) error {
		if n%2 == 1 {
			return errTransient
		}
		return nil
	}, dataflow.WithErrorHandler(func(err error) bool {
		atomic.AddInt32(&skipped, 1)
		return true
	}))

	if err != nil {
		t.Fatalf("expected handled errors to be skipped, got %v", err)
	}
	if skipped != 2 {
		t.Errorf("expected 2 skipped items, got %d", skipped)
	}
}

func TestForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := dataflow.ForEach(ctx, dataflow.From(context.Background(), 1), func(context.Context, int) error {
		t.Error("fn must not run on a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
