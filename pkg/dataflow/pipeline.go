package dataflow

import (
	"context"
	"sync"
	"time"
)

// Stream is a read-only channel of messages.
type Stream[T any] <-chan T

// From creates a stream from a slice of data.
func From[T any](ctx context.Context, items ...T) Stream[T] {
	out := make(chan T, len(items))
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}
	}()
	return out
}

// Generate creates a stream of n items produced by fn(0) .. fn(n-1), in order.
func Generate[T any](ctx context.Context, n int, fn func(i int) T, opts ...Option) Stream[T] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	out := make(chan T, cfg.bufferSize)
	go func() {
		defer close(out)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case out <- fn(i):
			}
		}
	}()
	return out
}

// ForEach executes fn for every item in the stream.
// It blocks until the stream is exhausted, the context is cancelled, or an
// unhandled error stops every worker. The first unhandled error is returned.
func ForEach[T any](ctx context.Context, input Stream[T], fn func(context.Context, T) error, opts ...Option) error {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error

	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}

				err := call(runCtx, cfg, func() error { return fn(runCtx, msg) })
				if err == nil {
					continue
				}
				if cfg.errorHandler != nil && cfg.errorHandler(err) {
					continue
				}
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// call runs fn with the configured retry policy.
func call(ctx context.Context, cfg *config, fn func() error) error {
	err := fn()
	for attempt := 1; err != nil && cfg.shouldRetry(err, attempt); attempt++ {
		if cfg.backoff != nil {
			select {
			case <-ctx.Done():
				return err
			case <-time.After(cfg.backoff(attempt)):
			}
		}
		err = fn()
	}
	return err
}
