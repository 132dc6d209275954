package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// ErrPanic wraps a recovered panic in the error returned by Wait.
var ErrPanic = errors.New("goroutine panicked")

// Manager runs tasks in goroutines with a bounded concurrency and joins
// their errors in Wait. A task that never ran because its context ended
// reports the context error, so Wait returning nil means every task ran to
// completion.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   *sync.WaitGroup
	sema chan struct{}
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		wg:   &sync.WaitGroup{},
		sema: make(chan struct{}, maxGoroutine), // Semaphore to limit goroutines
	}
}

// Go blocks until a slot is free, then runs f in a goroutine.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	select {
	case g.sema <- struct{}{}: // Acquire a semaphore slot
	case <-pCtx.Done():
		g.record(pCtx.Err())
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			<-g.sema // Release semaphore slot

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "panic", rvr, "stack", string(debug.Stack()))
				g.record(fmt.Errorf("%w: %v", ErrPanic, rvr))
			}
		}()

		if err := pCtx.Err(); err != nil {
			g.record(err)
			return
		}
		if err := f(pCtx); err != nil {
			g.record(err)
		}
	}()
}

// Wait blocks until all scheduled goroutines finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}
