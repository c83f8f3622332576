// Package budget tracks a per-request wall-clock allowance and clamps every
// pipeline stage to whatever remains of it.
package budget

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBudgetExhausted means the global deadline was already consumed before a
// stage could start. Fatal to the current request; the stage is never invoked.
var ErrBudgetExhausted = errors.New("request budget exhausted")

// StageTimeoutError means a specific stage exceeded its clamped allotment.
// The stage's execution is abandoned, not forcibly killed; its result is
// discarded.
type StageTimeoutError struct {
	Label    string
	Allotted time.Duration
}

func (e *StageTimeoutError) Error() string {
	return fmt.Sprintf("stage %q timed out after %v", e.Label, e.Allotted)
}

// StageFunc is one bounded unit of pipeline work. It must honor ctx and be
// safe to run to completion detached after its caller has given up on it.
type StageFunc func(ctx context.Context) error

// Manager tracks elapsed time against a fixed total budget. One Manager is
// created per incoming request; it holds no shared state and is mutated only
// by the passage of time.
type Manager struct {
	start time.Time
	total time.Duration
}

// New creates a manager whose clock starts now.
func New(total time.Duration) *Manager {
	return &Manager{start: time.Now(), total: total}
}

// Elapsed returns the wall-clock time consumed so far.
func (m *Manager) Elapsed() time.Duration {
	return time.Since(m.start)
}

// Remaining returns the unconsumed budget, never negative.
func (m *Manager) Remaining() time.Duration {
	if r := m.total - m.Elapsed(); r > 0 {
		return r
	}
	return 0
}

// Check reports whether at least required budget remains. Pure predicate;
// callers use it to decide whether to attempt an optional stage at all.
func (m *Manager) Check(required time.Duration) bool {
	return m.Remaining() >= required
}

// Execute runs fn under the smaller of stageBudget and the remaining global
// budget, so a sequence of stages can never collectively exceed the total
// even when each stage's own ceiling looks safe in isolation.
//
// If nothing remains, it fails with ErrBudgetExhausted without invoking fn.
// If the clamped deadline fires first, it returns a *StageTimeoutError
// carrying the stage label and abandons fn.
func (m *Manager) Execute(ctx context.Context, label string, stageBudget time.Duration, fn StageFunc) error {
	effective := stageBudget
	if remaining := m.Remaining(); remaining < effective {
		effective = remaining
	}
	if effective <= 0 {
		return fmt.Errorf("stage %q: %w", label, ErrBudgetExhausted)
	}

	stageCtx, cancel := context.WithTimeout(ctx, effective)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(stageCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("stage %q: %w", label, err)
		}
		return nil
	case <-stageCtx.Done():
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stage %q: %w", label, err)
		}
		return &StageTimeoutError{Label: label, Allotted: effective}
	}
}
