package budget

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRemainingNeverNegative(t *testing.T) {
	m := New(1 * time.Second)
	m.start = time.Now().Add(-1200 * time.Millisecond)

	if got := m.Remaining(); got != 0 {
		t.Errorf("Remaining() = %v, want 0", got)
	}
	if m.Elapsed() < 1200*time.Millisecond {
		t.Errorf("Elapsed() = %v, want >= 1.2s", m.Elapsed())
	}
}

func TestExecuteExhaustedBudgetNeverInvokesStage(t *testing.T) {
	m := New(1 * time.Second)
	m.start = time.Now().Add(-1200 * time.Millisecond)

	invoked := false
	err := m.Execute(context.Background(), "search", 500*time.Millisecond, func(ctx context.Context) error {
		invoked = true
		return nil
	})
	if !errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("Execute() error = %v, want ErrBudgetExhausted", err)
	}
	if invoked {
		t.Error("stage was invoked despite exhausted budget")
	}
}

func TestExecuteSuccess(t *testing.T) {
	m := New(time.Second)

	ran := false
	err := m.Execute(context.Background(), "translation", 500*time.Millisecond, func(ctx context.Context) error {
		ran = true
		if _, ok := ctx.Deadline(); !ok {
			t.Error("stage context has no deadline")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ran {
		t.Error("stage did not run")
	}
}

func TestExecuteStageTimeout(t *testing.T) {
	m := New(time.Second)

	err := m.Execute(context.Background(), "search", 20*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	var timeout *StageTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Execute() error = %v, want *StageTimeoutError", err)
	}
	if timeout.Label != "search" {
		t.Errorf("timeout label = %q, want %q", timeout.Label, "search")
	}
}

func TestExecuteClampsToRemaining(t *testing.T) {
	m := New(50 * time.Millisecond)

	// Stage budget far exceeds the total; the clamp must cut it down.
	start := time.Now()
	err := m.Execute(context.Background(), "enrich", 10*time.Second, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	elapsed := time.Since(start)

	var timeout *StageTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Execute() error = %v, want *StageTimeoutError", err)
	}
	if timeout.Allotted > 50*time.Millisecond {
		t.Errorf("allotted %v exceeds total budget", timeout.Allotted)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("stage ran %v, clamp did not apply", elapsed)
	}
}

func TestExecuteStageError(t *testing.T) {
	m := New(time.Second)
	stageErr := errors.New("upstream unavailable")

	err := m.Execute(context.Background(), "search", 100*time.Millisecond, func(ctx context.Context) error {
		return stageErr
	})
	if !errors.Is(err, stageErr) {
		t.Errorf("Execute() error = %v, want wrapped stage error", err)
	}
}

func TestExecutePropagatesParentCancel(t *testing.T) {
	m := New(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Execute(ctx, "search", 100*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

// Once the total is consumed, every later call fails without running its
// stage, regardless of its own ceiling.
func TestBudgetMonotonicity(t *testing.T) {
	m := New(60 * time.Millisecond)

	busy := func(d time.Duration) StageFunc {
		return func(ctx context.Context) error {
			select {
			case <-time.After(d):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// Consume the whole budget across a few stages.
	for i := 0; i < 5; i++ {
		if m.Remaining() == 0 {
			break
		}
		_ = m.Execute(context.Background(), "stage", 30*time.Millisecond, busy(40*time.Millisecond))
	}
	if m.Remaining() != 0 {
		// The loop above sleeps past the total; remaining must have hit zero.
		time.Sleep(m.Remaining())
	}

	invoked := false
	err := m.Execute(context.Background(), "late", time.Hour, func(ctx context.Context) error {
		invoked = true
		return nil
	})
	if !errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("post-exhaustion Execute() error = %v, want ErrBudgetExhausted", err)
	}
	if invoked {
		t.Error("stage invoked after budget exhaustion")
	}
}

func TestCheck(t *testing.T) {
	m := New(time.Second)
	if !m.Check(100 * time.Millisecond) {
		t.Error("Check(100ms) = false on a fresh 1s budget")
	}
	m.start = time.Now().Add(-950 * time.Millisecond)
	if m.Check(100 * time.Millisecond) {
		t.Error("Check(100ms) = true with ~50ms remaining")
	}
}
