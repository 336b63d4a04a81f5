package llm

import (
	"context"
	"testing"
	"time"
)

func TestRPSLimiter_NilIsDisabled(t *testing.T) {
	var l *rpsLimiter
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("nil limiter should not block: %v", err)
	}
	l.Stop()
}

func TestRPSLimiter_BurstThenBlocks(t *testing.T) {
	l := newRPSLimiter(0.5, 2)
	defer l.Stop()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("burst acquire %d failed: %v", i, err)
		}
	}

	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := l.Acquire(shortCtx); err == nil {
		t.Fatalf("expected a drained bucket to block until refill")
	}
}
