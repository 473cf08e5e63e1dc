package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/backoffice/internal/clock"
	"github.com/example/backoffice/internal/ports/primary"
)

func TestSubmissionGuard(t *testing.T) {
	clk := clock.NewFake(testNow)
	cache := newMockCache(clk)
	metrics := newMockMetrics()
	guard := NewSubmissionGuard(cache, metrics, 0, clk)
	ctx := context.Background()

	if err := guard.Guard(ctx, "session-1", "token-a"); err != nil {
		t.Fatalf("first submission refused: %v", err)
	}

	if err := guard.Guard(ctx, "session-1", "token-a"); !errors.Is(err, primary.ErrDuplicateSubmission) {
		t.Errorf("expected ErrDuplicateSubmission, got %v", err)
	}
	if metrics.duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", metrics.duplicates)
	}

	if err := guard.Guard(ctx, "session-1", "token-b"); err != nil {
		t.Errorf("fresh token refused: %v", err)
	}
	if err := guard.Guard(ctx, "session-2", "token-a"); err != nil {
		t.Errorf("other session refused: %v", err)
	}

	clk.Advance(DefaultCrumbTTL - time.Second)
	if err := guard.Guard(ctx, "session-1", "token-a"); !errors.Is(err, primary.ErrDuplicateSubmission) {
		t.Errorf("crumb expired early: %v", err)
	}

	clk.Advance(time.Second)
	if err := guard.Guard(ctx, "session-1", "token-a"); err != nil {
		t.Errorf("expired crumb still blocks: %v", err)
	}
}

func TestSubmissionGuardWithoutToken(t *testing.T) {
	clk := clock.NewFake(testNow)
	guard := NewSubmissionGuard(newMockCache(clk), newMockMetrics(), time.Hour, clk)
	ctx := context.Background()

	if err := guard.Guard(ctx, "session-1", ""); err != nil {
		t.Fatalf("first submission refused: %v", err)
	}
	if err := guard.Guard(ctx, "session-1", ""); !errors.Is(err, primary.ErrDuplicateSubmission) {
		t.Errorf("expected ErrDuplicateSubmission, got %v", err)
	}
	if err := guard.Guard(ctx, "", "token"); !errors.Is(err, primary.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated without session, got %v", err)
	}
}

func TestSubmissionGuardConcurrent(t *testing.T) {
	clk := clock.NewFake(testNow)
	guard := NewSubmissionGuard(newMockCache(clk), newMockMetrics(), time.Hour, clk)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := guard.Guard(context.Background(), "session-1", "token-a"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted = %d, want exactly 1", accepted)
	}
}

func TestSubmissionGuardCacheError(t *testing.T) {
	clk := clock.NewFake(testNow)
	cache := newMockCache(clk)
	cache.err = errors.New("cache down")
	guard := NewSubmissionGuard(cache, newMockMetrics(), time.Hour, clk)

	err := guard.Guard(context.Background(), "session-1", "t")
	if err == nil || errors.Is(err, primary.ErrDuplicateSubmission) {
		t.Errorf("expected wrapped cache error, got %v", err)
	}
}

func TestNewSubmissionTokenUnique(t *testing.T) {
	a, b := NewSubmissionToken(), NewSubmissionToken()
	if a == "" || a == b {
		t.Errorf("tokens not unique: %q %q", a, b)
	}
}
