package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryWithContext_SuccessAfterRetries(t *testing.T) {
	calls := 0
	result, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 99, nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result != 99 {
		t.Fatalf("expected 99, got %d", result)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithContext_PersistentFailure(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("persistent")
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "persistent" {
		t.Fatalf("expected persistent error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithContext_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithContext(ctx, 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected 0 calls, got %d", calls)
	}
}

func TestRetryWithContext_StopsOnDeadlineError(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), 5, func(ctx context.Context) (int, error) {
		calls++
		return 0, context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryErrWithContext_MaxTriesZero(t *testing.T) {
	calls := 0
	err := RetryErrWithContext(context.Background(), 0, func(ctx context.Context) error {
		calls++
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call for maxTries=0, got %d", calls)
	}
}

func TestRetryErrWithContext_RespectsDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	<-ctx.Done()

	err := RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		t.Error("fn called after deadline")
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
