package task

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGo_CompletesWithValue(t *testing.T) {
	t.Parallel()

	tk := Go(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	got, err := tk.Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Result() = %d, want 42", got)
	}

	select {
	case <-tk.Done():
	default:
		t.Error("Done() not closed after Result returned")
	}
}

func TestGo_CompletesWithError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	tk := Go(context.Background(), func(ctx context.Context) (string, error) {
		return "", wantErr
	})

	_, err := tk.Wait(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("Wait() error = %v, want %v", err, wantErr)
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	t.Parallel()

	tk := Go(context.Background(), func(ctx context.Context) (int, error) {
		panic("bad")
	})

	if _, err := tk.Result(); err == nil {
		t.Fatal("expected error from panicking task")
	}
}

func TestWait_ContextDone(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	tk := Go(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := tk.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}

	close(release)
	got, err := tk.Result()
	if err != nil || got != 1 {
		t.Errorf("Result() = (%d, %v), want (1, nil)", got, err)
	}

	// Repeated reads observe the same single completion.
	again, err := tk.Wait(context.Background())
	if err != nil || again != 1 {
		t.Errorf("second Wait() = (%d, %v), want (1, nil)", again, err)
	}
}
