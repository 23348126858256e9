package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestNew_WithZeroValues(t *testing.T) {
	retrier := New(&Config{JitterFactor: 3})

	if retrier.config.InitialInterval != time.Second {
		t.Errorf("InitialInterval = %v, want 1s", retrier.config.InitialInterval)
	}
	if retrier.config.MaxInterval != 30*time.Second {
		t.Errorf("MaxInterval = %v, want 30s", retrier.config.MaxInterval)
	}
	if retrier.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", retrier.config.Multiplier)
	}
	if retrier.config.JitterFactor != 1 {
		t.Errorf("JitterFactor = %f, want clamped to 1", retrier.config.JitterFactor)
	}
}

func TestRetrier_Do_SuccessAfterRetries(t *testing.T) {
	calls := 0
	result := New(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("venue row locked")
		}
		return nil
	})

	if result.Err != nil {
		t.Fatalf("Err = %v, want nil", result.Err)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	if result.LastError != nil {
		t.Errorf("LastError = %v, want nil after success", result.LastError)
	}
}

func TestRetrier_Do_MaxRetriesExceeded(t *testing.T) {
	opErr := errors.New("connection reset")
	var waits []int

	result := New(fastConfig(2)).DoWithCallback(context.Background(), func(ctx context.Context) error {
		return opErr
	}, func(attempt int, err error, next time.Duration) {
		waits = append(waits, attempt)
	})

	if !errors.Is(result.Err, ErrMaxRetriesExceeded) {
		t.Fatalf("Err = %v, want ErrMaxRetriesExceeded", result.Err)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	if !errors.Is(result.LastError, opErr) {
		t.Errorf("LastError = %v, want %v", result.LastError, opErr)
	}
	if len(waits) != 2 {
		t.Errorf("callback ran %d times, want 2", len(waits))
	}
}

func TestRetrier_Do_PermanentError(t *testing.T) {
	notFound := errors.New("venue not found")
	calls := 0

	result := New(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(notFound)
	})

	if !errors.Is(result.Err, notFound) {
		t.Fatalf("Err = %v, want %v", result.Err, notFound)
	}
	if calls != 1 {
		t.Errorf("operation called %d times, want 1", calls)
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestRetrier_Do_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(10)
	cfg.InitialInterval = time.Hour
	cfg.MaxInterval = time.Hour

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := New(cfg).Do(ctx, func(ctx context.Context) error {
		return errors.New("still failing")
	})

	if !errors.Is(result.Err, ErrContextCanceled) {
		t.Fatalf("Err = %v, want ErrContextCanceled", result.Err)
	}
	if time.Since(start) > time.Second {
		t.Error("retrier kept waiting after cancellation")
	}
}

func TestRetrier_Interval(t *testing.T) {
	r := New(&Config{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second, Multiplier: 2.0})

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond, time.Second}
	for attempt, expected := range want {
		if got := r.interval(attempt); got != expected {
			t.Errorf("interval(%d) = %v, want %v", attempt, got, expected)
		}
	}

	jittered := New(&Config{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second, Multiplier: 2.0, JitterFactor: 0.1})
	for i := 0; i < 50; i++ {
		got := jittered.interval(0)
		if got < 90*time.Millisecond || got > 110*time.Millisecond {
			t.Fatalf("jittered interval %v outside +/-10%%", got)
		}
	}
}

func TestDo_ConvenienceFunction(t *testing.T) {
	result := Do(context.Background(), fastConfig(0), func(ctx context.Context) error {
		return errors.New("boom")
	})

	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1 with no retries", result.Attempts)
	}
}
