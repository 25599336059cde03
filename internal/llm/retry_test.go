package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/profiler/internal/config"
)

func newTestRetry(inner Provider) (*RetryProvider, *[]time.Duration) {
	r := WithRetry(inner, config.RetryConfig{
		MaxAttempts: 3,
		InitialWait: 10 * time.Millisecond,
		MaxWait:     40 * time.Millisecond,
		Multiplier:  2,
	}, nil)
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	r, waits := newTestRetry(mock)

	resp, err := r.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Errorf("Content = %s", resp.Content)
	}
	if mock.CallCount() != 2 || len(*waits) != 1 {
		t.Errorf("calls = %d, waits = %d; want 2, 1", mock.CallCount(), len(*waits))
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r, waits := newTestRetry(mock)

	_, err := r.Generate(context.Background(), Request{})
	if Outcome(err) != "rate_limit" {
		t.Fatalf("err = %v, want rate limit", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("CallCount() = %d, want 3", mock.CallCount())
	}
	if len(*waits) != 2 {
		t.Errorf("slept %d times, want 2", len(*waits))
	}
}

func TestRetry_NotRetried(t *testing.T) {
	for _, err := range []error{
		&ErrRequestRejected{Status: 401},
		&ErrMaxTokensExceeded{},
		context.Canceled,
	} {
		mock := NewMockProvider(MockResponse{Err: err}, MockResponse{Content: json.RawMessage(`{}`)})
		r, _ := newTestRetry(mock)
		if _, got := r.Generate(context.Background(), Request{}); !errors.Is(got, err) {
			t.Errorf("Generate() error = %v, want %v", got, err)
		}
		if mock.CallCount() != 1 {
			t.Errorf("%T: CallCount() = %d, want 1", err, mock.CallCount())
		}
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r, _ := newTestRetry(mock)

	if _, err := r.Generate(context.Background(), Request{}); Outcome(err) != "invalid_response" {
		t.Fatalf("err = %v, want invalid response", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2", mock.CallCount())
	}
}

func TestRetry_RespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 25 * time.Millisecond}},
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Hour}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r, waits := newTestRetry(mock)

	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (*waits)[0] != 25*time.Millisecond {
		t.Errorf("first wait = %v, want 25ms", (*waits)[0])
	}
	if (*waits)[1] != 40*time.Millisecond {
		t.Errorf("second wait = %v, want capped 40ms", (*waits)[1])
	}
}

func TestRetry_ContextCanceledDuringWait(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r, _ := newTestRetry(mock)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBackoffBounds(t *testing.T) {
	r, _ := newTestRetry(NewMockProvider())
	for attempt := range 6 {
		d := r.backoff(attempt, errors.New("x"))
		if d < 0 || d > 48*time.Millisecond {
			t.Errorf("backoff(%d) = %v, outside [0, MaxWait+20%%]", attempt, d)
		}
	}
}

func TestWithRetry_Defaults(t *testing.T) {
	r := WithRetry(NewMockProvider(), config.RetryConfig{}, nil)
	if r.cfg.MaxAttempts != 3 || r.cfg.InitialWait != time.Second || r.cfg.Multiplier != 2 {
		t.Errorf("cfg = %+v", r.cfg)
	}
}
