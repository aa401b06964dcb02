package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// stubClient scripts per-call outcomes and records call times.
type stubClient struct {
	calls     int
	callTimes []time.Time
	fn        func(call int) (string, error)
}

func (c *stubClient) GenerateContent(_ context.Context, _ *Request) (string, error) {
	c.calls++
	c.callTimes = append(c.callTimes, time.Now())
	return c.fn(c.calls)
}

func newTestInvoker(client Client, baseDelay time.Duration) *Invoker {
	inv := NewInvoker(client, zap.NewNop())
	inv.baseDelay = baseDelay
	return inv
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"quota text", errors.New("exceeded your current quota"), true},
		{"resource exhausted", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"http 429", errors.New("googleapi: Error 429: rate limited"), true},
		{"auth failure", errors.New("API key not valid"), false},
		{"timeout", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestInvoke_SuccessFirstAttempt(t *testing.T) {
	client := &stubClient{fn: func(int) (string, error) { return "hello", nil }}
	inv := newTestInvoker(client, time.Millisecond)

	text, err := inv.Invoke(context.Background(), &Request{}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q, want %q", text, "hello")
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}

func TestInvoke_RetriesOnlyQuotaFailures(t *testing.T) {
	quotaErr := errors.New("429: quota exceeded")
	client := &stubClient{fn: func(call int) (string, error) {
		if call < 3 {
			return "", quotaErr
		}
		return "recovered", nil
	}}
	inv := newTestInvoker(client, time.Millisecond)

	text, err := inv.Invoke(context.Background(), &Request{}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "recovered" {
		t.Errorf("text = %q, want %q", text, "recovered")
	}
	if client.calls != 3 {
		t.Errorf("calls = %d, want 3", client.calls)
	}
}

func TestInvoke_NonQuotaFailurePropagatesImmediately(t *testing.T) {
	terminal := errors.New("model not found")
	client := &stubClient{fn: func(int) (string, error) { return "", terminal }}
	inv := newTestInvoker(client, time.Millisecond)

	_, err := inv.Invoke(context.Background(), &Request{}, 3)
	if !errors.Is(err, terminal) {
		t.Fatalf("err = %v, want terminal upstream error", err)
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}

func TestInvoke_ExhaustionSurfacesLastQuotaError(t *testing.T) {
	quotaErr := errors.New("quota exceeded")
	client := &stubClient{fn: func(int) (string, error) { return "", quotaErr }}
	inv := newTestInvoker(client, time.Millisecond)

	_, err := inv.Invoke(context.Background(), &Request{}, 3)
	if !errors.Is(err, quotaErr) {
		t.Fatalf("err = %v, want last quota error after exhaustion", err)
	}
	if client.calls != 3 {
		t.Errorf("calls = %d, want exactly maxAttempts (3)", client.calls)
	}
}

func TestInvoke_BackoffDoubles(t *testing.T) {
	quotaErr := errors.New("quota exceeded")
	client := &stubClient{fn: func(call int) (string, error) {
		if call < 3 {
			return "", quotaErr
		}
		return "ok", nil
	}}
	inv := newTestInvoker(client, 50*time.Millisecond)

	if _, err := inv.Invoke(context.Background(), &Request{}, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.callTimes) != 3 {
		t.Fatalf("got %d call times, want 3", len(client.callTimes))
	}

	gap1 := client.callTimes[1].Sub(client.callTimes[0])
	gap2 := client.callTimes[2].Sub(client.callTimes[1])
	if gap1 < 50*time.Millisecond {
		t.Errorf("first retry delay = %v, want >= base (50ms)", gap1)
	}
	if gap2 < 100*time.Millisecond {
		t.Errorf("second retry delay = %v, want >= 2x base (100ms)", gap2)
	}
}

func TestInvoke_ContextCancellationStopsRetries(t *testing.T) {
	quotaErr := errors.New("quota exceeded")
	client := &stubClient{fn: func(int) (string, error) { return "", quotaErr }}
	inv := newTestInvoker(client, time.Hour) // backoff would block forever

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := inv.Invoke(ctx, &Request{}, 3)
	if err == nil {
		t.Fatal("expected an error when the context expires mid-backoff")
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}
