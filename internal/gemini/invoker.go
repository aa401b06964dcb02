package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts bounds the model call including retries.
	DefaultMaxAttempts = 3

	// defaultBaseDelay seeds the exponential backoff: 1s, 2s, 4s, ...
	defaultBaseDelay = 1 * time.Second

	// defaultAttemptTimeout caps a single model call so a hung upstream
	// cannot stall a request indefinitely.
	defaultAttemptTimeout = 30 * time.Second
)

// quotaMarkers identify rate-limit/quota failures in upstream error text.
// Only these failures are worth retrying; everything else is terminal.
var quotaMarkers = []string{"quota", "RESOURCE_EXHAUSTED", "429"}

// IsQuotaError reports whether err carries a quota/rate-limit signature.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Invoker wraps a Client with bounded exponential-backoff retry. Retries
// happen only on quota failures; any other upstream error propagates on
// the first occurrence. This is the single place raw external errors are
// interpreted — callers above see either text or a terminal error.
type Invoker struct {
	client         Client
	logger         *zap.Logger
	baseDelay      time.Duration
	attemptTimeout time.Duration
}

// NewInvoker creates an Invoker with the default backoff schedule.
func NewInvoker(client Client, logger *zap.Logger) *Invoker {
	return &Invoker{
		client:         client,
		logger:         logger,
		baseDelay:      defaultBaseDelay,
		attemptTimeout: defaultAttemptTimeout,
	}
}

// Invoke calls the model up to maxAttempts times. The first attempt runs
// immediately; each retry is preceded by a 2^i second delay (1s before
// attempt 2, 2s before attempt 3, ...). Backoff suspends only this call's
// goroutine. On exhaustion the last quota error is returned.
func (inv *Invoker) Invoke(ctx context.Context, req *Request, maxAttempts int) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	var text string
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(maxAttempts-1), retry.NewExponential(inv.baseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		attemptCtx, cancel := context.WithTimeout(ctx, inv.attemptTimeout)
		defer cancel()

		out, err := inv.client.GenerateContent(attemptCtx, req)
		if err != nil {
			if IsQuotaError(err) {
				inv.logger.Warn("model quota exceeded, backing off",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", maxAttempts),
					zap.Error(err),
				)
				return retry.RetryableError(err)
			}
			return err
		}

		text = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
