package statemachine

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retransmitTimer wraps cenkalti/backoff's exponential backoff to
// implement spec §4.5's T1/T2 retransmission schedules: base interval,
// doubling, capped, with a maximum retry count after which the session
// gives up (SevereTooMuchRetries).
type retransmitTimer struct {
	policy   backoff.BackOffContext
	attempts int
	maxTries int
}

// newT1Timer builds the pre-Confirm retransmission timer: 50ms base,
// doubling, capped at 1200ms, up to 20 retries.
func newT1Timer() *retransmitTimer {
	return newTimer(50*time.Millisecond, 1200*time.Millisecond, 20)
}

// newT2Timer builds the Confirm/GoClear retransmission timer: 150ms base,
// doubling, capped at 1200ms, up to 10 retries.
func newT2Timer() *retransmitTimer {
	return newTimer(150*time.Millisecond, 1200*time.Millisecond, 10)
}

func newTimer(base, capped time.Duration, maxTries int) *retransmitTimer {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = base
	eb.MaxInterval = capped
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0 // this timer is bounded by maxTries, not elapsed wall time
	eb.Reset()            // restart the current interval from base, not the library default
	return &retransmitTimer{
		policy:   backoff.WithContext(eb, context.Background()),
		maxTries: maxTries,
	}
}

// next returns the next retransmission delay in milliseconds, or ok=false
// once maxTries has been exceeded.
func (t *retransmitTimer) next() (ms int32, ok bool) {
	if t.attempts >= t.maxTries {
		return 0, false
	}
	t.attempts++
	d := t.policy.NextBackOff()
	if d == backoff.Stop {
		return 0, false
	}
	return int32(d.Milliseconds()), true
}

func (t *retransmitTimer) reset() { t.attempts = 0 }
