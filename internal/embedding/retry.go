package embedding

import "time"

// RetryPolicy is a bounded exponential-backoff policy. The sleep function
// is injectable so callers can test retry behavior without a real clock.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(time.Duration)
}

// DefaultRetryPolicy retries three times with a 500ms base delay that
// doubles per attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Sleep:       time.Sleep,
	}
}

// Do runs fn up to MaxAttempts times, sleeping between attempts. The last
// error is returned once attempts are exhausted.
func (p RetryPolicy) Do(fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			sleep(p.BaseDelay << (attempt - 1))
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
