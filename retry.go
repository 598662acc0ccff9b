package dbroute

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ConnectPolicy how many times a connect is attempted before the failure is surfaced.
// The zero value means a single attempt.
type ConnectPolicy struct {
	Attempts int
	Backoff  time.Duration
}

func (p ConnectPolicy) attempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

func (p ConnectPolicy) run(ctx context.Context, fc func() error) error {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Backoff), uint64(p.attempts()-1))
	return backoff.Retry(fc, backoff.WithContext(b, ctx))
}

// permanent stops the policy from retrying err
func permanent(err error) error {
	return backoff.Permanent(err)
}
