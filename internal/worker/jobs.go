package worker

import (
	"context"
	"time"

	"github.com/vytor/studyflash/internal/logger"
)

// SessionExpirer drops sessions idle for longer than maxAge.
type SessionExpirer interface {
	Expire(maxAge time.Duration) int
}

// Sweeper drops idle rate limiter buckets.
type Sweeper interface {
	Sweep() int
}

// ExpireSessionsJob clears abandoned study sessions so their tallies do not pile up.
type ExpireSessionsJob struct {
	Sessions SessionExpirer
	MaxAge   time.Duration
}

func (j *ExpireSessionsJob) Name() string { return "expire_sessions" }

func (j *ExpireSessionsJob) Run(ctx context.Context) error {
	if n := j.Sessions.Expire(j.MaxAge); n > 0 {
		logger.FromContext(ctx).Info("expired %d idle sessions", n)
	}
	return nil
}

// SweepRateLimitsJob drops rate limiter state for users who went quiet.
type SweepRateLimitsJob struct {
	Limiter Sweeper
}

func (j *SweepRateLimitsJob) Name() string { return "sweep_rate_limits" }

func (j *SweepRateLimitsJob) Run(ctx context.Context) error {
	if n := j.Limiter.Sweep(); n > 0 {
		logger.FromContext(ctx).Debug("dropped %d idle rate limiters", n)
	}
	return nil
}
