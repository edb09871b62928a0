package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/stardyn/authkit/internal/clock"
)

const (
	// refreshLead is how long before expiry a refresh should fire.
	refreshLead = 5 * time.Minute
	// minRefreshDelay prevents tight refresh loops when the token is
	// close to its lead window.
	minRefreshDelay = time.Minute
)

// RefreshScheduler owns the single pending token refresh timer. Re-arming
// always cancels the previous timer first, so at most one refresh is ever
// scheduled.
type RefreshScheduler struct {
	clock   clock.Clock
	logger  *slog.Logger
	enabled bool

	mu    sync.Mutex
	timer *time.Timer
}

// NewRefreshScheduler constructs a scheduler. A disabled scheduler
// ignores Arm calls entirely, which is the case when the refresh token
// flow is turned off in config.
func NewRefreshScheduler(clk clock.Clock, logger *slog.Logger, enabled bool) *RefreshScheduler {
	return &RefreshScheduler{
		clock:   clk,
		logger:  logger,
		enabled: enabled,
	}
}

// Arm schedules fn to run when the token identified by expiresAt (unix
// seconds) enters its refresh window. Any previously armed timer is
// cancelled first. fn runs on the timer goroutine.
func (s *RefreshScheduler) Arm(expiresAt int64, fn func()) {
	if !s.enabled {
		return
	}

	delay := s.delayFor(expiresAt)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, fn)
	s.logger.Debug("token refresh scheduled", slog.Duration("delay", delay))
}

// Cancel stops any pending refresh. Safe to call at any time, including
// when nothing is armed.
func (s *RefreshScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Armed reports whether a refresh is currently scheduled.
func (s *RefreshScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// delayFor computes the wait before refreshing a token that expires at
// the given unix second. Tokens already inside the lead window refresh
// immediately; everything else waits until the window opens, but never
// less than the minimum delay.
func (s *RefreshScheduler) delayFor(expiresAt int64) time.Duration {
	remaining := time.Duration(expiresAt-s.clock.Now().Unix()) * time.Second
	if remaining <= refreshLead {
		return 0
	}
	delay := remaining - refreshLead
	if delay < minRefreshDelay {
		return minRefreshDelay
	}
	return delay
}
