package service

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardyn/authkit/internal/clock"
)

func newTestScheduler(t *testing.T, enabled bool) (*RefreshScheduler, *clock.Fixed) {
	t.Helper()
	fixed := clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s := NewRefreshScheduler(fixed, slog.Default(), enabled)
	t.Cleanup(s.Cancel)
	return s, fixed
}

func TestRefreshSchedulerDelayFor(t *testing.T) {
	s, fixed := newTestScheduler(t, true)
	now := fixed.Now().Unix()

	tests := []struct {
		name      string
		remaining int64
		want      time.Duration
	}{
		{"already expired", -10, 0},
		{"inside lead window", 200, 0},
		{"exactly at lead", 300, 0},
		{"just past lead clamps to minimum", 340, time.Minute},
		{"comfortably before lead", 1000, 700 * time.Second},
		{"hour-long token", 3600, 3300 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.delayFor(now+tt.remaining))
		})
	}
}

func TestRefreshSchedulerArmReplacesPrevious(t *testing.T) {
	s, fixed := newTestScheduler(t, true)
	far := fixed.Now().Add(time.Hour).Unix()

	s.Arm(far, func() { t.Error("replaced timer fired") })
	s.Arm(far, func() {})
	require.True(t, s.Armed())

	s.Cancel()
	assert.False(t, s.Armed())
}

func TestRefreshSchedulerImmediateFire(t *testing.T) {
	s, fixed := newTestScheduler(t, true)

	var wg sync.WaitGroup
	wg.Add(1)
	// Token inside the lead window refreshes right away.
	s.Arm(fixed.Now().Unix()+100, wg.Done)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate refresh never fired")
	}
}

func TestRefreshSchedulerDisabledIgnoresArm(t *testing.T) {
	s, fixed := newTestScheduler(t, false)

	s.Arm(fixed.Now().Unix()+100, func() { t.Error("disabled scheduler fired") })
	assert.False(t, s.Armed())
}

func TestRefreshSchedulerCancelWithoutArm(t *testing.T) {
	s, _ := newTestScheduler(t, true)
	s.Cancel()
	s.Cancel()
	assert.False(t, s.Armed())
}
