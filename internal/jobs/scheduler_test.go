package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTokenJanitor struct {
	calls int
	err   error
}

func (j *recordingTokenJanitor) ClearExpiredResetTokens(context.Context) (int64, error) {
	j.calls++
	return 3, j.err
}

type recordingSessionJanitor struct {
	cutoff time.Time
}

func (j *recordingSessionJanitor) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	j.cutoff = cutoff
	return 1, nil
}

func TestSweepsInvokeJanitors(t *testing.T) {
	accounts := &recordingTokenJanitor{}
	sessions := &recordingSessionJanitor{}
	s := NewScheduler(accounts, sessions, zerolog.Nop())

	s.sweepResetTokens()
	assert.Equal(t, 1, accounts.calls)

	before := time.Now().Add(-sessionRetention)
	s.sweepRefreshTokens()
	after := time.Now().Add(-sessionRetention)
	assert.False(t, sessions.cutoff.Before(before))
	assert.False(t, sessions.cutoff.After(after))
}

func TestSweepSwallowsJanitorError(t *testing.T) {
	accounts := &recordingTokenJanitor{err: assert.AnError}
	s := NewScheduler(accounts, &recordingSessionJanitor{}, zerolog.Nop())

	assert.NotPanics(t, s.sweepResetTokens)
	assert.Equal(t, 1, accounts.calls)
}

func TestStopWaitsForCron(t *testing.T) {
	s := NewScheduler(&recordingTokenJanitor{}, &recordingSessionJanitor{}, zerolog.Nop())
	require.NoError(t, s.Start())

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after cron drained")
	}
}
