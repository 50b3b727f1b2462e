package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_StartIsIdempotent(t *testing.T) {
	env := newTestEnv(&mockInsightsClient{resp: insightsWith("100", "0.05")})
	s := NewScheduler(env.sync, time.Hour, testLogger(), testMetrics)
	defer s.Stop()

	assert.True(t, s.Start())
	assert.False(t, s.Start(), "second start must be a no-op")

	status := s.Status()
	assert.True(t, status.IsRunning)
	require.NotNil(t, status.NextRun)
	assert.Equal(t, time.Hour.String(), status.Interval)
}

func TestScheduler_StopAndStatus(t *testing.T) {
	env := newTestEnv(&mockInsightsClient{})
	s := NewScheduler(env.sync, time.Hour, testLogger(), testMetrics)

	assert.False(t, s.Stop(), "stopping a stopped scheduler is a no-op")

	require.True(t, s.Start())
	assert.True(t, s.Stop())

	status := s.Status()
	assert.False(t, status.IsRunning)
	assert.Nil(t, status.NextRun)

	// can be restarted after a stop
	assert.True(t, s.Start())
	assert.True(t, s.Stop())
}

func TestScheduler_TickRunsSync(t *testing.T) {
	client := &mockInsightsClient{resp: insightsWith("100", "0.05")}
	env := newTestEnv(client)
	s := NewScheduler(env.sync, 20*time.Millisecond, testLogger(), testMetrics)

	require.True(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return client.Calls() >= 2
	}, 2*time.Second, 10*time.Millisecond, "ticker should drive repeated sync cycles")
}

func TestScheduler_ErrorsDoNotStopTicker(t *testing.T) {
	client := &mockInsightsClient{err: assert.AnError}
	env := newTestEnv(client)
	s := NewScheduler(env.sync, 20*time.Millisecond, testLogger(), testMetrics)

	require.True(t, s.Start())
	defer s.Stop()

	// every tick is an independent attempt, no backoff
	assert.Eventually(t, func() bool {
		return client.Calls() >= 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, s.Status().IsRunning)
}
