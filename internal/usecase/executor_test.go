package usecase

import (
	"context"
	"testing"

	"adpulse/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionExecutor_Execute(t *testing.T) {
	ctx := context.Background()
	snapshot := snapshotWith(domain.MetricValues{Spend: 1500, CTR: 0.01})

	t.Run("records success log and bumps counters", func(t *testing.T) {
		env := newTestEnv(&mockInsightsClient{})
		rule, err := env.ruleRepo.Create(ctx, spendRule("pause on overspend"))
		require.NoError(t, err)

		entry, err := env.executor.Execute(ctx, rule, snapshot)
		require.NoError(t, err)
		require.NotNil(t, entry)

		assert.Equal(t, domain.StatusSuccess, entry.Status)
		assert.Equal(t, rule.ID, entry.RuleID)
		assert.Equal(t, testCampaignID, entry.CampaignID)
		assert.Equal(t, snapshot.MetricValues, entry.Metrics)
		assert.Equal(t, "default", entry.ActionValue)
		assert.False(t, entry.TriggeredAt.IsZero())
		assert.Equal(t, entry.TriggeredAt, entry.CompletedAt)

		updated, err := env.ruleRepo.GetByID(ctx, rule.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.TriggerCount)
		require.NotNil(t, updated.LastTriggered)
	})

	t.Run("non-repeatable action skips after prior success", func(t *testing.T) {
		env := newTestEnv(&mockInsightsClient{})
		rule, err := env.ruleRepo.Create(ctx, spendRule("pause once"))
		require.NoError(t, err)

		first, err := env.executor.Execute(ctx, rule, snapshot)
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := env.executor.Execute(ctx, rule, snapshot)
		require.NoError(t, err)
		assert.Nil(t, second, "second execution must be skipped")

		logs, err := env.logRepo.List(ctx, domain.ActionLogFilter{})
		require.NoError(t, err)
		assert.Len(t, logs, 1)

		updated, err := env.ruleRepo.GetByID(ctx, rule.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.TriggerCount, "skip must not increment the counter")
	})

	t.Run("send_notification fires every time", func(t *testing.T) {
		env := newTestEnv(&mockInsightsClient{})
		rule := spendRule("notify on overspend")
		rule.Action = domain.ActionSendNotification
		created, err := env.ruleRepo.Create(ctx, rule)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			entry, err := env.executor.Execute(ctx, created, snapshot)
			require.NoError(t, err)
			require.NotNil(t, entry)
		}

		logs, err := env.logRepo.List(ctx, domain.ActionLogFilter{})
		require.NoError(t, err)
		assert.Len(t, logs, 3)

		updated, err := env.ruleRepo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, updated.TriggerCount)
	})

	t.Run("same action on a different campaign still fires", func(t *testing.T) {
		env := newTestEnv(&mockInsightsClient{})
		rule, err := env.ruleRepo.Create(ctx, spendRule("pause per campaign"))
		require.NoError(t, err)

		first, err := env.executor.Execute(ctx, rule, snapshot)
		require.NoError(t, err)
		require.NotNil(t, first)

		other := snapshot
		other.CampaignID = "another-campaign"
		second, err := env.executor.Execute(ctx, rule, other)
		require.NoError(t, err)
		assert.NotNil(t, second, "idempotency is scoped per (rule, campaign)")
	})

	t.Run("uses configured action value", func(t *testing.T) {
		env := newTestEnv(&mockInsightsClient{})
		rule := spendRule("cut budget")
		rule.Action = domain.ActionDecreaseBudget
		rule.ActionValue = "-20%"
		created, err := env.ruleRepo.Create(ctx, rule)
		require.NoError(t, err)

		entry, err := env.executor.Execute(ctx, created, snapshot)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "-20%", entry.ActionValue)
	})
}
