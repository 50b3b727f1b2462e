package usecase

import (
	"context"
	"fmt"
	"time"

	"adpulse/internal/domain"
	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"
)

// defaultActionValue is recorded when a rule has no action value set.
const defaultActionValue = "default"

// ActionExecutor runs the simulated action for a triggered rule. It owns
// the idempotency policy: non-repeatable actions fire at most once per
// (rule, campaign) pair.
type ActionExecutor struct {
	ruleRepo domain.RuleRepository
	logRepo  domain.ActionLogRepository
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewActionExecutor(
	ruleRepo domain.RuleRepository,
	logRepo domain.ActionLogRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ActionExecutor {
	return &ActionExecutor{
		ruleRepo: ruleRepo,
		logRepo:  logRepo,
		logger:   logger,
		metrics:  metrics,
	}
}

// Execute records the action for a triggered rule and bumps the rule's
// trigger counters. Returns nil (and no error) when the idempotency check
// skips a non-repeatable action that already succeeded for this campaign.
//
// The log insert and the rule update are two sequential writes, not a
// transaction. Actions are simulated, so a failure between the two leaves
// only an orphaned success log behind.
func (e *ActionExecutor) Execute(ctx context.Context, rule domain.AutomationRule, snapshot domain.CampaignSnapshot) (*domain.ActionLog, error) {
	log := e.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"rule_id":   rule.ID,
		"rule_name": rule.Name,
		"action":    rule.Action,
	})

	if !rule.Action.Repeatable() {
		existing, err := e.logRepo.FindSuccessful(ctx, rule.ID, snapshot.CampaignID, rule.Action)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if existing != nil {
			log.WithField("campaign_id", snapshot.CampaignID).Info("Non-repeatable action already applied to campaign, skipping")
			e.metrics.RecordActionSkipped(string(rule.Action))
			return nil, nil
		}
	}

	actionValue := rule.ActionValue
	if actionValue == "" {
		actionValue = defaultActionValue
	}

	// Simulated actions complete immediately and always succeed.
	now := time.Now().UTC()
	entry := domain.ActionLog{
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		CampaignID:   snapshot.CampaignID,
		CampaignName: snapshot.Name,
		Action:       rule.Action,
		ActionValue:  actionValue,
		Status:       domain.StatusSuccess,
		Metrics:      snapshot.MetricValues,
		TriggeredAt:  now,
		CompletedAt:  now,
	}

	inserted, err := e.logRepo.Insert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to insert action log: %w", err)
	}

	// Re-read before updating counters so a stale caller copy does not
	// clobber concurrent trigger counts.
	current, err := e.ruleRepo.GetByID(ctx, rule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule for counter update: %w", err)
	}
	current.TriggerCount++
	current.LastTriggered = &now
	if _, err := e.ruleRepo.Update(ctx, *current); err != nil {
		return nil, fmt.Errorf("failed to update rule counters: %w", err)
	}

	e.metrics.RecordActionExecuted(string(rule.Action))
	log.WithField("log_id", inserted.ID).Info("Executed simulated action")

	return &inserted, nil
}
