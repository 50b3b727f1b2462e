package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"adpulse/internal/domain"
	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"
)

// campaignDisplayName labels the single campaign this deployment polls.
const campaignDisplayName = "Meta Ads Campaign"

// SyncService runs one full sync cycle: fetch insights, upsert the
// snapshot, evaluate every active rule and execute the allowed actions.
type SyncService struct {
	snapshotRepo domain.SnapshotRepository
	ruleRepo     domain.RuleRepository
	logRepo      domain.ActionLogRepository
	apiClient    domain.InsightsClient
	executor     *ActionExecutor
	logger       *logger.Logger
	metrics      *metrics.Metrics
	campaignID   string
}

// SyncResult summarizes one completed cycle.
type SyncResult struct {
	Success         bool                     `json:"success"`
	Campaign        *domain.CampaignSnapshot `json:"campaign,omitempty"`
	ExecutedActions int                      `json:"executed_actions"`
}

func NewSyncService(
	snapshotRepo domain.SnapshotRepository,
	ruleRepo domain.RuleRepository,
	logRepo domain.ActionLogRepository,
	apiClient domain.InsightsClient,
	executor *ActionExecutor,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	campaignID string,
) *SyncService {
	return &SyncService{
		snapshotRepo: snapshotRepo,
		ruleRepo:     ruleRepo,
		logRepo:      logRepo,
		apiClient:    apiClient,
		executor:     executor,
		logger:       logger,
		metrics:      metrics,
		campaignID:   campaignID,
	}
}

// Sync performs one cycle. Fetch and persist failures abort the cycle and
// surface to the caller; per-rule failures during evaluation do not.
func (s *SyncService) Sync(ctx context.Context) (*SyncResult, error) {
	start := time.Now()
	s.metrics.IncSyncsInProgress()
	defer s.metrics.DecSyncsInProgress()

	log := s.logger.WithContext(ctx)
	log.Info("Starting campaign sync cycle")

	insights, err := s.apiClient.FetchInsights(ctx, s.campaignID)
	if err != nil {
		s.metrics.RecordSyncCycle("failed", "fetch")
		return nil, fmt.Errorf("failed to fetch campaign data: %w", err)
	}

	if len(insights.Data) == 0 {
		s.metrics.RecordSyncCycle("failed", "fetch")
		return nil, fmt.Errorf("no campaign data found in response")
	}

	snapshot := s.buildSnapshot(insights.Data[0])

	persisted, err := s.snapshotRepo.Upsert(ctx, snapshot)
	if err != nil {
		s.metrics.RecordSyncCycle("failed", "persist")
		return nil, fmt.Errorf("failed to persist campaign snapshot: %w", err)
	}

	executed := s.RunRules(ctx, persisted)

	duration := time.Since(start)
	s.metrics.RecordSyncCycle("success", "complete")
	s.metrics.RecordSyncDuration("sync", duration)

	log.WithFields(map[string]interface{}{
		"campaign_id":      persisted.CampaignID,
		"duration":         duration,
		"executed_actions": len(executed),
	}).Info("Campaign sync cycle completed")

	return &SyncResult{
		Success:         true,
		Campaign:        &persisted,
		ExecutedActions: len(executed),
	}, nil
}

// RunRules evaluates every active rule against the snapshot and executes
// the actions of the ones that trigger. A failure on one rule is logged
// and does not abort the remaining rules.
func (s *SyncService) RunRules(ctx context.Context, snapshot domain.CampaignSnapshot) []domain.ActionLog {
	log := s.logger.WithContext(ctx)

	rules, err := s.ruleRepo.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load active rules")
		return nil
	}

	log.WithField("active_rules", len(rules)).Info("Checking automation rules")

	var executed []domain.ActionLog
	for _, rule := range rules {
		triggered := EvaluateRule(rule, snapshot.MetricValues)
		s.metrics.RecordRuleEvaluation(triggered)
		if !triggered {
			continue
		}

		log.WithFields(map[string]interface{}{
			"rule_id":   rule.ID,
			"rule_name": rule.Name,
		}).Info("Automation rule triggered")

		entry, err := s.executor.Execute(ctx, rule, snapshot)
		if err != nil {
			s.metrics.RecordRuleEvalFailure()
			log.WithError(err).WithField("rule_name", rule.Name).Error("Failed to execute rule action")
			continue
		}
		if entry != nil {
			executed = append(executed, *entry)
		}
	}

	log.WithField("executed_actions", len(executed)).Info("Rule evaluation completed")
	return executed
}

// LatestSnapshot returns the most recent snapshot, or nil when no sync
// has run yet.
func (s *SyncService) LatestSnapshot(ctx context.Context) (*domain.CampaignSnapshot, error) {
	snapshot, err := s.snapshotRepo.GetLatest(ctx)
	if err == domain.ErrSnapshotNotFound {
		return nil, nil
	}
	return snapshot, err
}

// CampaignWithActions couples the latest snapshot with its most recent
// action logs for the dashboard overview.
type CampaignWithActions struct {
	Campaign   *domain.CampaignSnapshot `json:"campaign"`
	ActionLogs []domain.ActionLog       `json:"action_logs"`
}

func (s *SyncService) SnapshotWithActions(ctx context.Context) (*CampaignWithActions, error) {
	snapshot, err := s.LatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return &CampaignWithActions{}, nil
	}

	logs, err := s.logRepo.List(ctx, domain.ActionLogFilter{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to list action logs: %w", err)
	}

	return &CampaignWithActions{Campaign: snapshot, ActionLogs: logs}, nil
}

// buildSnapshot parses the raw string-encoded insight fields. Missing
// fields default to zero, matching the upstream contract.
func (s *SyncService) buildSnapshot(entry domain.InsightEntry) domain.CampaignSnapshot {
	return domain.CampaignSnapshot{
		CampaignID: s.campaignID,
		Name:       campaignDisplayName,
		MetricValues: domain.MetricValues{
			Spend:                  parseFloatField(entry.Spend),
			Clicks:                 parseIntField(entry.Clicks),
			Reach:                  parseIntField(entry.Reach),
			Impressions:            parseIntField(entry.Impressions),
			InlineLinkClicks:       parseIntField(entry.InlineLinkClicks),
			CostPerInlineLinkClick: parseFloatField(entry.CostPerInlineLinkClick),
			Frequency:              parseFloatField(entry.Frequency),
			CPC:                    parseFloatField(entry.CPC),
			CTR:                    parseFloatField(entry.CTR),
		},
		SyncedAt: time.Now().UTC(),
	}
}

func parseFloatField(raw string) float64 {
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseIntField(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
