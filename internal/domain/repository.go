package domain

import (
	"context"
	"errors"
)

var (
	ErrRuleNotFound     = errors.New("automation rule not found")
	ErrSnapshotNotFound = errors.New("campaign snapshot not found")
)

// interface for campaign snapshot operations
type SnapshotRepository interface {
	Upsert(ctx context.Context, snapshot CampaignSnapshot) (CampaignSnapshot, error)
	GetLatest(ctx context.Context) (*CampaignSnapshot, error)
	GetByCampaignID(ctx context.Context, campaignID string) (*CampaignSnapshot, error)
}

// interface for automation rule operations; implementations return rules
// with condition groups and conditions sorted by their order index
type RuleRepository interface {
	Create(ctx context.Context, rule AutomationRule) (AutomationRule, error)
	Update(ctx context.Context, rule AutomationRule) (AutomationRule, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*AutomationRule, error)
	List(ctx context.Context) ([]AutomationRule, error)
	ListActive(ctx context.Context) ([]AutomationRule, error)
}

// interface for the append-only action log
type ActionLogRepository interface {
	Insert(ctx context.Context, log ActionLog) (ActionLog, error)
	List(ctx context.Context, filter ActionLogFilter) ([]ActionLog, error)
	FindSuccessful(ctx context.Context, ruleID, campaignID string, action ActionType) (*ActionLog, error)
}

// interface for the upstream insights API
type InsightsClient interface {
	FetchInsights(ctx context.Context, campaignID string) (*InsightsResponse, error)
}
