package domain

import "time"

// ActionStatus is the outcome recorded on an action log. Simulated
// actions always complete with StatusSuccess; the other values exist for
// a future real execution path.
type ActionStatus string

const (
	StatusPending ActionStatus = "pending"
	StatusSuccess ActionStatus = "success"
	StatusFailed  ActionStatus = "failed"
)

// ActionLog is an immutable record of one action execution attempt. It
// captures the metric values the decision was based on and is never
// mutated after creation.
type ActionLog struct {
	ID           string       `json:"id"`
	RuleID       string       `json:"rule_id"`
	RuleName     string       `json:"rule_name,omitempty"`
	CampaignID   string       `json:"campaign_id"`
	CampaignName string       `json:"campaign_name,omitempty"`
	Action       ActionType   `json:"action"`
	ActionValue  string       `json:"action_value"`
	Status       ActionStatus `json:"status"`
	Metrics      MetricValues `json:"metrics"`
	TriggeredAt  time.Time    `json:"triggered_at"`
	CompletedAt  time.Time    `json:"completed_at"`
}

// ActionLogFilter narrows action log listings.
type ActionLogFilter struct {
	RuleID string `json:"rule_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}
