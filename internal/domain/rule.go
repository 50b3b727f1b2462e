package domain

import "time"

// Operator is a comparison between a metric value and a threshold.
type Operator string

const (
	OperatorGT  Operator = "gt"
	OperatorLT  Operator = "lt"
	OperatorEQ  Operator = "eq"
	OperatorGTE Operator = "gte"
	OperatorLTE Operator = "lte"
)

func (o Operator) Valid() bool {
	switch o {
	case OperatorGT, OperatorLT, OperatorEQ, OperatorGTE, OperatorLTE:
		return true
	default:
		return false
	}
}

// GroupOperator combines the conditions inside one group.
type GroupOperator string

const (
	GroupAnd GroupOperator = "AND"
	GroupOr  GroupOperator = "OR"
)

func (o GroupOperator) Valid() bool {
	return o == GroupAnd || o == GroupOr
}

// ActionType is what a triggered rule does. Actions are simulated: they
// are logged, never executed against the ads platform.
type ActionType string

const (
	ActionPauseCampaign    ActionType = "pause_campaign"
	ActionIncreaseBudget   ActionType = "increase_budget"
	ActionDecreaseBudget   ActionType = "decrease_budget"
	ActionSendNotification ActionType = "send_notification"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionPauseCampaign, ActionIncreaseBudget, ActionDecreaseBudget, ActionSendNotification:
		return true
	default:
		return false
	}
}

// Repeatable reports whether the action may fire more than once per
// (rule, campaign) pair. Budget and pause actions are one-shot;
// notifications fire on every trigger.
func (a ActionType) Repeatable() bool {
	return a == ActionSendNotification
}

// ActionInfo describes an action for the rule-builder catalog.
type ActionInfo struct {
	Value ActionType `json:"value"`
	Label string     `json:"label"`
}

func AvailableActions() []ActionInfo {
	return []ActionInfo{
		{Value: ActionPauseCampaign, Label: "Pause Campaign"},
		{Value: ActionIncreaseBudget, Label: "Increase Budget"},
		{Value: ActionDecreaseBudget, Label: "Decrease Budget"},
		{Value: ActionSendNotification, Label: "Send Notification"},
	}
}

// Condition is one atomic metric/operator/threshold comparison. It is
// owned by exactly one condition group.
type Condition struct {
	ID        string   `json:"id"`
	Metric    Metric   `json:"metric"`
	Operator  Operator `json:"operator"`
	Threshold float64  `json:"threshold"`
	Order     int      `json:"order"`
}

// ConditionGroup is a set of conditions combined by one boolean operator.
// Groups belong to exactly one rule and are OR-combined at the rule level.
type ConditionGroup struct {
	ID         string        `json:"id"`
	Operator   GroupOperator `json:"operator"`
	Order      int           `json:"order"`
	Conditions []Condition   `json:"conditions"`
}

// AutomationRule is a named, toggleable unit combining condition groups
// with one action. TriggerCount and LastTriggered are mutated only by the
// action executor.
type AutomationRule struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Action          ActionType       `json:"action"`
	ActionValue     string           `json:"action_value,omitempty"`
	IsActive        bool             `json:"is_active"`
	TriggerCount    int              `json:"trigger_count"`
	LastTriggered   *time.Time       `json:"last_triggered,omitempty"`
	ConditionGroups []ConditionGroup `json:"condition_groups"`
	CreatedBy       string           `json:"created_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
