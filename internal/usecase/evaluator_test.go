package usecase

import (
	"testing"

	"adpulse/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateCondition_Operators(t *testing.T) {
	values := domain.MetricValues{Spend: 1500, Clicks: 320, CTR: 0.015}

	tests := []struct {
		name string
		cond domain.Condition
		want bool
	}{
		{"gt true", domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorGT, Threshold: 1000}, true},
		{"gt false at equal", domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorGT, Threshold: 1500}, false},
		{"lt true", domain.Condition{Metric: domain.MetricCTR, Operator: domain.OperatorLT, Threshold: 0.02}, true},
		{"lt false", domain.Condition{Metric: domain.MetricCTR, Operator: domain.OperatorLT, Threshold: 0.01}, false},
		{"eq exact match", domain.Condition{Metric: domain.MetricClicks, Operator: domain.OperatorEQ, Threshold: 320}, true},
		{"eq mismatch", domain.Condition{Metric: domain.MetricClicks, Operator: domain.OperatorEQ, Threshold: 321}, false},
		{"gte at boundary", domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorGTE, Threshold: 1500}, true},
		{"gte above threshold", domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorGTE, Threshold: 1400}, true},
		{"lte at boundary", domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorLTE, Threshold: 1500}, true},
		{"lte false", domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorLTE, Threshold: 1499}, false},
		{"unknown metric fails closed", domain.Condition{Metric: "roas", Operator: domain.OperatorGT, Threshold: 0}, false},
		{"unknown operator fails closed", domain.Condition{Metric: domain.MetricSpend, Operator: "between", Threshold: 1000}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCondition(tt.cond, values))
		})
	}
}

// Raising a gt threshold past the value flips the result; same monotone
// behavior for the other directional operators.
func TestEvaluateCondition_ThresholdMonotonicity(t *testing.T) {
	values := domain.MetricValues{Spend: 1000}

	below := domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorGT, Threshold: 999}
	above := domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorGT, Threshold: 1001}
	assert.True(t, EvaluateCondition(below, values))
	assert.False(t, EvaluateCondition(above, values))

	below.Operator = domain.OperatorLT
	above.Operator = domain.OperatorLT
	assert.False(t, EvaluateCondition(below, values))
	assert.True(t, EvaluateCondition(above, values))
}

func TestEvaluateConditionGroup(t *testing.T) {
	values := domain.MetricValues{Spend: 1500, CTR: 0.05}

	spendHigh := domain.Condition{Metric: domain.MetricSpend, Operator: domain.OperatorGT, Threshold: 1000}
	ctrLow := domain.Condition{Metric: domain.MetricCTR, Operator: domain.OperatorLT, Threshold: 0.02}

	tests := []struct {
		name  string
		group domain.ConditionGroup
		want  bool
	}{
		{"AND all true", domain.ConditionGroup{Operator: domain.GroupAnd, Conditions: []domain.Condition{spendHigh}}, true},
		{"AND one false", domain.ConditionGroup{Operator: domain.GroupAnd, Conditions: []domain.Condition{spendHigh, ctrLow}}, false},
		{"OR one true", domain.ConditionGroup{Operator: domain.GroupOr, Conditions: []domain.Condition{spendHigh, ctrLow}}, true},
		{"OR all false", domain.ConditionGroup{Operator: domain.GroupOr, Conditions: []domain.Condition{ctrLow}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateConditionGroup(tt.group, values))
		})
	}
}

// An empty AND group is vacuously true. The rule builder requires at
// least one condition per group, so this state should not occur in
// stored data; the evaluator's behavior for it is pinned here on purpose.
func TestEvaluateConditionGroup_EmptyAndIsVacuouslyTrue(t *testing.T) {
	group := domain.ConditionGroup{Operator: domain.GroupAnd}
	assert.True(t, EvaluateConditionGroup(group, domain.MetricValues{}))

	group.Operator = domain.GroupOr
	assert.False(t, EvaluateConditionGroup(group, domain.MetricValues{}))
}

func TestEvaluateRule(t *testing.T) {
	values := domain.MetricValues{Spend: 500, CTR: 0.01}

	spendHigh := domain.ConditionGroup{
		Operator:   domain.GroupAnd,
		Conditions: []domain.Condition{{Metric: domain.MetricSpend, Operator: domain.OperatorGT, Threshold: 1000}},
	}
	ctrLow := domain.ConditionGroup{
		Operator:   domain.GroupAnd,
		Conditions: []domain.Condition{{Metric: domain.MetricCTR, Operator: domain.OperatorLT, Threshold: 0.02}},
	}

	tests := []struct {
		name   string
		groups []domain.ConditionGroup
		want   bool
	}{
		{"no groups never triggers", nil, false},
		{"single false group", []domain.ConditionGroup{spendHigh}, false},
		{"single true group", []domain.ConditionGroup{ctrLow}, true},
		{"false OR true triggers", []domain.ConditionGroup{spendHigh, ctrLow}, true},
		{"all groups false", []domain.ConditionGroup{spendHigh, spendHigh}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := domain.AutomationRule{Name: "test", ConditionGroups: tt.groups}
			assert.Equal(t, tt.want, EvaluateRule(rule, values))
		})
	}
}
