package usecase

import "adpulse/internal/domain"

// EvaluateCondition compares one metric reading against the condition's
// threshold. Unknown metrics and operators evaluate to false rather than
// erroring: stored rule data is externally sourced, and a malformed
// condition must never spuriously trigger an action.
func EvaluateCondition(cond domain.Condition, values domain.MetricValues) bool {
	value, ok := cond.Metric.Value(values)
	if !ok {
		return false
	}

	switch cond.Operator {
	case domain.OperatorGT:
		return value > cond.Threshold
	case domain.OperatorLT:
		return value < cond.Threshold
	case domain.OperatorEQ:
		// exact equality, thresholds are compared verbatim
		return value == cond.Threshold
	case domain.OperatorGTE:
		return value >= cond.Threshold
	case domain.OperatorLTE:
		return value <= cond.Threshold
	default:
		return false
	}
}

// EvaluateConditionGroup reduces the group's conditions with its boolean
// operator. An empty AND group is vacuously true; the rule builder
// requires at least one condition per group, so this is guarded at the
// call site rather than here.
func EvaluateConditionGroup(group domain.ConditionGroup, values domain.MetricValues) bool {
	if group.Operator == domain.GroupAnd {
		for _, cond := range group.Conditions {
			if !EvaluateCondition(cond, values) {
				return false
			}
		}
		return true
	}

	for _, cond := range group.Conditions {
		if EvaluateCondition(cond, values) {
			return true
		}
	}
	return false
}

// EvaluateRule reports whether the rule triggers against the given metric
// values. A rule with no condition groups never triggers; otherwise
// groups are OR-combined regardless of each group's internal operator.
func EvaluateRule(rule domain.AutomationRule, values domain.MetricValues) bool {
	if len(rule.ConditionGroups) == 0 {
		return false
	}

	for _, group := range rule.ConditionGroups {
		if EvaluateConditionGroup(group, values) {
			return true
		}
	}
	return false
}
