package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adpulse/internal/domain"
	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"
)

// ErrInvalidInput marks rule input validation failures so the HTTP layer
// can map them to 400 responses.
var ErrInvalidInput = errors.New("invalid rule input")

const (
	defaultLogLimit = 50
	maxLogLimit     = 100
)

// RuleService exposes the rule CRUD and test-execution operations
// consumed by the dashboard UI and the assistant tool layer.
type RuleService struct {
	ruleRepo domain.RuleRepository
	logRepo  domain.ActionLogRepository
	sync     *SyncService
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewRuleService(
	ruleRepo domain.RuleRepository,
	logRepo domain.ActionLogRepository,
	sync *SyncService,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *RuleService {
	return &RuleService{
		ruleRepo: ruleRepo,
		logRepo:  logRepo,
		sync:     sync,
		logger:   logger,
		metrics:  metrics,
	}
}

type ConditionInput struct {
	Metric    domain.Metric   `json:"metric"`
	Operator  domain.Operator `json:"operator"`
	Threshold float64         `json:"threshold"`
}

type ConditionGroupInput struct {
	Operator   domain.GroupOperator `json:"operator"`
	Conditions []ConditionInput     `json:"conditions"`
}

type CreateRuleInput struct {
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	Action          domain.ActionType     `json:"action"`
	ActionValue     string                `json:"action_value"`
	ConditionGroups []ConditionGroupInput `json:"condition_groups"`
}

// UpdateRuleInput applies a partial update; nil fields keep their current
// value. Replacing condition groups replaces them wholesale.
type UpdateRuleInput struct {
	Name            *string                `json:"name"`
	Description     *string                `json:"description"`
	Action          *domain.ActionType     `json:"action"`
	ActionValue     *string                `json:"action_value"`
	IsActive        *bool                  `json:"is_active"`
	ConditionGroups *[]ConditionGroupInput `json:"condition_groups"`
}

func (s *RuleService) CreateRule(ctx context.Context, input CreateRuleInput) (*domain.AutomationRule, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	rule := domain.AutomationRule{
		Name:            input.Name,
		Description:     input.Description,
		Action:          input.Action,
		ActionValue:     input.ActionValue,
		IsActive:        true,
		ConditionGroups: buildGroups(input.ConditionGroups),
		CreatedBy:       "demo@adpulse.dev",
	}

	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"rule_id":   created.ID,
		"rule_name": created.Name,
	}).Info("Automation rule created")
	return &created, nil
}

func (s *RuleService) UpdateRule(ctx context.Context, id string, input UpdateRuleInput) (*domain.AutomationRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: rule name is required", ErrInvalidInput)
		}
		rule.Name = *input.Name
	}
	if input.Description != nil {
		rule.Description = *input.Description
	}
	if input.Action != nil {
		if !input.Action.Valid() {
			return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, *input.Action)
		}
		rule.Action = *input.Action
	}
	if input.ActionValue != nil {
		rule.ActionValue = *input.ActionValue
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}
	if input.ConditionGroups != nil {
		if err := validateGroups(*input.ConditionGroups); err != nil {
			return nil, err
		}
		rule.ConditionGroups = buildGroups(*input.ConditionGroups)
	}

	updated, err := s.ruleRepo.Update(ctx, *rule)
	if err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return &updated, nil
}

func (s *RuleService) DeleteRule(ctx context.Context, id string) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithContext(ctx).WithField("rule_id", id).Info("Automation rule deleted")
	return nil
}

// ToggleRule flips only the active flag, leaving everything else intact.
func (s *RuleService) ToggleRule(ctx context.Context, id string, isActive bool) (*domain.AutomationRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rule.IsActive = isActive

	updated, err := s.ruleRepo.Update(ctx, *rule)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle rule: %w", err)
	}
	return &updated, nil
}

func (s *RuleService) GetRule(ctx context.Context, id string) (*domain.AutomationRule, error) {
	return s.ruleRepo.GetByID(ctx, id)
}

func (s *RuleService) ListRules(ctx context.Context) ([]domain.AutomationRule, error) {
	return s.ruleRepo.List(ctx)
}

// ListActionLogs returns recent logs, newest first. The limit is clamped
// to 1..100 and defaults to 50.
func (s *RuleService) ListActionLogs(ctx context.Context, filter domain.ActionLogFilter) ([]domain.ActionLog, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLogLimit
	}
	if filter.Limit > maxLogLimit {
		filter.Limit = maxLogLimit
	}
	return s.logRepo.List(ctx, filter)
}

// ExecuteTest runs the active rules against either the latest stored
// snapshot or caller-provided synthetic metric values. The synthetic path
// never persists a snapshot; it exists for the rule-testing harness.
func (s *RuleService) ExecuteTest(ctx context.Context, values *domain.MetricValues) ([]domain.ActionLog, error) {
	var snapshot domain.CampaignSnapshot

	if values != nil {
		snapshot = domain.CampaignSnapshot{
			CampaignID:   "test-campaign",
			Name:         "Test Campaign",
			MetricValues: *values,
			SyncedAt:     time.Now().UTC(),
		}
	} else {
		latest, err := s.sync.LatestSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, fmt.Errorf("%w: no campaign snapshot available, sync first or provide metrics", ErrInvalidInput)
		}
		snapshot = *latest
	}

	return s.sync.RunRules(ctx, snapshot), nil
}

func validateCreate(input CreateRuleInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: rule name is required", ErrInvalidInput)
	}
	if !input.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, input.Action)
	}
	if len(input.ConditionGroups) == 0 {
		return fmt.Errorf("%w: at least one condition group is required", ErrInvalidInput)
	}
	return validateGroups(input.ConditionGroups)
}

func validateGroups(groups []ConditionGroupInput) error {
	for gi, group := range groups {
		if !group.Operator.Valid() {
			return fmt.Errorf("%w: group %d has unknown operator %q", ErrInvalidInput, gi, group.Operator)
		}
		if len(group.Conditions) == 0 {
			return fmt.Errorf("%w: group %d needs at least one condition", ErrInvalidInput, gi)
		}
		for ci, cond := range group.Conditions {
			if !cond.Metric.Valid() {
				return fmt.Errorf("%w: group %d condition %d has unknown metric %q", ErrInvalidInput, gi, ci, cond.Metric)
			}
			if !cond.Operator.Valid() {
				return fmt.Errorf("%w: group %d condition %d has unknown operator %q", ErrInvalidInput, gi, ci, cond.Operator)
			}
			if cond.Threshold <= 0 {
				return fmt.Errorf("%w: group %d condition %d threshold must be positive", ErrInvalidInput, gi, ci)
			}
		}
	}
	return nil
}

// buildGroups assigns order indexes from input position.
func buildGroups(inputs []ConditionGroupInput) []domain.ConditionGroup {
	groups := make([]domain.ConditionGroup, len(inputs))
	for gi, g := range inputs {
		conditions := make([]domain.Condition, len(g.Conditions))
		for ci, c := range g.Conditions {
			conditions[ci] = domain.Condition{
				Metric:    c.Metric,
				Operator:  c.Operator,
				Threshold: c.Threshold,
				Order:     ci,
			}
		}
		groups[gi] = domain.ConditionGroup{
			Operator:   g.Operator,
			Order:      gi,
			Conditions: conditions,
		}
	}
	return groups
}
