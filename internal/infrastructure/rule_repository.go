package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"adpulse/internal/domain"
	"adpulse/pkg/logger"

	"github.com/google/uuid"
)

// implements domain.RuleRepository; rules own their condition groups, so
// deleting a rule drops its groups and conditions with it
type RuleRepository struct {
	rules  map[string]domain.AutomationRule
	mutex  sync.RWMutex
	logger *logger.Logger
}

func NewRuleRepository(logger *logger.Logger) *RuleRepository {
	return &RuleRepository{
		rules:  make(map[string]domain.AutomationRule),
		logger: logger,
	}
}

func (r *RuleRepository) Create(ctx context.Context, rule domain.AutomationRule) (domain.AutomationRule, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	for gi := range rule.ConditionGroups {
		g := &rule.ConditionGroups[gi]
		if g.ID == "" {
			g.ID = uuid.New().String()
		}
		for ci := range g.Conditions {
			if g.Conditions[ci].ID == "" {
				g.Conditions[ci].ID = uuid.New().String()
			}
		}
	}

	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	sortGroups(&rule)
	r.rules[rule.ID] = cloneRule(rule)

	r.logger.WithContext(ctx).WithField("rule_id", rule.ID).Info("Created automation rule")
	return rule, nil
}

func (r *RuleRepository) Update(ctx context.Context, rule domain.AutomationRule) (domain.AutomationRule, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.rules[rule.ID]
	if !ok {
		return domain.AutomationRule{}, domain.ErrRuleNotFound
	}

	rule.CreatedAt = existing.CreatedAt
	rule.CreatedBy = existing.CreatedBy
	rule.UpdatedAt = time.Now()
	sortGroups(&rule)
	r.rules[rule.ID] = cloneRule(rule)

	r.logger.WithContext(ctx).WithField("rule_id", rule.ID).Debug("Updated automation rule")
	return rule, nil
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.rules[id]; !ok {
		return domain.ErrRuleNotFound
	}
	delete(r.rules, id)

	r.logger.WithContext(ctx).WithField("rule_id", id).Info("Deleted automation rule")
	return nil
}

func (r *RuleRepository) GetByID(ctx context.Context, id string) (*domain.AutomationRule, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rule, ok := r.rules[id]
	if !ok {
		return nil, domain.ErrRuleNotFound
	}
	copied := cloneRule(rule)
	return &copied, nil
}

// List returns all rules, newest first.
func (r *RuleRepository) List(ctx context.Context) ([]domain.AutomationRule, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]domain.AutomationRule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, cloneRule(rule))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RuleRepository) ListActive(ctx context.Context) ([]domain.AutomationRule, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.AutomationRule, 0, len(all))
	for _, rule := range all {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

// cloneRule deep-copies a rule so callers cannot mutate stored state.
func cloneRule(rule domain.AutomationRule) domain.AutomationRule {
	out := rule
	if rule.LastTriggered != nil {
		t := *rule.LastTriggered
		out.LastTriggered = &t
	}
	out.ConditionGroups = make([]domain.ConditionGroup, len(rule.ConditionGroups))
	for i, g := range rule.ConditionGroups {
		cg := g
		cg.Conditions = append([]domain.Condition(nil), g.Conditions...)
		out.ConditionGroups[i] = cg
	}
	return out
}

// sortGroups orders condition groups and their conditions by the stored
// order index so reads are deterministic.
func sortGroups(rule *domain.AutomationRule) {
	sort.SliceStable(rule.ConditionGroups, func(i, j int) bool {
		return rule.ConditionGroups[i].Order < rule.ConditionGroups[j].Order
	})
	for gi := range rule.ConditionGroups {
		conds := rule.ConditionGroups[gi].Conditions
		sort.SliceStable(conds, func(i, j int) bool {
			return conds[i].Order < conds[j].Order
		})
	}
}
