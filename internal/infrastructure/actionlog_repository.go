package infrastructure

import (
	"context"
	"sort"
	"sync"

	"adpulse/internal/domain"
	"adpulse/pkg/logger"

	"github.com/google/uuid"
)

// implements domain.ActionLogRepository; logs are append-only and never
// mutated after insertion
type ActionLogRepository struct {
	logs   []domain.ActionLog
	mutex  sync.RWMutex
	logger *logger.Logger
}

func NewActionLogRepository(logger *logger.Logger) *ActionLogRepository {
	return &ActionLogRepository{logger: logger}
}

func (r *ActionLogRepository) Insert(ctx context.Context, log domain.ActionLog) (domain.ActionLog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	r.logs = append(r.logs, log)

	r.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"log_id":  log.ID,
		"rule_id": log.RuleID,
		"action":  log.Action,
	}).Debug("Inserted action log")
	return log, nil
}

// List returns logs newest first, optionally filtered by rule id and
// capped at filter.Limit.
func (r *ActionLogRepository) List(ctx context.Context, filter domain.ActionLogFilter) ([]domain.ActionLog, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]domain.ActionLog, 0, len(r.logs))
	for _, log := range r.logs {
		if filter.RuleID != "" && log.RuleID != filter.RuleID {
			continue
		}
		out = append(out, log)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TriggeredAt.After(out[j].TriggeredAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// FindSuccessful returns the most recent successful log for the given
// (rule, campaign, action) triple, or nil if none exists. The executor
// uses this for its idempotency check.
func (r *ActionLogRepository) FindSuccessful(ctx context.Context, ruleID, campaignID string, action domain.ActionType) (*domain.ActionLog, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var found *domain.ActionLog
	for i := range r.logs {
		log := r.logs[i]
		if log.RuleID != ruleID || log.CampaignID != campaignID || log.Action != action || log.Status != domain.StatusSuccess {
			continue
		}
		if found == nil || log.TriggeredAt.After(found.TriggeredAt) {
			found = &log
		}
	}
	return found, nil
}
