package infrastructure

import (
	"context"
	"sync"
	"time"

	"adpulse/internal/domain"
	"adpulse/pkg/logger"

	"github.com/google/uuid"
)

// implements domain.SnapshotRepository; keeps at most one snapshot per
// campaign id (upsert overwrites, no history)
type SnapshotRepository struct {
	byCampaign map[string]domain.CampaignSnapshot
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewSnapshotRepository(logger *logger.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		byCampaign: make(map[string]domain.CampaignSnapshot),
		logger:     logger,
	}
}

// Upsert overwrites the snapshot row for the campaign id, preserving the
// row id across syncs.
func (r *SnapshotRepository) Upsert(ctx context.Context, snapshot domain.CampaignSnapshot) (domain.CampaignSnapshot, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if existing, ok := r.byCampaign[snapshot.CampaignID]; ok {
		snapshot.ID = existing.ID
	} else if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	snapshot.UpdatedAt = time.Now()
	r.byCampaign[snapshot.CampaignID] = snapshot

	r.logger.WithContext(ctx).WithField("campaign_id", snapshot.CampaignID).Debug("Upserted campaign snapshot")
	return snapshot, nil
}

// GetLatest returns the most recently synced snapshot across campaigns.
func (r *SnapshotRepository) GetLatest(ctx context.Context) (*domain.CampaignSnapshot, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var latest *domain.CampaignSnapshot
	for _, s := range r.byCampaign {
		s := s
		if latest == nil || s.SyncedAt.After(latest.SyncedAt) {
			latest = &s
		}
	}
	if latest == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	return latest, nil
}

func (r *SnapshotRepository) GetByCampaignID(ctx context.Context, campaignID string) (*domain.CampaignSnapshot, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, ok := r.byCampaign[campaignID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return &s, nil
}
