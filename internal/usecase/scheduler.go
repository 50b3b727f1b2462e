package usecase

import (
	"context"
	"sync"
	"time"

	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"
)

// Scheduler re-runs the sync cycle on a fixed interval. It is an explicit
// service object owned by the composition root; exactly one instance
// should exist per process.
type Scheduler struct {
	sync     *SyncService
	interval time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	nextRun time.Time
}

// SchedulerStatus is the externally visible scheduler state.
type SchedulerStatus struct {
	IsRunning bool       `json:"is_running"`
	Interval  string     `json:"interval"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

func NewScheduler(sync *SyncService, interval time.Duration, logger *logger.Logger, metrics *metrics.Metrics) *Scheduler {
	return &Scheduler{
		sync:     sync,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start launches the timer loop. Starting an already-running scheduler is
// a no-op and returns false.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Info("Scheduler already running")
		return false
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.nextRun = time.Now().UTC().Add(s.interval)
	go s.run(s.stopCh)

	s.logger.WithField("interval", s.interval.String()).Info("Scheduler started")
	return true
}

// Stop prevents future timer firings. An in-flight sync cycle is not
// preempted. Returns false if the scheduler was not running.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}

	close(s.stopCh)
	s.running = false
	s.nextRun = time.Time{}

	s.logger.Info("Scheduler stopped")
	return true
}

func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SchedulerStatus{
		IsRunning: s.running,
		Interval:  s.interval.String(),
	}
	if s.running {
		next := s.nextRun
		status.NextRun = &next
	}
	return status
}

func (s *Scheduler) run(stopCh chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.nextRun = time.Now().UTC().Add(s.interval)
			s.mu.Unlock()
			s.performScheduledSync()
		}
	}
}

// performScheduledSync runs one background cycle. Errors are logged only;
// there is no backoff, every tick is an independent attempt.
func (s *Scheduler) performScheduledSync() {
	start := time.Now()
	s.logger.Info("Scheduled campaign sync starting")

	result, err := s.sync.Sync(context.Background())
	if err != nil {
		s.logger.WithError(err).Error("Scheduled sync failed")
		return
	}

	s.metrics.RecordSyncDuration("scheduled", time.Since(start))
	s.logger.WithField("executed_actions", result.ExecutedActions).Info("Scheduled sync completed")
}
