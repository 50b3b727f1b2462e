package usecase

import (
	"context"
	"sync"

	"adpulse/internal/domain"
	"adpulse/internal/infrastructure"
	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"
)

const testCampaignID = "120231398059670228"

// one shared registry; metrics.New registers on the default prometheus
// registerer and must not run twice in a test binary
var testMetrics = metrics.New()

func testLogger() *logger.Logger {
	return logger.New("error")
}

type mockInsightsClient struct {
	mu    sync.Mutex
	resp  *domain.InsightsResponse
	err   error
	calls int
}

func (m *mockInsightsClient) FetchInsights(ctx context.Context, campaignID string) (*domain.InsightsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockInsightsClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockInsightsClient) SetResponse(resp *domain.InsightsResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resp = resp
}

type testEnv struct {
	snapshotRepo *infrastructure.SnapshotRepository
	ruleRepo     *infrastructure.RuleRepository
	logRepo      *infrastructure.ActionLogRepository
	client       *mockInsightsClient
	executor     *ActionExecutor
	sync         *SyncService
	rules        *RuleService
}

func newTestEnv(client *mockInsightsClient) *testEnv {
	log := testLogger()
	snapshotRepo := infrastructure.NewSnapshotRepository(log)
	ruleRepo := infrastructure.NewRuleRepository(log)
	logRepo := infrastructure.NewActionLogRepository(log)
	executor := NewActionExecutor(ruleRepo, logRepo, log, testMetrics)
	sync := NewSyncService(snapshotRepo, ruleRepo, logRepo, client, executor, log, testMetrics, testCampaignID)
	rules := NewRuleService(ruleRepo, logRepo, sync, log, testMetrics)

	return &testEnv{
		snapshotRepo: snapshotRepo,
		ruleRepo:     ruleRepo,
		logRepo:      logRepo,
		client:       client,
		executor:     executor,
		sync:         sync,
		rules:        rules,
	}
}

func snapshotWith(values domain.MetricValues) domain.CampaignSnapshot {
	return domain.CampaignSnapshot{
		ID:           "snap-1",
		CampaignID:   testCampaignID,
		Name:         "Meta Ads Campaign",
		MetricValues: values,
	}
}

func spendRule(name string) domain.AutomationRule {
	return domain.AutomationRule{
		Name:     name,
		Action:   domain.ActionPauseCampaign,
		IsActive: true,
		ConditionGroups: []domain.ConditionGroup{
			{
				Operator: domain.GroupAnd,
				Conditions: []domain.Condition{
					{Metric: domain.MetricSpend, Operator: domain.OperatorGT, Threshold: 1000},
					{Metric: domain.MetricCTR, Operator: domain.OperatorLT, Threshold: 0.02},
				},
			},
		},
	}
}
