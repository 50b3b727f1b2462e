package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Sync cycle metrics
	SyncCyclesTotal  *prometheus.CounterVec
	SyncDuration     *prometheus.HistogramVec
	SyncsInProgress  prometheus.Gauge
	RulesEvaluated   *prometheus.CounterVec
	ActionsExecuted  *prometheus.CounterVec
	ActionsSkipped   *prometheus.CounterVec
	RuleEvalFailures prometheus.Counter

	// External API metrics
	ExternalAPICalls    *prometheus.CounterVec
	ExternalAPIDuration *prometheus.HistogramVec
	ExternalAPIFailures *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		SyncCyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_cycles_total",
				Help: "Total number of campaign sync cycles",
			},
			[]string{"status", "stage"},
		),

		SyncDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sync_cycle_duration_seconds",
				Help:    "Campaign sync cycle duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"trigger"},
		),

		SyncsInProgress: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sync_cycles_in_progress",
				Help: "Number of sync cycles currently running",
			},
		),

		RulesEvaluated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automation_rules_evaluated_total",
				Help: "Total number of automation rule evaluations",
			},
			[]string{"result"},
		),

		ActionsExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automation_actions_executed_total",
				Help: "Total number of automation actions executed",
			},
			[]string{"action"},
		),

		ActionsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automation_actions_skipped_total",
				Help: "Total number of actions skipped by the idempotency check",
			},
			[]string{"action"},
		),

		RuleEvalFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "automation_rule_eval_failures_total",
				Help: "Total number of per-rule evaluation failures",
			},
		),

		ExternalAPICalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_calls_total",
				Help: "Total number of external API calls",
			},
			[]string{"api", "status"},
		),

		ExternalAPIDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_api_duration_seconds",
				Help:    "External API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"api"},
		),

		ExternalAPIFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_failures_total",
				Help: "Total number of external API failures",
			},
			[]string{"api", "error_type"},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Sync cycle metrics
func (m *Metrics) RecordSyncCycle(status, stage string) {
	m.SyncCyclesTotal.WithLabelValues(status, stage).Inc()
}

func (m *Metrics) RecordSyncDuration(trigger string, duration time.Duration) {
	m.SyncDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

// Rule evaluation metrics
func (m *Metrics) RecordRuleEvaluation(triggered bool) {
	result := "not_triggered"
	if triggered {
		result = "triggered"
	}
	m.RulesEvaluated.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordRuleEvalFailure() {
	m.RuleEvalFailures.Inc()
}

// Action executor metrics
func (m *Metrics) RecordActionExecuted(action string) {
	m.ActionsExecuted.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordActionSkipped(action string) {
	m.ActionsSkipped.WithLabelValues(action).Inc()
}

// External API call metrics
func (m *Metrics) RecordExternalAPICall(api, status string, duration time.Duration) {
	m.ExternalAPICalls.WithLabelValues(api, status).Inc()
	m.ExternalAPIDuration.WithLabelValues(api).Observe(duration.Seconds())
}

// External API failure metrics
func (m *Metrics) RecordExternalAPIFailure(api, errorType string) {
	m.ExternalAPIFailures.WithLabelValues(api, errorType).Inc()
}

// Sync cycles in progress counter
func (m *Metrics) IncSyncsInProgress() {
	m.SyncsInProgress.Inc()
}

// Sync cycles in progress counter
func (m *Metrics) DecSyncsInProgress() {
	m.SyncsInProgress.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
