package domain

import "time"

// MetricValues holds one reading of the nine campaign performance metrics.
type MetricValues struct {
	Spend                  float64 `json:"spend"`
	Clicks                 int     `json:"clicks"`
	Reach                  int     `json:"reach"`
	Impressions            int     `json:"impressions"`
	InlineLinkClicks       int     `json:"inline_link_clicks"`
	CostPerInlineLinkClick float64 `json:"cost_per_inline_link_click"`
	Frequency              float64 `json:"frequency"`
	CPC                    float64 `json:"cpc"`
	CTR                    float64 `json:"ctr"`
}

// CampaignSnapshot is the most recent polled reading for one campaign.
// The store keeps at most one snapshot per campaign id; each sync
// overwrites the previous one.
type CampaignSnapshot struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	Name       string `json:"name"`
	MetricValues
	SyncedAt  time.Time `json:"synced_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InsightEntry is one raw record from the Meta Ads insights API.
// All numeric fields arrive string-encoded; missing fields default to "0"
// before parsing.
type InsightEntry struct {
	Spend                  string `json:"spend"`
	Clicks                 string `json:"clicks"`
	Reach                  string `json:"reach"`
	Impressions            string `json:"impressions"`
	InlineLinkClicks       string `json:"inline_link_clicks"`
	CostPerInlineLinkClick string `json:"cost_per_inline_link_click"`
	Frequency              string `json:"frequency"`
	CPC                    string `json:"cpc"`
	CTR                    string `json:"ctr"`
}

type InsightsResponse struct {
	Data []InsightEntry `json:"data"`
}

// Metric identifies one of the snapshot's metric fields as referenced by
// rule conditions. Values match the dashboard's rule-builder keys.
type Metric string

const (
	MetricSpend                  Metric = "spend"
	MetricClicks                 Metric = "clicks"
	MetricReach                  Metric = "reach"
	MetricImpressions            Metric = "impressions"
	MetricInlineLinkClicks       Metric = "inlineLinkClicks"
	MetricCostPerInlineLinkClick Metric = "costPerInlineLinkClick"
	MetricFrequency              Metric = "frequency"
	MetricCPC                    Metric = "cpc"
	MetricCTR                    Metric = "ctr"
)

// Value returns the snapshot's reading for the metric. The second return
// is false for an unrecognized metric key; callers are expected to fail
// closed in that case.
func (m Metric) Value(v MetricValues) (float64, bool) {
	switch m {
	case MetricSpend:
		return v.Spend, true
	case MetricClicks:
		return float64(v.Clicks), true
	case MetricReach:
		return float64(v.Reach), true
	case MetricImpressions:
		return float64(v.Impressions), true
	case MetricInlineLinkClicks:
		return float64(v.InlineLinkClicks), true
	case MetricCostPerInlineLinkClick:
		return v.CostPerInlineLinkClick, true
	case MetricFrequency:
		return v.Frequency, true
	case MetricCPC:
		return v.CPC, true
	case MetricCTR:
		return v.CTR, true
	default:
		return 0, false
	}
}

func (m Metric) Valid() bool {
	_, ok := m.Value(MetricValues{})
	return ok
}

// MetricInfo describes a metric for the rule-builder catalog.
type MetricInfo struct {
	Value Metric `json:"value"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

// AvailableMetrics lists the metrics a rule condition may reference.
func AvailableMetrics() []MetricInfo {
	return []MetricInfo{
		{Value: MetricSpend, Label: "Spend", Unit: "USD"},
		{Value: MetricClicks, Label: "Clicks", Unit: "count"},
		{Value: MetricReach, Label: "Reach", Unit: "count"},
		{Value: MetricImpressions, Label: "Impressions", Unit: "count"},
		{Value: MetricInlineLinkClicks, Label: "Link Clicks", Unit: "count"},
		{Value: MetricCostPerInlineLinkClick, Label: "Cost per Link Click", Unit: "USD"},
		{Value: MetricFrequency, Label: "Frequency", Unit: "count"},
		{Value: MetricCPC, Label: "Cost per Click", Unit: "USD"},
		{Value: MetricCTR, Label: "Click-through Rate", Unit: "%"},
	}
}
