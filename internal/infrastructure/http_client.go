package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"adpulse/internal/domain"
	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"

	"golang.org/x/time/rate"
)

// ErrMissingAPIToken is returned when no Meta API token is configured.
// A sync cycle cannot run without credentials.
var ErrMissingAPIToken = errors.New("meta API token not configured, set META_API_TOKEN")

const insightsFields = "inline_link_clicks,cost_per_inline_link_click,reach,frequency,cpc,spend,clicks,impressions,ctr"

// implements InsightsClient interface
type HTTPClient struct {
	client      *http.Client
	baseURL     string
	apiToken    string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter
}

// creates a new HTTP client for the Meta Ads insights proxy
func NewHTTPClient(baseURL, apiToken string, timeout time.Duration, ratePerSecond int, logger *logger.Logger, metrics *metrics.Metrics) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:     baseURL,
		apiToken:    apiToken,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(rate.Limit(ratePerSecond), 10),
	}
}

// FetchInsights fetches the latest insights for one campaign. A missing
// token or non-2xx response is a hard failure for the calling cycle.
func (c *HTTPClient) FetchInsights(ctx context.Context, campaignID string) (*domain.InsightsResponse, error) {
	if c.apiToken == "" {
		c.metrics.RecordExternalAPIFailure("insights", "missing_token")
		return nil, ErrMissingAPIToken
	}

	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("insights", "rate_limit")
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	url := fmt.Sprintf("%s/%s/insights?fields=%s", c.baseURL, campaignID, insightsFields)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("insights", "request_creation")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("insights", "network_error")
		return nil, fmt.Errorf("failed to fetch campaign insights: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("insights", "read_body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordExternalAPICall("insights", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return nil, fmt.Errorf("insights API returned status %d: %s", resp.StatusCode, string(body))
	}

	var insights domain.InsightsResponse
	if err := json.Unmarshal(body, &insights); err != nil {
		c.metrics.RecordExternalAPIFailure("insights", "json_parse")
		return nil, fmt.Errorf("failed to parse insights response: %w", err)
	}

	c.metrics.RecordExternalAPICall("insights", "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"campaign_id": campaignID,
		"duration":    duration,
		"records":     len(insights.Data),
	}).Info("Successfully fetched campaign insights")

	return &insights, nil
}
