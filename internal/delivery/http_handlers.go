package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"adpulse/internal/domain"
	"adpulse/internal/usecase"
	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// handles HTTP requests
type HTTPHandlers struct {
	syncService *usecase.SyncService
	ruleService *usecase.RuleService
	scheduler   *usecase.Scheduler
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

// creates new HTTP handlers
func NewHTTPHandlers(
	syncService *usecase.SyncService,
	ruleService *usecase.RuleService,
	scheduler *usecase.Scheduler,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HTTPHandlers {
	return &HTTPHandlers{
		syncService: syncService,
		ruleService: ruleService,
		scheduler:   scheduler,
		logger:      logger,
		metrics:     metrics,
	}
}

// GetLatestCampaign returns the most recently synced snapshot.
func (h *HTTPHandlers) GetLatestCampaign(c *gin.Context) {
	campaign, err := h.syncService.LatestSnapshot(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "Failed to load latest campaign")
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// GetCampaignWithActions returns the latest snapshot plus its most recent
// action logs.
func (h *HTTPHandlers) GetCampaignWithActions(c *gin.Context) {
	result, err := h.syncService.SnapshotWithActions(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "Failed to load campaign with actions")
		return
	}
	c.JSON(http.StatusOK, result)
}

// SyncCampaign runs one manual sync cycle.
func (h *HTTPHandlers) SyncCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.syncService.Sync(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Manual sync failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Manual sync failed",
			"message":    err.Error(),
			"request_id": c.GetString("request_id"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Manual sync completed",
		"campaign":         result.Campaign,
		"executed_actions": result.ExecutedActions,
	})
}

// CreateRule creates an automation rule.
func (h *HTTPHandlers) CreateRule(c *gin.Context) {
	var input usecase.CreateRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), input)
	if err != nil {
		h.serviceError(c, err, "Failed to create rule")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ListRules returns all rules, newest first.
func (h *HTTPHandlers) ListRules(c *gin.Context) {
	rules, err := h.ruleService.ListRules(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules, "total": len(rules)})
}

// GetRule returns one rule with its ordered groups and conditions.
func (h *HTTPHandlers) GetRule(c *gin.Context) {
	rule, err := h.ruleService.GetRule(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err, "Failed to load rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

// UpdateRule applies a partial update to a rule.
func (h *HTTPHandlers) UpdateRule(c *gin.Context) {
	var input usecase.UpdateRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	rule, err := h.ruleService.UpdateRule(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.serviceError(c, err, "Failed to update rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeleteRule removes a rule and, with it, its condition groups.
func (h *HTTPHandlers) DeleteRule(c *gin.Context) {
	if err := h.ruleService.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		h.serviceError(c, err, "Failed to delete rule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleRule flips a rule's active flag.
func (h *HTTPHandlers) ToggleRule(c *gin.Context) {
	var input struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	rule, err := h.ruleService.ToggleRule(c.Request.Context(), c.Param("id"), *input.IsActive)
	if err != nil {
		h.serviceError(c, err, "Failed to toggle rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

// GetAvailableMetrics lists the metrics a condition may reference.
func (h *HTTPHandlers) GetAvailableMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": domain.AvailableMetrics()})
}

// GetAvailableActions lists the supported action kinds.
func (h *HTTPHandlers) GetAvailableActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": domain.AvailableActions()})
}

// ListActionLogs returns recent action logs, optionally filtered by rule.
func (h *HTTPHandlers) ListActionLogs(c *gin.Context) {
	filter := domain.ActionLogFilter{RuleID: c.Query("rule_id")}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		filter.Limit = limit
	}

	logs, err := h.ruleService.ListActionLogs(c.Request.Context(), filter)
	if err != nil {
		h.serviceError(c, err, "Failed to list action logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": len(logs)})
}

// ExecuteTest runs the active rules against the latest snapshot, or
// against caller-provided synthetic metrics.
func (h *HTTPHandlers) ExecuteTest(c *gin.Context) {
	var input struct {
		Metrics *domain.MetricValues `json:"metrics"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	logs, err := h.ruleService.ExecuteTest(c.Request.Context(), input.Metrics)
	if err != nil {
		h.serviceError(c, err, "Failed to execute rule test")
		return
	}
	c.JSON(http.StatusOK, gin.H{"executed_actions": logs, "total": len(logs)})
}

// GetSchedulerStatus reports whether the scheduler is running and when
// the next cycle is due.
func (h *HTTPHandlers) GetSchedulerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// StartScheduler starts the sync scheduler; a second start is a no-op.
func (h *HTTPHandlers) StartScheduler(c *gin.Context) {
	started := h.scheduler.Start()
	message := "Scheduler started"
	if !started {
		message = "Scheduler already running"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// StopScheduler stops future timer firings.
func (h *HTTPHandlers) StopScheduler(c *gin.Context) {
	stopped := h.scheduler.Stop()
	message := "Scheduler stopped"
	if !stopped {
		message = "Scheduler was not running"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "adpulse",
		"version": "1.0.0",
	})
}

func (h *HTTPHandlers) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      "Invalid request",
		"message":    err.Error(),
		"request_id": c.GetString("request_id"),
	})
}

// serviceError maps service-layer errors onto HTTP statuses.
func (h *HTTPHandlers) serviceError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrRuleNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error(message)
	}

	c.JSON(status, gin.H{
		"error":      message,
		"message":    err.Error(),
		"request_id": c.GetString("request_id"),
	})
}
