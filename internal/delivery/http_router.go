package delivery

import (
	"time"

	"adpulse/internal/delivery/middleware"
	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics) *HTTPRouter {
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(60 * time.Second))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Campaign endpoints
		campaign := v1.Group("/campaign")
		{
			campaign.GET("/latest", r.handlers.GetLatestCampaign)
			campaign.GET("/with-actions", r.handlers.GetCampaignWithActions)
			campaign.POST("/sync", r.handlers.SyncCampaign)
		}

		// Automation rule endpoints
		rules := v1.Group("/rules")
		{
			rules.GET("", r.handlers.ListRules)
			rules.POST("", r.handlers.CreateRule)
			rules.GET("/catalog/metrics", r.handlers.GetAvailableMetrics)
			rules.GET("/catalog/actions", r.handlers.GetAvailableActions)
			rules.GET("/:id", r.handlers.GetRule)
			rules.PUT("/:id", r.handlers.UpdateRule)
			rules.DELETE("/:id", r.handlers.DeleteRule)
			rules.PATCH("/:id/toggle", r.handlers.ToggleRule)
		}

		// Action log endpoints
		v1.GET("/action-logs", r.handlers.ListActionLogs)

		// Rule testing harness
		v1.POST("/automation/test", r.handlers.ExecuteTest)

		// Scheduler endpoints
		scheduler := v1.Group("/scheduler")
		{
			scheduler.GET("/status", r.handlers.GetSchedulerStatus)
			scheduler.POST("/start", r.handlers.StartScheduler)
			scheduler.POST("/stop", r.handlers.StopScheduler)
			scheduler.POST("/sync", r.handlers.SyncCampaign)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
