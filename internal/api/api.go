// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/minimart-ai/backend/internal/api/handlers"
	"github.com/minimart-ai/backend/internal/api/middleware"
	"github.com/minimart-ai/backend/internal/service"
)

type Services struct {
	InventoryService *service.InventoryService
	WorkflowService  *service.WorkflowService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("", inventoryHandler.ListSnapshots)
				inventoryGroup.GET("/alerts", inventoryHandler.GetAlerts)
				inventoryGroup.GET("/performance", inventoryHandler.GetPerformance)
				inventoryGroup.GET("/:id", inventoryHandler.GetSnapshot)
				inventoryGroup.PUT("/:id/levels", inventoryHandler.UpdateLevels)
				inventoryGroup.POST("/:id/adjust", inventoryHandler.AdjustStock)
				inventoryGroup.POST("/:id/reserve", inventoryHandler.Reserve)
				inventoryGroup.POST("/:id/release", inventoryHandler.Release)
				inventoryGroup.GET("/:id/sales_trend", inventoryHandler.GetSalesTrend)
			}
		}

		if services.WorkflowService != nil {
			agentHandler := handlers.NewAgentHandler(services.WorkflowService)
			agentGroup := apiGroup.Group("/agents")
			{
				workflowGroup := agentGroup.Group("/workflow")
				{
					workflowGroup.POST("/inventory-management", agentHandler.RunInventoryManagement)
					workflowGroup.POST("/emergency-reorder", agentHandler.RunEmergencyReorder)
					workflowGroup.POST("/supplier-performance-review", agentHandler.RunSupplierPerformanceReview)
				}

				agentGroup.POST("/demand-forecast", agentHandler.RunDemandForecast)
				agentGroup.POST("/order-placement", agentHandler.RunOrderPlacement)
				agentGroup.POST("/supplier-negotiation", agentHandler.RunSupplierNegotiation)
				agentGroup.POST("/logistics-tracking", agentHandler.RunLogisticsTracking)
				agentGroup.GET("/logs", agentHandler.GetLogs)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
