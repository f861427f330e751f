package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/service"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}

	return id, true
}

func (h *InventoryHandler) ListSnapshots(c *gin.Context) {
	snapshots, err := h.service.ListSnapshots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": snapshots, "total": len(snapshots)})
}

func (h *InventoryHandler) GetSnapshot(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	snapshot, err := h.service.GetSnapshot(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

type updateLevelsRequest struct {
	CurrentStock  int `json:"current_stock"`
	ReservedStock int `json:"reserved_stock"`
}

func (h *InventoryHandler) UpdateLevels(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req updateLevelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	snapshot, err := h.service.UpdateLevels(c.Request.Context(), id, req.CurrentStock, req.ReservedStock)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

type adjustStockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	snapshot, err := h.service.AdjustStock(c.Request.Context(), id, req.Delta, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

type reservationRequest struct {
	Quantity int `json:"quantity"`
}

func (h *InventoryHandler) Reserve(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.service.Reserve(c.Request.Context(), id, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reserved": req.Quantity})
}

func (h *InventoryHandler) Release(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.service.Release(c.Request.Context(), id, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"released": req.Quantity})
}

func (h *InventoryHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.service.LowStockAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

func (h *InventoryHandler) GetSalesTrend(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trend, err := h.service.GetSalesTrend(c.Request.Context(), id, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trend)
}

func (h *InventoryHandler) GetPerformance(c *gin.Context) {
	summary, err := h.service.PerformanceSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
