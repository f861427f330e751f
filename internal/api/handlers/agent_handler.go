package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/minimart-ai/backend/internal/agent"
	"github.com/minimart-ai/backend/internal/service"
	"github.com/minimart-ai/backend/internal/supervisor"
)

type AgentHandler struct {
	workflows *service.WorkflowService
}

func NewAgentHandler(workflows *service.WorkflowService) *AgentHandler {
	return &AgentHandler{workflows: workflows}
}

type workflowRequest struct {
	ProductIDs         []int64 `json:"product_ids"`
	ForecastPeriodDays int     `json:"forecast_period_days"`
	ProductID          int64   `json:"product_id"`
	Quantity           int     `json:"quantity"`
	TargetPrice        float64 `json:"target_price"`
	Action             string  `json:"action"`
	IssueType          string  `json:"issue_type"`
	ShipmentID         int64   `json:"shipment_id"`
	NewStatus          string  `json:"new_status"`
	TrackingInfo       string  `json:"tracking_info"`
}

func (r workflowRequest) payload() supervisor.TaskPayload {
	return supervisor.TaskPayload{
		ProductIDs:         r.ProductIDs,
		ForecastPeriodDays: r.ForecastPeriodDays,
		ProductID:          r.ProductID,
		Quantity:           r.Quantity,
		TargetPrice:        r.TargetPrice,
		Action:             r.Action,
		IssueType:          r.IssueType,
		ShipmentID:         r.ShipmentID,
		NewStatus:          r.NewStatus,
		TrackingInfo:       r.TrackingInfo,
	}
}

func (h *AgentHandler) bindRequest(c *gin.Context) (workflowRequest, bool) {
	var req workflowRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return req, false
	}

	return req, true
}

func (h *AgentHandler) respondState(c *gin.Context, state *supervisor.TaskState) {
	status := http.StatusOK
	if state.WorkflowStatus == supervisor.StatusCriticalError {
		status = http.StatusInternalServerError
	}

	c.JSON(status, state)
}

func (h *AgentHandler) RunInventoryManagement(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	state, err := h.workflows.RunInventoryManagement(c.Request.Context(), req.ProductIDs, req.ForecastPeriodDays)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondState(c, state)
}

func (h *AgentHandler) RunEmergencyReorder(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	state, err := h.workflows.RunEmergencyReorder(c.Request.Context(), req.ProductIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondState(c, state)
}

func (h *AgentHandler) RunSupplierPerformanceReview(c *gin.Context) {
	state, err := h.workflows.RunSupplierPerformanceReview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondState(c, state)
}

func (h *AgentHandler) RunDemandForecast(c *gin.Context) {
	h.runTask(c, supervisor.TaskDemandForecast)
}

func (h *AgentHandler) RunOrderPlacement(c *gin.Context) {
	h.runTask(c, supervisor.TaskOrderPlacement)
}

func (h *AgentHandler) RunSupplierNegotiation(c *gin.Context) {
	h.runTask(c, supervisor.TaskSupplierNegotiation)
}

func (h *AgentHandler) RunLogisticsTracking(c *gin.Context) {
	h.runTask(c, supervisor.TaskLogisticsTracking)
}

func (h *AgentHandler) runTask(c *gin.Context, task string) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	state, err := h.workflows.Run(c.Request.Context(), task, req.payload())
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondState(c, state)
}

func (h *AgentHandler) GetLogs(c *gin.Context) {
	agentName := strings.TrimSpace(c.Query("agent"))
	if agentName != "" && !knownAgent(agentName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown agent: " + agentName})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.workflows.ListAgentLogs(c.Request.Context(), agentName, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}

func knownAgent(name string) bool {
	switch name {
	case agent.NameSupervisor, agent.NameDemandForecast, agent.NameOrderPlacement, agent.NameSupplier, agent.NameLogistics:
		return true
	}

	return false
}
