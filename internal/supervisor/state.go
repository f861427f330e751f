// internal/supervisor/state.go
package supervisor

import (
	"time"

	"github.com/minimart-ai/backend/internal/forecast"
	"github.com/minimart-ai/backend/internal/logistics"
	"github.com/minimart-ai/backend/internal/reorder"
	"github.com/minimart-ai/backend/internal/supplier"
)

// State is a node of the workflow state machine.
type State string

const (
	StateDecisionMaking        State = "decision_making"
	StateDemandForecast        State = "demand_forecast"
	StateOrderPlacement        State = "order_placement"
	StateSupplierNegotiation   State = "supplier_negotiation"
	StateLogisticsCoordination State = "logistics_coordination"
	StateErrorHandling         State = "error_handling"
	StateEnd                   State = "end"
)

// Task tags routed by the supervisor
const (
	TaskInventoryManagement = "inventory_management"
	TaskDemandForecast      = "demand_forecast"
	TaskCheckReorderPoints  = "check_reorder_points"
	TaskOrderPlacement      = "order_placement"
	TaskSupplierNegotiation = "supplier_negotiation"
	TaskLogisticsTracking   = "logistics_tracking"
)

// Workflow statuses
const (
	StatusRunning       = "running"
	StatusCompleted     = "completed"
	StatusError         = "error"
	StatusErrorHandled  = "error_handled"
	StatusCriticalError = "critical_error"
)

// TaskPayload carries the inputs and accumulated outputs threaded through a
// workflow. Fields are optional per stage; each agent reads what it needs
// and fills in what it produced for the next step.
type TaskPayload struct {
	ProductIDs         []int64                   `json:"product_ids,omitempty"`
	ForecastPeriodDays int                       `json:"forecast_period_days,omitempty"`
	Action             string                    `json:"action,omitempty"`
	ProductID          int64                     `json:"product_id,omitempty"`
	Quantity           int                       `json:"quantity,omitempty"`
	TargetPrice        float64                   `json:"target_price,omitempty"`
	IssueType          string                    `json:"issue_type,omitempty"`
	ShipmentID         int64                     `json:"shipment_id,omitempty"`
	NewStatus          string                    `json:"new_status,omitempty"`
	TrackingInfo       string                    `json:"tracking_info,omitempty"`
	ForecastData       map[int64]forecast.Result `json:"forecast_data,omitempty"`
	OrderData          *OrderData                `json:"order_data,omitempty"`
	SupplierData       *SupplierData             `json:"supplier_data,omitempty"`
}

// OrderData is the reorder stage output forwarded to later stages.
type OrderData struct {
	Evaluation      reorder.Evaluation     `json:"evaluation"`
	Optimizations   []reorder.Optimization `json:"optimizations,omitempty"`
	EmergencyOrders []EmergencyOrder       `json:"emergency_orders,omitempty"`
}

// ContinueChain reports whether anything actionable came out of the reorder
// stage; an empty evaluation ends the workflow early.
func (d *OrderData) ContinueChain() bool {
	if d == nil {
		return false
	}

	return len(d.Evaluation.Candidates)+len(d.Evaluation.Emergencies) > 0
}

// EmergencyOrder records an urgent order raised for a product at safety
// stock.
type EmergencyOrder struct {
	ProductID      int64  `json:"product_id"`
	SupplierID     int64  `json:"supplier_id"`
	Quantity       int    `json:"quantity"`
	ShipmentNumber string `json:"shipment_number"`
	OrderNumber    string `json:"order_number"`
}

// SupplierData is the negotiation stage output.
type SupplierData struct {
	Rankings     []supplier.Score              `json:"rankings,omitempty"`
	Negotiations []supplier.NegotiationResult  `json:"negotiations,omitempty"`
	Proposals    []supplier.ProposalEvaluation `json:"proposals,omitempty"`
	Tracking     *logistics.TrackingReport     `json:"tracking,omitempty"`
}

// ChainBreaker lets an agent result stop the workflow chain early when there
// is nothing left to act on.
type ChainBreaker interface {
	ContinueChain() bool
}

// LogEntry is one step record in a workflow execution log.
type LogEntry struct {
	Node      State     `json:"node"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
}

// TaskState is the full state of one workflow execution. It is owned by a
// single Run call and never shared between concurrent workflows.
type TaskState struct {
	WorkflowID     string         `json:"workflow_id"`
	CurrentTask    string         `json:"current_task"`
	TaskData       TaskPayload    `json:"task_data"`
	AgentResults   map[string]any `json:"agent_results"`
	WorkflowStatus string         `json:"workflow_status"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	ExecutionLog   []LogEntry     `json:"execution_log"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
}

// NewTaskState builds the initial state for a workflow run.
func NewTaskState(workflowID, task string, payload TaskPayload) *TaskState {
	return &TaskState{
		WorkflowID:     workflowID,
		CurrentTask:    task,
		TaskData:       payload,
		AgentResults:   make(map[string]any),
		WorkflowStatus: StatusRunning,
	}
}

func (s *TaskState) appendLog(node State, action string) {
	s.ExecutionLog = append(s.ExecutionLog, LogEntry{
		Node:      node,
		Timestamp: time.Now().UTC(),
		Action:    action,
	})
}

// NodeVisits returns the ordered node names from the execution log.
func (s *TaskState) NodeVisits() []State {
	visits := make([]State, len(s.ExecutionLog))
	for i, e := range s.ExecutionLog {
		visits[i] = e.Node
	}

	return visits
}
