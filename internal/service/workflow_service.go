package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/minimart-ai/backend/internal/agent"
	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/repository"
	"github.com/minimart-ai/backend/internal/storage"
	"github.com/minimart-ai/backend/internal/supervisor"
)

// WorkflowService runs supervisor workflows and keeps their audit trail: the
// supervisor decision in agent_logs and, when an archive bucket is
// configured, the full final state as a JSON object.
type WorkflowService struct {
	runtime *agent.Runtime
	machine *supervisor.Machine
	logs    repository.AgentLogRepository
	archive storage.ObjectStorage
}

// NewWorkflowService builds the state machine once; a nil archive disables
// workflow archiving.
func NewWorkflowService(runtime *agent.Runtime, logs repository.AgentLogRepository, archive storage.ObjectStorage) (*WorkflowService, error) {
	machine, err := runtime.BuildMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow machine: %w", err)
	}

	return &WorkflowService{
		runtime: runtime,
		machine: machine,
		logs:    logs,
		archive: archive,
	}, nil
}

// Run executes one workflow to a terminal state and records the supervisor
// decision. The returned state always carries a definite status; node
// failures surface there, not as an error.
func (s *WorkflowService) Run(ctx context.Context, task string, payload supervisor.TaskPayload) (*supervisor.TaskState, error) {
	if task == "" {
		return nil, domain.Validationf("workflow task is required")
	}

	workflowID := uuid.NewString()
	state := supervisor.NewTaskState(workflowID, task, payload)

	started := time.Now()
	state = s.machine.Run(ctx, state)

	s.recordSupervisorDecision(ctx, task, state, started)
	s.archiveState(ctx, state)

	return state, nil
}

// RunInventoryManagement is the full chain: forecast, reorder, negotiation,
// logistics.
func (s *WorkflowService) RunInventoryManagement(ctx context.Context, productIDs []int64, forecastDays int) (*supervisor.TaskState, error) {
	return s.Run(ctx, supervisor.TaskInventoryManagement, supervisor.TaskPayload{
		ProductIDs:         productIDs,
		ForecastPeriodDays: forecastDays,
	})
}

// RunEmergencyReorder skips forecasting and goes straight to the reorder
// evaluation so products at safety stock get orders out immediately.
func (s *WorkflowService) RunEmergencyReorder(ctx context.Context, productIDs []int64) (*supervisor.TaskState, error) {
	return s.Run(ctx, supervisor.TaskCheckReorderPoints, supervisor.TaskPayload{
		ProductIDs: productIDs,
	})
}

// RunSupplierPerformanceReview scores supplier delivery history.
func (s *WorkflowService) RunSupplierPerformanceReview(ctx context.Context) (*supervisor.TaskState, error) {
	return s.Run(ctx, supervisor.TaskLogisticsTracking, supervisor.TaskPayload{
		Action: agent.ActionPerformanceReview,
	})
}

func (s *WorkflowService) ListAgentLogs(ctx context.Context, agentName string, limit int) ([]domain.AgentLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	return s.logs.ListLogs(ctx, agentName, limit)
}

func (s *WorkflowService) recordSupervisorDecision(ctx context.Context, task string, state *supervisor.TaskState, started time.Time) {
	input, _ := json.Marshal(map[string]any{"task": task})
	output, _ := json.Marshal(map[string]any{
		"workflow_id": state.WorkflowID,
		"status":      state.WorkflowStatus,
		"steps":       len(state.ExecutionLog),
	})

	entry := &domain.AgentLog{
		AgentName:       agent.NameSupervisor,
		Action:          "route_workflow",
		InputData:       input,
		OutputData:      output,
		Status:          state.WorkflowStatus,
		ErrorMessage:    state.ErrorMessage,
		ExecutionTimeMs: time.Since(started).Milliseconds(),
	}
	if _, err := s.logs.Record(ctx, entry); err != nil {
		log.Warn().Str("workflow_id", state.WorkflowID).Err(err).Msg("could not record supervisor decision")
	}
}

// archiveState uploads the final workflow state, best effort. The key is
// date-partitioned so old runs can be swept by prefix.
func (s *WorkflowService) archiveState(ctx context.Context, state *supervisor.TaskState) {
	if s.archive == nil {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		log.Warn().Str("workflow_id", state.WorkflowID).Err(err).Msg("could not marshal workflow state for archive")

		return
	}

	key := fmt.Sprintf("workflows/%s/%s.json", state.FinishedAt.UTC().Format("2006-01-02"), state.WorkflowID)
	if err := s.archive.UploadObject(ctx, key, data); err != nil {
		log.Warn().Str("workflow_id", state.WorkflowID).Str("key", key).Err(err).Msg("could not archive workflow state")
	}
}
