package supervisor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/reorder"
)

func okAgents(orderData *OrderData) map[State]AgentFunc {
	return map[State]AgentFunc{
		StateDemandForecast: func(ctx context.Context, state *TaskState) (any, error) {
			return "forecast done", nil
		},
		StateOrderPlacement: func(ctx context.Context, state *TaskState) (any, error) {
			state.TaskData.OrderData = orderData

			return orderData, nil
		},
		StateSupplierNegotiation: func(ctx context.Context, state *TaskState) (any, error) {
			return "negotiation done", nil
		},
		StateLogisticsCoordination: func(ctx context.Context, state *TaskState) (any, error) {
			return "logistics done", nil
		},
	}
}

func actionableOrders() *OrderData {
	return &OrderData{
		Evaluation: reorder.Evaluation{
			Candidates: []reorder.Candidate{{ProductID: 1, Urgency: reorder.UrgencyNormal}},
		},
	}
}

func TestNewMachineRejectsMissingNodes(t *testing.T) {
	agents := okAgents(actionableOrders())
	delete(agents, StateSupplierNegotiation)

	_, err := NewMachine(agents)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unregistered node")
}

func TestInventoryManagementVisitsAllNodesInOrder(t *testing.T) {
	m, err := NewMachine(okAgents(actionableOrders()))
	require.NoError(t, err)

	state := m.Run(context.Background(), NewTaskState("wf-1", TaskInventoryManagement, TaskPayload{}))

	assert.Equal(t, StatusCompleted, state.WorkflowStatus)
	assert.Equal(t, []State{
		StateDecisionMaking,
		StateDemandForecast,
		StateDecisionMaking,
		StateOrderPlacement,
		StateDecisionMaking,
		StateSupplierNegotiation,
		StateDecisionMaking,
		StateLogisticsCoordination,
		StateDecisionMaking,
		StateEnd,
	}, state.NodeVisits())

	for _, node := range []State{StateDemandForecast, StateOrderPlacement, StateSupplierNegotiation, StateLogisticsCoordination} {
		assert.Contains(t, state.AgentResults, string(node))
	}
}

func TestEmptyReorderEvaluationEndsChainEarly(t *testing.T) {
	m, err := NewMachine(okAgents(&OrderData{}))
	require.NoError(t, err)

	state := m.Run(context.Background(), NewTaskState("wf-2", TaskInventoryManagement, TaskPayload{}))

	assert.Equal(t, StatusCompleted, state.WorkflowStatus)
	assert.Contains(t, state.AgentResults, string(StateOrderPlacement))
	assert.NotContains(t, state.AgentResults, string(StateSupplierNegotiation))
	assert.NotContains(t, state.AgentResults, string(StateLogisticsCoordination))
}

func TestStandaloneTaskRunsSingleNode(t *testing.T) {
	m, err := NewMachine(okAgents(actionableOrders()))
	require.NoError(t, err)

	state := m.Run(context.Background(), NewTaskState("wf-3", TaskDemandForecast, TaskPayload{ProductIDs: []int64{1}}))

	assert.Equal(t, StatusCompleted, state.WorkflowStatus)
	assert.Contains(t, state.AgentResults, string(StateDemandForecast))
	assert.NotContains(t, state.AgentResults, string(StateOrderPlacement))
}

func TestUnknownTaskIsHandledTerminally(t *testing.T) {
	m, err := NewMachine(okAgents(actionableOrders()))
	require.NoError(t, err)

	state := m.Run(context.Background(), NewTaskState("wf-4", "make_coffee", TaskPayload{}))

	assert.Contains(t, []string{StatusErrorHandled, StatusCriticalError}, state.WorkflowStatus)
	assert.Contains(t, state.ErrorMessage, "unknown task")

	strategy, ok := state.AgentResults[string(StateErrorHandling)].(RecoveryStrategy)
	require.True(t, ok)
	assert.Equal(t, RecoveryEscalation, strategy.Type)
}

func TestAgentErrorRoutesToRecovery(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStrategy string
	}{
		{"timeout retries", errors.New("store timeout while loading sales"), RecoveryRetry},
		{"connection retries", errors.New("connection refused"), RecoveryRetry},
		{"validation falls back", domain.Validationf("product_ids missing"), RecoveryFallback},
		{"anything else escalates", errors.New("disk on fire"), RecoveryEscalation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agents := okAgents(actionableOrders())
			agents[StateDemandForecast] = func(ctx context.Context, state *TaskState) (any, error) {
				return nil, tt.err
			}

			m, err := NewMachine(agents)
			require.NoError(t, err)

			state := m.Run(context.Background(), NewTaskState("wf-5", TaskDemandForecast, TaskPayload{}))

			assert.Equal(t, StatusErrorHandled, state.WorkflowStatus)
			assert.Equal(t, tt.err.Error(), state.ErrorMessage)

			strategy, ok := state.AgentResults[string(StateErrorHandling)].(RecoveryStrategy)
			require.True(t, ok)
			assert.Equal(t, tt.wantStrategy, strategy.Type)

			if tt.wantStrategy == RecoveryRetry {
				assert.Equal(t, 3, strategy.MaxRetries)
				assert.Equal(t, 5, strategy.BackoffSeconds)
			}
		})
	}
}

func TestRecoveryStrategyLabels(t *testing.T) {
	retry := classifyError("request timeout")
	assert.Equal(t, 3, retry.MaxRetries)
	assert.Equal(t, 5, retry.BackoffSeconds)

	fallback := classifyError("validation failed: missing product_id")
	assert.Equal(t, "manual_intervention", fallback.Fallback)

	escalation := classifyError("unexpected boom")
	assert.Equal(t, "high", escalation.Priority)
	assert.Equal(t, "email", escalation.Channel)
}

func TestWorkflowNeverLeftRunning(t *testing.T) {
	// A node that keeps feeding itself the same task would loop forever
	// without the step bound.
	agents := okAgents(actionableOrders())
	agents[StateDemandForecast] = func(ctx context.Context, state *TaskState) (any, error) {
		state.CurrentTask = "" // runAgent rewrites from the chain table anyway
		return "ok", nil
	}

	m, err := NewMachine(agents)
	require.NoError(t, err)

	state := m.Run(context.Background(), NewTaskState("wf-6", TaskDemandForecast, TaskPayload{}))
	assert.NotEqual(t, StatusRunning, state.WorkflowStatus)
	assert.Equal(t, StateEnd, state.NodeVisits()[len(state.NodeVisits())-1])
}
