// internal/supervisor/machine.go
package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// AgentFunc executes one agent node against the workflow payload and
// returns the result stored under the node's name in AgentResults.
type AgentFunc func(ctx context.Context, state *TaskState) (any, error)

// maxSteps bounds the run loop; the deepest legal workflow visits each agent
// node once with a decision step between each.
const maxSteps = 24

// Machine is the workflow supervisor: a sequential state machine routing a
// task through the agent nodes with per-step error recovery. A Machine is
// immutable after construction and safe for concurrent Run calls; all
// mutable state lives in the per-run TaskState.
type Machine struct {
	agents  map[State]AgentFunc
	routing map[string]State
	chain   map[string]string
}

// NewMachine wires the agent nodes into the transition tables. Every task
// tag must route to a registered agent node; a broken table is a
// construction error, not a runtime fallthrough.
func NewMachine(agents map[State]AgentFunc) (*Machine, error) {
	m := &Machine{
		agents: agents,
		routing: map[string]State{
			TaskInventoryManagement: StateDemandForecast,
			TaskDemandForecast:      StateDemandForecast,
			TaskCheckReorderPoints:  StateOrderPlacement,
			TaskOrderPlacement:      StateOrderPlacement,
			TaskSupplierNegotiation: StateSupplierNegotiation,
			TaskLogisticsTracking:   StateLogisticsCoordination,
		},
		chain: map[string]string{
			TaskInventoryManagement: TaskCheckReorderPoints,
			TaskCheckReorderPoints:  TaskSupplierNegotiation,
			TaskSupplierNegotiation: TaskLogisticsTracking,
		},
	}

	for task, node := range m.routing {
		if _, ok := agents[node]; !ok {
			return nil, fmt.Errorf("task %q routes to unregistered node %q", task, node)
		}
	}
	for from, to := range m.chain {
		if _, ok := m.routing[to]; !ok && to != "" {
			return nil, fmt.Errorf("chain from %q targets unroutable task %q", from, to)
		}
	}

	return m, nil
}

// Run drives the state machine to a terminal state. Every path ends in
// StateEnd with a definite workflow status; node errors are captured and
// classified by the error handler rather than propagated.
func (m *Machine) Run(ctx context.Context, state *TaskState) *TaskState {
	state.StartedAt = time.Now().UTC()
	if state.AgentResults == nil {
		state.AgentResults = make(map[string]any)
	}

	current := StateDecisionMaking
	for steps := 0; current != StateEnd; steps++ {
		if steps >= maxSteps {
			state.WorkflowStatus = StatusCriticalError
			state.ErrorMessage = fmt.Sprintf("workflow exceeded %d steps at node %s", maxSteps, current)
			break
		}

		switch current {
		case StateDecisionMaking:
			current = m.decide(state)
		case StateErrorHandling:
			m.handleError(state)
			current = StateEnd
		default:
			m.runAgent(ctx, current, state)
			current = StateDecisionMaking
		}
	}

	state.appendLog(StateEnd, "workflow finished with status "+state.WorkflowStatus)
	state.FinishedAt = time.Now().UTC()

	log.Info().
		Str("workflow_id", state.WorkflowID).
		Str("status", state.WorkflowStatus).
		Int("steps", len(state.ExecutionLog)).
		Msg("workflow finished")

	return state
}

// decide is the decision_making node: pick the next agent from the current
// task, or terminate.
func (m *Machine) decide(state *TaskState) State {
	if state.WorkflowStatus == StatusError {
		state.appendLog(StateDecisionMaking, "routing to error handling: "+state.ErrorMessage)

		return StateErrorHandling
	}

	if state.CurrentTask == "" {
		state.appendLog(StateDecisionMaking, "no further tasks, ending workflow")
		switch state.WorkflowStatus {
		case StatusErrorHandled, StatusCriticalError:
		default:
			state.WorkflowStatus = StatusCompleted
		}

		return StateEnd
	}

	next, ok := m.routing[state.CurrentTask]
	if !ok {
		state.WorkflowStatus = StatusError
		state.ErrorMessage = fmt.Sprintf("unknown task: %s", state.CurrentTask)
		state.appendLog(StateDecisionMaking, state.ErrorMessage)

		return StateErrorHandling
	}

	state.WorkflowStatus = "routing_to_" + string(next)
	state.appendLog(StateDecisionMaking, fmt.Sprintf("routing task %s to %s", state.CurrentTask, next))

	return next
}

// runAgent executes one agent node, records its result and advances the task
// chain. An error from the node flips the workflow into the error status for
// the next decision step.
func (m *Machine) runAgent(ctx context.Context, node State, state *TaskState) {
	task := state.CurrentTask
	result, err := m.agents[node](ctx, state)
	if err != nil {
		state.WorkflowStatus = StatusError
		state.ErrorMessage = err.Error()
		state.appendLog(node, fmt.Sprintf("task %s failed: %v", task, err))

		return
	}

	state.AgentResults[string(node)] = result
	state.WorkflowStatus = string(node) + "_completed"
	state.appendLog(node, fmt.Sprintf("task %s completed", task))

	next := m.chain[task]
	if br, ok := result.(ChainBreaker); ok && next != "" && !br.ContinueChain() {
		state.appendLog(node, "nothing actionable, ending chain early")
		next = ""
	}
	state.CurrentTask = next
}
