// internal/supervisor/recovery.go
package supervisor

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Recovery strategy types
const (
	RecoveryRetry      = "retry"
	RecoveryFallback   = "fallback"
	RecoveryEscalation = "escalation"
)

// RecoveryStrategy is the recommendation produced by the error handler. It
// describes what the caller should do; the workflow itself never re-executes
// anything.
type RecoveryStrategy struct {
	Type           string `json:"type"`
	MaxRetries     int    `json:"max_retries,omitempty"`
	BackoffSeconds int    `json:"backoff_seconds,omitempty"`
	Fallback       string `json:"fallback,omitempty"`
	Priority       string `json:"priority,omitempty"`
	Channel        string `json:"channel,omitempty"`
	Message        string `json:"message"`
}

// classifyError picks a recovery strategy by matching the error text:
// transient infrastructure failures get a retry recommendation, bad input a
// manual fallback, anything else an escalation.
func classifyError(message string) RecoveryStrategy {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "connection"):
		return RecoveryStrategy{
			Type:           RecoveryRetry,
			MaxRetries:     3,
			BackoffSeconds: 5,
			Message:        "transient failure, retry the task: " + message,
		}
	case strings.Contains(lower, "validation"):
		return RecoveryStrategy{
			Type:     RecoveryFallback,
			Fallback: "manual_intervention",
			Message:  "invalid input, route to manual intervention: " + message,
		}
	default:
		return RecoveryStrategy{
			Type:     RecoveryEscalation,
			Priority: "high",
			Channel:  "email",
			Message:  "unrecognized failure, escalate: " + message,
		}
	}
}

// handleError is the error_handling node. It must never raise: any internal
// failure is caught and downgraded to the critical_error terminal status so
// the workflow still ends.
func (m *Machine) handleError(state *TaskState) {
	defer func() {
		if r := recover(); r != nil {
			state.WorkflowStatus = StatusCriticalError
			state.ErrorMessage = fmt.Sprintf("error handler failed: %v (original: %s)", r, state.ErrorMessage)
			state.appendLog(StateErrorHandling, state.ErrorMessage)

			log.Error().
				Str("workflow_id", state.WorkflowID).
				Str("error", state.ErrorMessage).
				Msg("error handler panicked")
		}
	}()

	strategy := classifyError(state.ErrorMessage)
	state.AgentResults[string(StateErrorHandling)] = strategy
	state.WorkflowStatus = StatusErrorHandled
	state.appendLog(StateErrorHandling, fmt.Sprintf("recovery strategy: %s", strategy.Type))

	log.Warn().
		Str("workflow_id", state.WorkflowID).
		Str("strategy", strategy.Type).
		Str("error", state.ErrorMessage).
		Msg("workflow error handled")
}
