// internal/agent/log.go
package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minimart-ai/backend/internal/domain"
)

// Decision log statuses
const (
	logStatusSuccess = "success"
	logStatusError   = "error"
)

// recordDecision persists one agent invocation to the decision log. A
// failure to persist propagates; a lost decision record is fatal to the
// action that produced it.
func (r *Runtime) recordDecision(ctx context.Context, agentName, action string, input, output any, actionErr error, started time.Time) (int64, error) {
	entry := &domain.AgentLog{
		AgentName:       agentName,
		Action:          action,
		InputData:       marshalLog(input),
		OutputData:      marshalLog(output),
		Status:          logStatusSuccess,
		ExecutionTimeMs: time.Since(started).Milliseconds(),
	}
	if actionErr != nil {
		entry.Status = logStatusError
		entry.ErrorMessage = actionErr.Error()
	}

	logID, err := r.stores.Logs.Record(ctx, entry)
	if err != nil {
		return 0, err
	}

	log.Debug().
		Str("agent", agentName).
		Str("action", action).
		Str("status", entry.Status).
		Int64("log_id", logID).
		Msg("agent decision recorded")

	return logID, nil
}

// recordInteraction appends an inter-agent message record tied to a decision
// log entry. Observational only; nothing is delivered.
func (r *Runtime) recordInteraction(ctx context.Context, from, to, interactionType, message string, data any, logID int64) error {
	interaction := &domain.AgentInteraction{
		FromAgent:       from,
		ToAgent:         to,
		InteractionType: interactionType,
		Message:         message,
		Data:            marshalLog(data),
	}
	if logID > 0 {
		interaction.AgentLogID = &logID
	}

	return r.stores.Logs.RecordInteraction(ctx, interaction)
}

func marshalLog(v any) []byte {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Msg("could not marshal log payload")

		return nil
	}

	return data
}
