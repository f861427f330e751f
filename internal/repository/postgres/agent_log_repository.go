package postgres

import (
	"context"
	"fmt"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/repository"
)

type agentLogRepository struct {
	db *DB
}

// NewAgentLogRepository creates an agent log repository backed by postgres
func NewAgentLogRepository(db *DB) repository.AgentLogRepository {
	return &agentLogRepository{db: db}
}

func (r *agentLogRepository) Record(ctx context.Context, entry *domain.AgentLog) (int64, error) {
	if entry.AgentName == "" || entry.Action == "" {
		return 0, domain.Validationf("agent name and action are required")
	}

	query := `
        INSERT INTO agent_logs (
            agent_name, action, input_data, output_data, status,
            error_message, execution_time_ms, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		entry.AgentName, entry.Action, entry.InputData, entry.OutputData,
		entry.Status, entry.ErrorMessage, entry.ExecutionTimeMs,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to record agent log: %w", err)
	}

	return entry.ID, nil
}

func (r *agentLogRepository) RecordInteraction(ctx context.Context, interaction *domain.AgentInteraction) error {
	if interaction.FromAgent == "" || interaction.ToAgent == "" {
		return domain.Validationf("interaction endpoints are required")
	}

	query := `
        INSERT INTO agent_interactions (
            from_agent, to_agent, interaction_type, message, data,
            agent_log_id, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		interaction.FromAgent, interaction.ToAgent, interaction.InteractionType,
		interaction.Message, interaction.Data, interaction.AgentLogID,
	).Scan(&interaction.ID, &interaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record agent interaction: %w", err)
	}

	return nil
}

func (r *agentLogRepository) ListLogs(ctx context.Context, agentName string, limit int) ([]domain.AgentLog, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}

	query := `
        SELECT id, agent_name, action, input_data, output_data, status,
               error_message, execution_time_ms, created_at
        FROM agent_logs
        WHERE ($1 = '' OR agent_name = $1)
        ORDER BY created_at DESC
        LIMIT $2
    `

	var logs []domain.AgentLog
	if err := r.db.SelectContext(ctx, &logs, query, agentName, limit); err != nil {
		return nil, fmt.Errorf("failed to list agent logs: %w", err)
	}

	return logs, nil
}
