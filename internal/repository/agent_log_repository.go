package repository

import (
	"context"

	"github.com/minimart-ai/backend/internal/domain"
)

// AgentLogRepository is the append-only decision log sink. Record failures
// are fatal to the action that produced them; nothing here is best-effort.
type AgentLogRepository interface {
	Record(ctx context.Context, entry *domain.AgentLog) (int64, error)
	RecordInteraction(ctx context.Context, interaction *domain.AgentInteraction) error

	// ListLogs reads recent entries back for the dashboard, newest first,
	// optionally filtered by agent name.
	ListLogs(ctx context.Context, agentName string, limit int) ([]domain.AgentLog, error)
}
