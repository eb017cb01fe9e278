package repository

import (
	"context"
	"fmt"

	"autoparts/content/internal/domain/event"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepository interface {
	SaveAuditEvent(ctx context.Context, e *event.AuditEvent) error
}

type auditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// SaveAuditEvent is idempotent on the event ID so redelivered stream
// messages do not duplicate log rows.
func (r *auditRepository) SaveAuditEvent(ctx context.Context, e *event.AuditEvent) error {
	query := `
	INSERT INTO audit_log (id, action, actor, entity_key, language, payload, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, e.ID, string(e.Action), e.Actor, e.EntityKey, e.Language, e.Payload, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to save audit event %s: %w", e.ID, err)
	}
	return nil
}
