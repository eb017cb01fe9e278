package event

import (
	"time"

	"github.com/google/uuid"
)

const AuditEventType = "AuditEvent"

type AuditAction string

const (
	AuditActionSaveTranslation AuditAction = "translation.save"
	AuditActionSaveTaxonomy    AuditAction = "taxonomy.save"
)

// AuditEvent records one admin change for the audit log.
type AuditEvent struct {
	ID         string      `json:"id"`
	Action     AuditAction `json:"action"`
	Actor      string      `json:"actor"`      // Admin username
	EntityKey  string      `json:"entity_key"` // Translation key or setting key
	Language   string      `json:"language"`   // Empty for language-independent changes
	Payload    string      `json:"payload"`    // Raw JSON that was saved
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewAuditEvent(action AuditAction, actor, entityKey, language, payload string) *AuditEvent {
	return &AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		Actor:      actor,
		EntityKey:  entityKey,
		Language:   language,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

func (e *AuditEvent) EventType() string {
	return AuditEventType
}

func (e *AuditEvent) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
