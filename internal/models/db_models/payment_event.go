package db_models

import (
	"gorm.io/datatypes"
)

// PaymentEvent stores every delivered provider event with its raw payload.
// The composite unique index on (provider, provider_event_id) is the
// idempotency guard: the insert fails on replay before any side effect runs.
type PaymentEvent struct {
	BaseModel
	Provider        string `gorm:"not null;index:ux_payment_events_provider_event,unique,priority:1"`
	ProviderEventID string `gorm:"not null;index:ux_payment_events_provider_event,unique,priority:2"`
	EventType       string `gorm:"index"`

	Payload     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	ProcessedAt *int64
}
