package db_models

import (
	"github.com/google/uuid"
)

type IntentStatus string

const (
	IntentStatusPending     IntentStatus = "pending"
	IntentStatusCommitted   IntentStatus = "committed"
	IntentStatusCompensated IntentStatus = "compensated"
	IntentStatusAbandoned   IntentStatus = "abandoned"
)

// LedgerIntent is written before the balance is touched so a crash between
// the balance increment and the ledger append leaves a visible trail. The
// reconciler resolves intents stuck in pending. DonationID is unique: one
// points application per donation, ever.
type LedgerIntent struct {
	BaseModel
	AccountID  uuid.UUID    `gorm:"index"`
	DonationID uuid.UUID    `gorm:"uniqueIndex"`
	Delta      int64        `gorm:"not null"`
	Status     IntentStatus `gorm:"type:intent_status;index"`
	Attempts   int          `gorm:"default:0"`
}
