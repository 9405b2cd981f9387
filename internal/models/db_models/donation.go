package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

// Donation is created once per payment. The synchronous path creates it
// pending and flips it to completed; the webhook path may create it directly
// as completed. ProviderOrderCode is unique so a replayed payment reference
// can never produce a second row.
type Donation struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index"`
	ProjectID uuid.UUID `gorm:"index"`

	Amount       float64 `gorm:"not null"`
	TipAmount    float64
	ImpactPoints int64
	Status       DonationStatus `gorm:"type:donation_status;index"`

	// Impact snapshot, frozen at completion time. Per-language snapshots live
	// in the jsonb document; the English/German past-tense texts are lifted
	// into columns for cheap feed rendering.
	CalculatedImpact    *float64
	ImpactSnapshot      datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	GeneratedTextPastEn string
	GeneratedTextPastDe string

	Provider          string `gorm:"index"`
	ProviderOrderCode string `gorm:"uniqueIndex"`
	PaidAt            *int64

	Account Account `gorm:"foreignKey:AccountID"`
	Project Project `gorm:"foreignKey:ProjectID"`
}
