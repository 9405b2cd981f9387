package db_models

import (
	"github.com/google/uuid"
)

type TransactionType string

const (
	TxnTypeDonationPoints TransactionType = "donation_points"
	TxnTypePointsReversal TransactionType = "points_reversal"
)

// UserTransaction is the append-only audit trail of balance mutations. Rows
// are never updated or deleted; for a user without manual adjustments the
// balance equals the sum of PointsChange over their rows.
type UserTransaction struct {
	BaseModel
	AccountID  uuid.UUID       `gorm:"index"`
	ProjectID  uuid.UUID       `gorm:"index"`
	DonationID uuid.UUID       `gorm:"index"`
	Type       TransactionType `gorm:"type:transaction_type;index"`

	Amount             float64
	PointsChange       int64
	PointsBalanceAfter int64
	Description        string

	Account Account `gorm:"foreignKey:AccountID"`
}
