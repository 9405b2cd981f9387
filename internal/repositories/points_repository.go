package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"giveback/internal/models/db_models"
	"giveback/pkg/utils"
)

type PointsRepositoryInterface interface {
	// IncrementBalance applies delta to the account's balance in a single
	// server-side UPDATE and returns the resulting balance. Safe under
	// concurrent callers; there is no client-side read-modify-write.
	IncrementBalance(accountID uuid.UUID, delta int64, ctx context.Context) (int64, error)
	GetBalance(accountID uuid.UUID, ctx context.Context) (int64, error)
	AppendTransaction(txn *db_models.UserTransaction, ctx context.Context) error
	HasTransactionForDonation(donationID uuid.UUID, ctx context.Context) (bool, error)

	CreateIntent(intent *db_models.LedgerIntent, ctx context.Context) error
	MarkIntent(intentID uuid.UUID, status db_models.IntentStatus, ctx context.Context) error
	ListPendingIntentsOlderThan(age time.Duration, limit int, ctx context.Context) ([]db_models.LedgerIntent, error)
}

func NewPointsRepository(db *gorm.DB) PointsRepositoryInterface {
	return &PointsRepository{db: db}
}

type PointsRepository struct {
	db *gorm.DB
}

func (p *PointsRepository) IncrementBalance(accountID uuid.UUID, delta int64, ctx context.Context) (int64, error) {
	var account db_models.Account
	result := p.db.WithContext(ctx).
		Model(&account).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "points_balance"}}}).
		Where("id = ?", accountID).
		Update("points_balance", gorm.Expr("points_balance + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, utils.ErrAccountNotFound
	}
	return account.PointsBalance, nil
}

func (p *PointsRepository) GetBalance(accountID uuid.UUID, ctx context.Context) (int64, error) {
	var account db_models.Account
	err := p.db.WithContext(ctx).Select("points_balance").Where("id = ?", accountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.ErrAccountNotFound
		}
		return 0, err
	}
	return account.PointsBalance, nil
}

func (p *PointsRepository) AppendTransaction(txn *db_models.UserTransaction, ctx context.Context) error {
	return p.db.WithContext(ctx).Create(txn).Error
}

func (p *PointsRepository) HasTransactionForDonation(donationID uuid.UUID, ctx context.Context) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&db_models.UserTransaction{}).
		Where("donation_id = ? AND type = ?", donationID, db_models.TxnTypeDonationPoints).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *PointsRepository) CreateIntent(intent *db_models.LedgerIntent, ctx context.Context) error {
	err := p.db.WithContext(ctx).Create(intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrPointsAlreadyApplied
		}
		return err
	}
	return nil
}

func (p *PointsRepository) MarkIntent(intentID uuid.UUID, status db_models.IntentStatus, ctx context.Context) error {
	return p.db.WithContext(ctx).
		Model(&db_models.LedgerIntent{}).
		Where("id = ?", intentID).
		Updates(map[string]interface{}{
			"status":   status,
			"attempts": gorm.Expr("attempts + 1"),
		}).Error
}

func (p *PointsRepository) ListPendingIntentsOlderThan(age time.Duration, limit int, ctx context.Context) ([]db_models.LedgerIntent, error) {
	cutoff := time.Now().Add(-age).Unix()
	var intents []db_models.LedgerIntent
	err := p.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", db_models.IntentStatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}
