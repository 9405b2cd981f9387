package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"giveback/internal/models/db_models"
)

type DonationRepositoryInterface interface {
	CreateDonation(donation *db_models.Donation, ctx context.Context) error
	GetDonationByID(donationID string, ctx context.Context) (*db_models.Donation, error)
	GetDonationByOrderCode(orderCode string, ctx context.Context) (*db_models.Donation, error)
	UpdateDonation(donation *db_models.Donation, fields map[string]interface{}, ctx context.Context) error
	ListDonationsByAccount(accountID string, page int, pageSize int, ctx context.Context) ([]db_models.Donation, error)
}

func NewDonationRepository(db *gorm.DB) DonationRepositoryInterface {
	return &DonationRepository{db: db}
}

type DonationRepository struct {
	db *gorm.DB
}

func (d *DonationRepository) CreateDonation(donation *db_models.Donation, ctx context.Context) error {
	return d.db.WithContext(ctx).Create(donation).Error
}

func (d *DonationRepository) GetDonationByID(donationID string, ctx context.Context) (*db_models.Donation, error) {
	var donation db_models.Donation
	err := d.db.WithContext(ctx).Where("id = ?", donationID).First(&donation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (d *DonationRepository) GetDonationByOrderCode(orderCode string, ctx context.Context) (*db_models.Donation, error) {
	var donation db_models.Donation
	err := d.db.WithContext(ctx).Where("provider_order_code = ?", orderCode).First(&donation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (d *DonationRepository) UpdateDonation(donation *db_models.Donation, fields map[string]interface{}, ctx context.Context) error {
	return d.db.WithContext(ctx).Model(donation).Updates(fields).Error
}

func (d *DonationRepository) ListDonationsByAccount(accountID string, page int, pageSize int, ctx context.Context) ([]db_models.Donation, error) {
	var donations []db_models.Donation
	err := d.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Scopes(func(db *gorm.DB) *gorm.DB {
			offset := (page - 1) * pageSize
			return db.Offset(offset).Limit(pageSize)
		}).
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}
