package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"giveback/internal/models/db_models"
	"giveback/pkg/utils"
)

type EventRepositoryInterface interface {
	// RecordEvent inserts the delivered event before any side effect runs.
	// A replayed (provider, event id) pair hits the unique index and comes
	// back as ErrDuplicateEvent.
	RecordEvent(event *db_models.PaymentEvent, ctx context.Context) error
	MarkProcessed(eventID uuid.UUID, ctx context.Context) error
}

func NewEventRepository(db *gorm.DB) EventRepositoryInterface {
	return &EventRepository{db: db}
}

type EventRepository struct {
	db *gorm.DB
}

func (e *EventRepository) RecordEvent(event *db_models.PaymentEvent, ctx context.Context) error {
	err := e.db.WithContext(ctx).Create(event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrDuplicateEvent
		}
		return err
	}
	return nil
}

func (e *EventRepository) MarkProcessed(eventID uuid.UUID, ctx context.Context) error {
	now := utils.NowUnixSeconds()
	return e.db.WithContext(ctx).
		Model(&db_models.PaymentEvent{}).
		Where("id = ?", eventID).
		Update("processed_at", now).Error
}
