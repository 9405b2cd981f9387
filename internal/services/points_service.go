package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"giveback/internal/models/db_models"
	"giveback/internal/repositories"
	"giveback/pkg/utils"
)

// ApplyMeta describes the donation behind a points application; it ends up
// on the ledger entry verbatim.
type ApplyMeta struct {
	ProjectID   uuid.UUID
	DonationID  uuid.UUID
	Amount      float64
	Description string
}

type PointsServiceInterface interface {
	// Apply credits delta points to the account and appends the matching
	// ledger entry. Delta arrives unrounded; this is the only place in the
	// system that rounds points. Returns the balance after the credit.
	Apply(accountID uuid.UUID, delta float64, meta ApplyMeta, ctx context.Context) (int64, error)
	GetBalance(accountID uuid.UUID, ctx context.Context) (int64, error)
}

type PointsService struct {
	pointsRepo repositories.PointsRepositoryInterface
}

func NewPointsService(pointsRepo repositories.PointsRepositoryInterface) PointsServiceInterface {
	return &PointsService{pointsRepo: pointsRepo}
}

func (s *PointsService) GetBalance(accountID uuid.UUID, ctx context.Context) (int64, error) {
	return s.pointsRepo.GetBalance(accountID, ctx)
}

// Apply runs the ledger saga: persist an intent, atomically increment the
// balance, append the audit entry, mark the intent committed. If the append
// fails the increment is compensated; if the compensation itself fails the
// intent stays pending for the reconciler to resolve.
func (s *PointsService) Apply(accountID uuid.UUID, delta float64, meta ApplyMeta, ctx context.Context) (int64, error) {
	points := int64(math.Floor(delta))
	if points <= 0 {
		return s.pointsRepo.GetBalance(accountID, ctx)
	}

	logger := log.WithFields(log.Fields{
		"account_id":  accountID,
		"donation_id": meta.DonationID,
		"points":      points,
	})

	intent := &db_models.LedgerIntent{
		AccountID:  accountID,
		DonationID: meta.DonationID,
		Delta:      points,
		Status:     db_models.IntentStatusPending,
	}
	if err := s.pointsRepo.CreateIntent(intent, ctx); err != nil {
		if errors.Is(err, utils.ErrPointsAlreadyApplied) {
			logger.Info("points already applied for donation, skipping")
			return s.pointsRepo.GetBalance(accountID, ctx)
		}
		return 0, fmt.Errorf("create ledger intent: %w", err)
	}

	newBalance, err := s.pointsRepo.IncrementBalance(accountID, points, ctx)
	if err != nil {
		// Balance untouched, close the intent so the reconciler does not
		// mistake this for a half-applied credit.
		if markErr := s.pointsRepo.MarkIntent(intent.ID, db_models.IntentStatusAbandoned, ctx); markErr != nil {
			logger.WithError(markErr).Error("failed to abandon intent after increment failure")
		}
		return 0, fmt.Errorf("increment balance: %w", err)
	}

	txn := &db_models.UserTransaction{
		AccountID:          accountID,
		ProjectID:          meta.ProjectID,
		DonationID:         meta.DonationID,
		Type:               db_models.TxnTypeDonationPoints,
		Amount:             meta.Amount,
		PointsChange:       points,
		PointsBalanceAfter: newBalance,
		Description:        meta.Description,
	}
	if err := s.pointsRepo.AppendTransaction(txn, ctx); err != nil {
		logger.WithError(err).Error("ledger append failed, compensating balance")
		if _, compErr := s.pointsRepo.IncrementBalance(accountID, -points, ctx); compErr != nil {
			// Leave the intent pending: balance and ledger disagree and
			// only the reconciler can fix it now.
			logger.WithError(compErr).Error("compensation failed, intent left pending for reconciler")
			return 0, fmt.Errorf("%w: %v", utils.ErrLedgerAppendFailed, err)
		}
		if markErr := s.pointsRepo.MarkIntent(intent.ID, db_models.IntentStatusCompensated, ctx); markErr != nil {
			logger.WithError(markErr).Error("failed to mark intent compensated")
		}
		return 0, fmt.Errorf("%w: %v", utils.ErrLedgerAppendFailed, err)
	}

	if err := s.pointsRepo.MarkIntent(intent.ID, db_models.IntentStatusCommitted, ctx); err != nil {
		// The credit is complete; the reconciler will see the ledger entry
		// and commit the intent on its next pass.
		logger.WithError(err).Warn("failed to mark intent committed")
	}

	logger.WithField("balance_after", newBalance).Info("points applied")
	return newBalance, nil
}
