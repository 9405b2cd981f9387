// Package jobs runs background maintenance: the ledger-intent reconciler.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"giveback/internal/models/db_models"
	"giveback/internal/repositories"
	"giveback/pkg/utils"
)

const reconcileBatchSize = 100

// Reconciler resolves ledger intents stuck in pending. An intent is left
// pending only when the balance was incremented but neither the ledger append
// nor the compensation went through, or when the final status write was lost.
// Either way the ledger rows tell which case it is.
type Reconciler struct {
	cron       *cron.Cron
	pointsRepo repositories.PointsRepositoryInterface
	abandonAge time.Duration
}

func NewReconciler(pointsRepo repositories.PointsRepositoryInterface, schedule string, abandonAge time.Duration) *Reconciler {
	c := cron.New()
	r := &Reconciler{
		cron:       c,
		pointsRepo: pointsRepo,
		abandonAge: abandonAge,
	}
	c.AddFunc(schedule, func() {
		if err := r.RunOnce(context.Background()); err != nil {
			log.WithError(err).Error("[CRON] ledger reconciliation failed")
		}
	})
	return r
}

func (r *Reconciler) Start() {
	r.cron.Start()
	log.Info("ledger reconciler started")
}

func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Info("ledger reconciler stopped")
}

// RunOnce inspects pending intents older than the abandon age. If the ledger
// entry for the intent's donation exists, the credit completed and only the
// status write was lost: mark committed. If not, the balance holds a credit
// the ledger never recorded: revert it and mark the intent abandoned.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	intents, err := r.pointsRepo.ListPendingIntentsOlderThan(r.abandonAge, reconcileBatchSize, ctx)
	if err != nil {
		return err
	}

	for _, intent := range intents {
		logger := log.WithFields(log.Fields{
			"intent_id":     intent.ID,
			"account_id":    intent.AccountID,
			"donation_id":   intent.DonationID,
			"delta":         intent.Delta,
			"pending_since": utils.FromUnixSeconds(intent.CreatedAt).Format(time.RFC3339),
		})

		applied, err := r.pointsRepo.HasTransactionForDonation(intent.DonationID, ctx)
		if err != nil {
			logger.WithError(err).Error("reconciler: ledger lookup failed")
			continue
		}

		if applied {
			if err := r.pointsRepo.MarkIntent(intent.ID, db_models.IntentStatusCommitted, ctx); err != nil {
				logger.WithError(err).Error("reconciler: failed to commit intent")
				continue
			}
			logger.Info("reconciler: intent committed, ledger entry was present")
			continue
		}

		newBalance, err := r.pointsRepo.IncrementBalance(intent.AccountID, -intent.Delta, ctx)
		if err != nil {
			logger.WithError(err).Error("reconciler: failed to revert balance")
			continue
		}

		// Record the credit that landed and its reversal so the ledger
		// still sums to the balance. The backfill entry also stops a later
		// pass from reverting the same intent twice if the status write
		// below is lost.
		r.appendRevertPair(intent, newBalance, logger, ctx)

		if err := r.pointsRepo.MarkIntent(intent.ID, db_models.IntentStatusAbandoned, ctx); err != nil {
			logger.WithError(err).Error("reconciler: failed to abandon intent")
			continue
		}
		logger.Warn("reconciler: reverted unrecorded balance credit")
	}

	return nil
}

// appendRevertPair backfills the ledger entry the failed apply never wrote,
// then appends the matching reversal. Append failures are logged only; the
// balance is already consistent and the entries are audit trail.
func (r *Reconciler) appendRevertPair(intent db_models.LedgerIntent, newBalance int64, logger *log.Entry, ctx context.Context) {
	backfill := &db_models.UserTransaction{
		AccountID:          intent.AccountID,
		DonationID:         intent.DonationID,
		Type:               db_models.TxnTypeDonationPoints,
		PointsChange:       intent.Delta,
		PointsBalanceAfter: newBalance + intent.Delta,
		Description:        fmt.Sprintf("Backfilled unrecorded credit for donation %s", intent.DonationID),
	}
	if err := r.pointsRepo.AppendTransaction(backfill, ctx); err != nil {
		logger.WithError(err).Error("reconciler: failed to backfill ledger entry")
		return
	}

	reversal := &db_models.UserTransaction{
		AccountID:          intent.AccountID,
		DonationID:         intent.DonationID,
		Type:               db_models.TxnTypePointsReversal,
		PointsChange:       -intent.Delta,
		PointsBalanceAfter: newBalance,
		Description:        fmt.Sprintf("Reversal of unrecorded credit for donation %s", intent.DonationID),
	}
	if err := r.pointsRepo.AppendTransaction(reversal, ctx); err != nil {
		logger.WithError(err).Error("reconciler: failed to append reversal entry")
	}
}
