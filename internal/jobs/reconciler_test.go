package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"giveback/internal/jobs"
	"giveback/internal/models/db_models"
	"giveback/pkg/utils"
)

type stubPointsRepo struct {
	balances     map[uuid.UUID]int64
	transactions []db_models.UserTransaction
	intents      map[uuid.UUID]*db_models.LedgerIntent

	failMarkIntent bool
}

func newStubPointsRepo() *stubPointsRepo {
	return &stubPointsRepo{
		balances: make(map[uuid.UUID]int64),
		intents:  make(map[uuid.UUID]*db_models.LedgerIntent),
	}
}

func (s *stubPointsRepo) IncrementBalance(accountID uuid.UUID, delta int64, ctx context.Context) (int64, error) {
	if _, ok := s.balances[accountID]; !ok {
		return 0, utils.ErrAccountNotFound
	}
	s.balances[accountID] += delta
	return s.balances[accountID], nil
}

func (s *stubPointsRepo) GetBalance(accountID uuid.UUID, ctx context.Context) (int64, error) {
	return s.balances[accountID], nil
}

func (s *stubPointsRepo) AppendTransaction(txn *db_models.UserTransaction, ctx context.Context) error {
	s.transactions = append(s.transactions, *txn)
	return nil
}

func (s *stubPointsRepo) HasTransactionForDonation(donationID uuid.UUID, ctx context.Context) (bool, error) {
	for _, txn := range s.transactions {
		if txn.DonationID == donationID && txn.Type == db_models.TxnTypeDonationPoints {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubPointsRepo) CreateIntent(intent *db_models.LedgerIntent, ctx context.Context) error {
	intent.ID = uuid.New()
	s.intents[intent.ID] = intent
	return nil
}

func (s *stubPointsRepo) MarkIntent(intentID uuid.UUID, status db_models.IntentStatus, ctx context.Context) error {
	if s.failMarkIntent {
		return errors.New("store unavailable")
	}
	s.intents[intentID].Status = status
	return nil
}

func (s *stubPointsRepo) ListPendingIntentsOlderThan(age time.Duration, limit int, ctx context.Context) ([]db_models.LedgerIntent, error) {
	var out []db_models.LedgerIntent
	for _, intent := range s.intents {
		if intent.Status == db_models.IntentStatusPending {
			out = append(out, *intent)
		}
	}
	return out, nil
}

func pendingIntent(s *stubPointsRepo, accountID uuid.UUID, delta int64) *db_models.LedgerIntent {
	intent := &db_models.LedgerIntent{
		AccountID:  accountID,
		DonationID: uuid.New(),
		Delta:      delta,
		Status:     db_models.IntentStatusPending,
	}
	_ = s.CreateIntent(intent, context.Background())
	return intent
}

func TestReconcilerCommitsIntentWithLedgerEntry(t *testing.T) {
	repo := newStubPointsRepo()
	accountID := uuid.New()
	repo.balances[accountID] = 500

	// The credit completed but the final status write was lost.
	intent := pendingIntent(repo, accountID, 100)
	repo.transactions = append(repo.transactions, db_models.UserTransaction{
		AccountID:    accountID,
		DonationID:   intent.DonationID,
		Type:         db_models.TxnTypeDonationPoints,
		PointsChange: 100,
	})

	r := jobs.NewReconciler(repo, "@every 5m", time.Minute)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if repo.intents[intent.ID].Status != db_models.IntentStatusCommitted {
		t.Errorf("intent status = %q, want committed", repo.intents[intent.ID].Status)
	}
	if repo.balances[accountID] != 500 {
		t.Errorf("balance = %d, want untouched 500", repo.balances[accountID])
	}
}

func TestReconcilerRevertsUnrecordedCredit(t *testing.T) {
	repo := newStubPointsRepo()
	accountID := uuid.New()
	// Balance holds a credit the ledger never recorded.
	repo.balances[accountID] = 600
	intent := pendingIntent(repo, accountID, 100)

	r := jobs.NewReconciler(repo, "@every 5m", time.Minute)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if repo.balances[accountID] != 500 {
		t.Errorf("balance = %d, want reverted 500", repo.balances[accountID])
	}
	if repo.intents[intent.ID].Status != db_models.IntentStatusAbandoned {
		t.Errorf("intent status = %q, want abandoned", repo.intents[intent.ID].Status)
	}

	// The revert leaves an audit pair: the credit that landed without an
	// entry, backfilled, and its reversal. The entries sum to zero so the
	// ledger still matches the balance.
	if len(repo.transactions) != 2 {
		t.Fatalf("transactions = %d, want backfill + reversal", len(repo.transactions))
	}
	backfill, reversal := repo.transactions[0], repo.transactions[1]
	if backfill.Type != db_models.TxnTypeDonationPoints || backfill.PointsChange != 100 {
		t.Errorf("backfill = %q %d, want donation_points +100", backfill.Type, backfill.PointsChange)
	}
	if reversal.Type != db_models.TxnTypePointsReversal || reversal.PointsChange != -100 {
		t.Errorf("reversal = %q %d, want points_reversal -100", reversal.Type, reversal.PointsChange)
	}
	if backfill.PointsChange+reversal.PointsChange != 0 {
		t.Errorf("audit pair sums to %d, want 0", backfill.PointsChange+reversal.PointsChange)
	}
}

func TestReconcilerRevertsOnlyOnce(t *testing.T) {
	repo := newStubPointsRepo()
	accountID := uuid.New()
	repo.balances[accountID] = 600
	intent := pendingIntent(repo, accountID, 100)

	// The first pass reverts but loses the status write.
	repo.failMarkIntent = true
	r := jobs.NewReconciler(repo, "@every 5m", time.Minute)
	_ = r.RunOnce(context.Background())
	repo.failMarkIntent = false

	if repo.balances[accountID] != 500 {
		t.Fatalf("balance = %d after first pass, want 500", repo.balances[accountID])
	}

	// The second pass sees the backfilled entry and commits instead of
	// debiting the account again.
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if repo.balances[accountID] != 500 {
		t.Errorf("balance = %d after second pass, want unchanged 500", repo.balances[accountID])
	}
	if repo.intents[intent.ID].Status == db_models.IntentStatusPending {
		t.Errorf("intent still pending after second pass")
	}
}

func TestReconcilerIgnoresResolvedIntents(t *testing.T) {
	repo := newStubPointsRepo()
	accountID := uuid.New()
	repo.balances[accountID] = 500

	intent := pendingIntent(repo, accountID, 100)
	repo.intents[intent.ID].Status = db_models.IntentStatusCommitted

	r := jobs.NewReconciler(repo, "@every 5m", time.Minute)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if repo.balances[accountID] != 500 {
		t.Errorf("balance = %d, want untouched", repo.balances[accountID])
	}
}
