package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"giveback/internal/models/db_models"
	"giveback/pkg/utils"
)

// fakePointsRepo mimics the store's behavior: the balance increment is atomic
// (a single server-side UPDATE), everything else is an independent call that
// can be made to fail.
type fakePointsRepo struct {
	mu           sync.Mutex
	balances     map[uuid.UUID]int64
	transactions []db_models.UserTransaction
	intents      map[uuid.UUID]*db_models.LedgerIntent
	byDonation   map[uuid.UUID]uuid.UUID

	failAppend       bool
	failIncrement    bool
	failCompensation bool
	failMarkIntent   bool
}

func newFakePointsRepo() *fakePointsRepo {
	return &fakePointsRepo{
		balances:   make(map[uuid.UUID]int64),
		intents:    make(map[uuid.UUID]*db_models.LedgerIntent),
		byDonation: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakePointsRepo) IncrementBalance(accountID uuid.UUID, delta int64, ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncrement && delta > 0 {
		return 0, errors.New("store unavailable")
	}
	if f.failCompensation && delta < 0 {
		return 0, errors.New("store unavailable")
	}
	if _, ok := f.balances[accountID]; !ok {
		return 0, utils.ErrAccountNotFound
	}
	f.balances[accountID] += delta
	return f.balances[accountID], nil
}

func (f *fakePointsRepo) GetBalance(accountID uuid.UUID, ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[accountID]
	if !ok {
		return 0, utils.ErrAccountNotFound
	}
	return balance, nil
}

func (f *fakePointsRepo) AppendTransaction(txn *db_models.UserTransaction, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend {
		return errors.New("store unavailable")
	}
	txn.ID = uuid.New()
	f.transactions = append(f.transactions, *txn)
	return nil
}

func (f *fakePointsRepo) HasTransactionForDonation(donationID uuid.UUID, ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.transactions {
		if txn.DonationID == donationID && txn.Type == db_models.TxnTypeDonationPoints {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePointsRepo) CreateIntent(intent *db_models.LedgerIntent, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byDonation[intent.DonationID]; exists {
		return utils.ErrPointsAlreadyApplied
	}
	intent.ID = uuid.New()
	f.intents[intent.ID] = intent
	f.byDonation[intent.DonationID] = intent.ID
	return nil
}

func (f *fakePointsRepo) MarkIntent(intentID uuid.UUID, status db_models.IntentStatus, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMarkIntent {
		return errors.New("store unavailable")
	}
	intent, ok := f.intents[intentID]
	if !ok {
		return errors.New("intent not found")
	}
	intent.Status = status
	intent.Attempts++
	return nil
}

func (f *fakePointsRepo) ListPendingIntentsOlderThan(age time.Duration, limit int, ctx context.Context) ([]db_models.LedgerIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.LedgerIntent
	for _, intent := range f.intents {
		if intent.Status == db_models.IntentStatusPending {
			out = append(out, *intent)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePointsRepo) intentForDonation(donationID uuid.UUID) *db_models.LedgerIntent {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byDonation[donationID]
	if !ok {
		return nil
	}
	return f.intents[id]
}

type fakeProjectRepo struct {
	projects map[string]*db_models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*db_models.Project)}
}

func (f *fakeProjectRepo) GetProjectByID(projectID string, ctx context.Context) (*db_models.Project, error) {
	return f.projects[projectID], nil
}

func (f *fakeProjectRepo) GetActiveProjects(page int, pageSize int, ctx context.Context) ([]db_models.Project, error) {
	var out []db_models.Project
	for _, p := range f.projects {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeDonationRepo struct {
	mu          sync.Mutex
	byID        map[string]*db_models.Donation
	byOrderCode map[string]*db_models.Donation
	updates     []map[string]interface{}
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{
		byID:        make(map[string]*db_models.Donation),
		byOrderCode: make(map[string]*db_models.Donation),
	}
}

func (f *fakeDonationRepo) CreateDonation(donation *db_models.Donation, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byOrderCode[donation.ProviderOrderCode]; exists {
		return errors.New("duplicated key")
	}
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	f.byID[donation.ID.String()] = donation
	f.byOrderCode[donation.ProviderOrderCode] = donation
	return nil
}

func (f *fakeDonationRepo) GetDonationByID(donationID string, ctx context.Context) (*db_models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[donationID], nil
}

func (f *fakeDonationRepo) GetDonationByOrderCode(orderCode string, ctx context.Context) (*db_models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byOrderCode[orderCode], nil
}

func (f *fakeDonationRepo) UpdateDonation(donation *db_models.Donation, fields map[string]interface{}, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, fields)
	if status, ok := fields["status"].(db_models.DonationStatus); ok {
		donation.Status = status
	}
	return nil
}

func (f *fakeDonationRepo) ListDonationsByAccount(accountID string, page int, pageSize int, ctx context.Context) ([]db_models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Donation
	for _, d := range f.byID {
		if d.AccountID.String() == accountID {
			out = append(out, *d)
		}
	}
	return out, nil
}

// fakeEventRepo enforces the (provider, event id) unique index the real
// table carries.
type fakeEventRepo struct {
	mu        sync.Mutex
	events    map[string]*db_models.PaymentEvent
	processed map[uuid.UUID]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:    make(map[string]*db_models.PaymentEvent),
		processed: make(map[uuid.UUID]bool),
	}
}

func (f *fakeEventRepo) RecordEvent(event *db_models.PaymentEvent, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := event.Provider + ":" + event.ProviderEventID
	if _, exists := f.events[key]; exists {
		return utils.ErrDuplicateEvent
	}
	event.ID = uuid.New()
	f.events[key] = event
	return nil
}

func (f *fakeEventRepo) MarkProcessed(eventID uuid.UUID, ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed[eventID] = true
	return nil
}
