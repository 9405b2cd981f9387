package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"giveback/internal/models/db_models"
	"giveback/internal/services"
)

func testProject(t *testing.T, multiplier float64, withConfig bool) *db_models.Project {
	t.Helper()
	project := &db_models.Project{
		Title:            "Clean Water",
		IsActive:         true,
		PointsMultiplier: multiplier,
	}
	project.ID = uuid.New()
	if withConfig {
		raw, err := json.Marshal(map[string]any{
			"impact_factor": 0.1,
			"unit_singular": map[string]string{"en": "well", "de": "Brunnen"},
			"unit_plural":   map[string]string{"en": "wells", "de": "Brunnen"},
			"cta_template":  map[string]string{"en": "maintained for a village", "de": "für ein Dorf gewartet"},
			"past_template": map[string]string{"en": "maintained", "de": "gewartet"},
		})
		if err != nil {
			t.Fatalf("marshal config: %v", err)
		}
		project.ImpactConfig = raw
	}
	return project
}

type donationFixture struct {
	projectRepo  *fakeProjectRepo
	donationRepo *fakeDonationRepo
	pointsRepo   *fakePointsRepo
	svc          services.DonationServiceInterface
	accountID    uuid.UUID
}

func newDonationFixture(t *testing.T, project *db_models.Project) *donationFixture {
	t.Helper()
	projectRepo := newFakeProjectRepo()
	if project != nil {
		projectRepo.projects[project.ID.String()] = project
	}
	donationRepo := newFakeDonationRepo()
	pointsRepo := newFakePointsRepo()
	accountID := uuid.New()
	pointsRepo.balances[accountID] = 0

	impactService := services.NewImpactService(projectRepo)
	pointsService := services.NewPointsService(pointsRepo)
	svc := services.NewDonationService(projectRepo, donationRepo, impactService, pointsService, services.PayOSConfig{ProviderName: "payos"})

	return &donationFixture{
		projectRepo:  projectRepo,
		donationRepo: donationRepo,
		pointsRepo:   pointsRepo,
		svc:          svc,
		accountID:    accountID,
	}
}

func (f *donationFixture) pendingDonation(projectID uuid.UUID, amount float64) *db_models.Donation {
	donation := &db_models.Donation{
		AccountID:         f.accountID,
		ProjectID:         projectID,
		Amount:            amount,
		Status:            db_models.DonationStatusPending,
		Provider:          "payos",
		ProviderOrderCode: "payos:" + uuid.NewString(),
	}
	_ = f.donationRepo.CreateDonation(donation, context.Background())
	return donation
}

func TestFinalizeDonationCompletesAndAppliesPoints(t *testing.T) {
	project := testProject(t, 10, true)
	f := newDonationFixture(t, project)
	donation := f.pendingDonation(project.ID, 100)

	if err := f.svc.FinalizeDonation(donation, context.Background()); err != nil {
		t.Fatalf("FinalizeDonation: %v", err)
	}

	if donation.Status != db_models.DonationStatusCompleted {
		t.Errorf("status = %q, want completed", donation.Status)
	}
	if donation.ImpactPoints != 1000 {
		t.Errorf("ImpactPoints = %d, want 1000", donation.ImpactPoints)
	}
	if donation.GeneratedTextPastEn != "10 wells maintained" {
		t.Errorf("GeneratedTextPastEn = %q", donation.GeneratedTextPastEn)
	}
	if donation.GeneratedTextPastDe == "" {
		t.Errorf("German past text missing")
	}
	if donation.CalculatedImpact == nil || *donation.CalculatedImpact != 10 {
		t.Errorf("CalculatedImpact = %v, want 10", donation.CalculatedImpact)
	}

	balance, _ := f.pointsRepo.GetBalance(f.accountID, context.Background())
	if balance != 1000 {
		t.Errorf("balance = %d, want 1000", balance)
	}
}

func TestFinalizeDonationWithoutImpactConfig(t *testing.T) {
	project := testProject(t, 0, false)
	f := newDonationFixture(t, project)
	donation := f.pendingDonation(project.ID, 50)

	if err := f.svc.FinalizeDonation(donation, context.Background()); err != nil {
		t.Fatalf("FinalizeDonation: %v", err)
	}

	// No snapshot, but the donation completes and the default multiplier
	// still earns points.
	if donation.Status != db_models.DonationStatusCompleted {
		t.Errorf("status = %q, want completed", donation.Status)
	}
	if donation.CalculatedImpact != nil {
		t.Errorf("CalculatedImpact = %v, want none", donation.CalculatedImpact)
	}
	balance, _ := f.pointsRepo.GetBalance(f.accountID, context.Background())
	if balance != 500 {
		t.Errorf("balance = %d, want 50 * default 10 = 500", balance)
	}
}

func TestFinalizeDonationSurvivesPointsFailure(t *testing.T) {
	project := testProject(t, 10, true)
	f := newDonationFixture(t, project)
	f.pointsRepo.failAppend = true
	f.pointsRepo.failCompensation = true
	donation := f.pendingDonation(project.ID, 100)

	// Money already moved: points trouble must never fail the donation.
	if err := f.svc.FinalizeDonation(donation, context.Background()); err != nil {
		t.Fatalf("FinalizeDonation: %v", err)
	}
	if donation.Status != db_models.DonationStatusCompleted {
		t.Errorf("status = %q, want completed despite ledger failure", donation.Status)
	}
}

func TestFinalizeDonationTwiceCreditsOnce(t *testing.T) {
	project := testProject(t, 10, true)
	f := newDonationFixture(t, project)
	donation := f.pendingDonation(project.ID, 100)

	if err := f.svc.FinalizeDonation(donation, context.Background()); err != nil {
		t.Fatalf("first FinalizeDonation: %v", err)
	}
	if err := f.svc.FinalizeDonation(donation, context.Background()); err != nil {
		t.Fatalf("second FinalizeDonation: %v", err)
	}

	balance, _ := f.pointsRepo.GetBalance(f.accountID, context.Background())
	if balance != 1000 {
		t.Errorf("balance = %d, want single credit of 1000", balance)
	}
	if len(f.pointsRepo.transactions) != 1 {
		t.Errorf("transactions = %d, want 1", len(f.pointsRepo.transactions))
	}
}

func TestCompleteDonationChecksOwnership(t *testing.T) {
	project := testProject(t, 10, true)
	f := newDonationFixture(t, project)
	donation := f.pendingDonation(project.ID, 100)

	stranger := uuid.New()
	if _, err := f.svc.CompleteDonation(stranger, donation.ID.String(), context.Background()); err == nil {
		t.Fatal("expected error completing someone else's donation")
	}
	if donation.Status != db_models.DonationStatusPending {
		t.Errorf("status = %q, donation must stay pending", donation.Status)
	}
}

func TestCompleteDonationIdempotentResponse(t *testing.T) {
	project := testProject(t, 10, true)
	f := newDonationFixture(t, project)
	donation := f.pendingDonation(project.ID, 100)

	first, err := f.svc.CompleteDonation(f.accountID, donation.ID.String(), context.Background())
	if err != nil {
		t.Fatalf("CompleteDonation: %v", err)
	}
	second, err := f.svc.CompleteDonation(f.accountID, donation.ID.String(), context.Background())
	if err != nil {
		t.Fatalf("repeat CompleteDonation: %v", err)
	}
	if first.ImpactPoints != second.ImpactPoints || second.Status != string(db_models.DonationStatusCompleted) {
		t.Errorf("repeat completion diverged: %+v vs %+v", first, second)
	}

	balance, _ := f.pointsRepo.GetBalance(f.accountID, context.Background())
	if balance != 1000 {
		t.Errorf("balance = %d, want 1000 after duplicate click", balance)
	}
}

func TestListDonationsScopedToAccount(t *testing.T) {
	project := testProject(t, 10, true)
	f := newDonationFixture(t, project)
	mine := f.pendingDonation(project.ID, 100)

	other := &db_models.Donation{
		AccountID:         uuid.New(),
		ProjectID:         project.ID,
		Amount:            40,
		Status:            db_models.DonationStatusPending,
		Provider:          "payos",
		ProviderOrderCode: "payos:" + uuid.NewString(),
	}
	if err := f.donationRepo.CreateDonation(other, context.Background()); err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}

	donations, err := f.svc.ListDonations(f.accountID, 1, 20, context.Background())
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(donations) != 1 {
		t.Fatalf("donations = %d, want only the caller's", len(donations))
	}
	if donations[0].ID != mine.ID.String() {
		t.Errorf("listed donation = %s, want %s", donations[0].ID, mine.ID)
	}
}
