package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/payOSHQ/payos-lib-golang"
	log "github.com/sirupsen/logrus"

	"giveback/internal/impact"
	"giveback/internal/models/db_models"
	"giveback/internal/models/request_models"
	"giveback/internal/models/response_models"
	"giveback/internal/repositories"
	"giveback/pkg/utils"
)

type DonationServiceInterface interface {
	// CreateCheckout persists a pending donation and returns the provider
	// checkout link for it.
	CreateCheckout(accountID uuid.UUID, req request_models.CreateDonationRequest, ctx context.Context) (*response_models.CreateCheckoutResponse, error)
	// CompleteDonation is the synchronous donate-now trigger: the caller
	// reports the payment confirmed and the completion pipeline runs.
	CompleteDonation(accountID uuid.UUID, donationID string, ctx context.Context) (*response_models.DonationResponse, error)
	// FinalizeDonation runs the shared completion pipeline: project lookup,
	// best-effort snapshot, donation update, points application. Both the
	// synchronous path and the webhook path end up here, so the two front
	// doors cannot diverge in ledger semantics.
	FinalizeDonation(donation *db_models.Donation, ctx context.Context) error
	GetDonation(accountID uuid.UUID, donationID string, ctx context.Context) (*response_models.DonationResponse, error)
	ListDonations(accountID uuid.UUID, page int, pageSize int, ctx context.Context) ([]response_models.DonationResponse, error)
}

type DonationService struct {
	projectRepo   repositories.ProjectRepositoryInterface
	donationRepo  repositories.DonationRepositoryInterface
	impactService ImpactServiceInterface
	pointsService PointsServiceInterface
	cfg           PayOSConfig
}

func NewDonationService(
	projectRepo repositories.ProjectRepositoryInterface,
	donationRepo repositories.DonationRepositoryInterface,
	impactService ImpactServiceInterface,
	pointsService PointsServiceInterface,
	cfg PayOSConfig,
) DonationServiceInterface {
	return &DonationService{
		projectRepo:   projectRepo,
		donationRepo:  donationRepo,
		impactService: impactService,
		pointsService: pointsService,
		cfg:           cfg,
	}
}

func (s *DonationService) CreateCheckout(accountID uuid.UUID, req request_models.CreateDonationRequest, ctx context.Context) (*response_models.CreateCheckoutResponse, error) {
	if req.Amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}

	project, err := s.projectRepo.GetProjectByID(req.ProjectID, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if project == nil || !project.IsActive {
		return nil, utils.ErrProjectNotFound
	}

	// payOS expects an int64 order code; unix seconds plus a short random
	// suffix keeps it within range and collision-unlikely.
	orderCode := time.Now().Unix()%1_000_000_000 + int64(rand.Intn(9000)+1000)

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, utils.ErrProjectNotFound
	}

	donation := &db_models.Donation{
		AccountID:         accountID,
		ProjectID:         projectID,
		Amount:            req.Amount,
		TipAmount:         req.TipAmount,
		Status:            db_models.DonationStatusPending,
		Provider:          s.cfg.ProviderName,
		ProviderOrderCode: fmt.Sprintf("payos:%d", orderCode),
	}
	if err := s.donationRepo.CreateDonation(donation, ctx); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}

	total := req.Amount + req.TipAmount
	body := payos.CheckoutRequestType{
		OrderCode:   orderCode,
		Amount:      int(math.Round(total)),
		Items:       []payos.Item{{Name: project.Title, Price: int(math.Round(total)), Quantity: 1}},
		Description: fmt.Sprintf("Donation to %s", project.Title),
		CancelUrl:   s.cfg.CancelURL,
		ReturnUrl:   s.cfg.ReturnURL,
	}

	resp, err := payos.CreatePaymentLink(body)
	if err != nil {
		_ = s.donationRepo.UpdateDonation(donation, map[string]interface{}{
			"status": db_models.DonationStatusFailed,
		}, ctx)
		return nil, fmt.Errorf("payos create link: %w", err)
	}

	return &response_models.CreateCheckoutResponse{
		DonationID:   donation.ID.String(),
		OrderCode:    orderCode,
		Amount:       total,
		PaymentURL:   resp.CheckoutUrl,
		ProviderName: s.cfg.ProviderName,
	}, nil
}

func (s *DonationService) CompleteDonation(accountID uuid.UUID, donationID string, ctx context.Context) (*response_models.DonationResponse, error) {
	donation, err := s.donationRepo.GetDonationByID(donationID, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if donation == nil || donation.AccountID != accountID {
		return nil, utils.ErrDonationNotFound
	}
	if donation.Status == db_models.DonationStatusCompleted {
		return donationResponse(donation), nil
	}
	if donation.Status != db_models.DonationStatusPending {
		return nil, utils.ErrDonationNotPending
	}

	if err := s.FinalizeDonation(donation, ctx); err != nil {
		return nil, err
	}
	return donationResponse(donation), nil
}

func (s *DonationService) FinalizeDonation(donation *db_models.Donation, ctx context.Context) error {
	if donation.Status == db_models.DonationStatusCompleted {
		return nil
	}

	logger := log.WithFields(log.Fields{
		"donation_id": donation.ID,
		"account_id":  donation.AccountID,
		"project_id":  donation.ProjectID,
	})

	project, err := s.projectRepo.GetProjectByID(donation.ProjectID.String(), ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	multiplier := float64(defaultPointsMultiplier)
	if project != nil {
		multiplier = s.impactService.ConfigForProject(project).PointsMultiplier
	} else {
		logger.Warn("project missing at completion, using default points multiplier")
	}

	// The tip goes to the platform, only the donation amount earns points
	// and impact. Rounding belongs to the Points Ledger; this number is
	// display-only and floors the same way the ledger will.
	pointsDelta := donation.Amount * multiplier
	displayPoints := int64(math.Floor(pointsDelta))

	now := utils.NowUnixSeconds()
	updates := map[string]interface{}{
		"status":        db_models.DonationStatusCompleted,
		"paid_at":       now,
		"impact_points": displayPoints,
	}

	if project != nil {
		snapshots, snapErr := s.impactService.BuildSnapshots(project, donation.Amount, displayPoints)
		switch {
		case snapErr == nil:
			en := snapshots[impact.LangEN]
			de := snapshots[impact.LangDE]
			raw, marshalErr := json.Marshal(map[string]impact.Snapshot{"en": en, "de": de})
			if marshalErr == nil {
				updates["impact_snapshot"] = raw
			}
			updates["calculated_impact"] = en.CalculatedImpact
			updates["generated_text_past_en"] = en.GeneratedTextPast
			updates["generated_text_past_de"] = de.GeneratedTextPast
			donation.CalculatedImpact = &en.CalculatedImpact
			donation.GeneratedTextPastEn = en.GeneratedTextPast
			donation.GeneratedTextPastDe = de.GeneratedTextPast
		case errors.Is(snapErr, utils.ErrNoImpactData):
			logger.Info("project has no impact tracking data, completing without snapshot")
		default:
			// A donation may complete without a snapshot, never with a
			// wrong one.
			logger.WithError(snapErr).Warn("impact snapshot failed, completing without snapshot")
		}
	}

	if err := s.donationRepo.UpdateDonation(donation, updates, ctx); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	donation.Status = db_models.DonationStatusCompleted
	donation.ImpactPoints = displayPoints
	donation.PaidAt = &now

	// Points failure never rejects an accepted payment; it is logged and
	// left for the reconciler and operators.
	if _, err := s.pointsService.Apply(donation.AccountID, pointsDelta, ApplyMeta{
		ProjectID:   donation.ProjectID,
		DonationID:  donation.ID,
		Amount:      donation.Amount,
		Description: fmt.Sprintf("Impact Points for donation %s", donation.ID),
	}, ctx); err != nil {
		logger.WithError(err).Error("failed to apply impact points")
	}

	return nil
}

func (s *DonationService) GetDonation(accountID uuid.UUID, donationID string, ctx context.Context) (*response_models.DonationResponse, error) {
	donation, err := s.donationRepo.GetDonationByID(donationID, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if donation == nil || donation.AccountID != accountID {
		return nil, utils.ErrDonationNotFound
	}
	return donationResponse(donation), nil
}

func (s *DonationService) ListDonations(accountID uuid.UUID, page int, pageSize int, ctx context.Context) ([]response_models.DonationResponse, error) {
	donations, err := s.donationRepo.ListDonationsByAccount(accountID.String(), page, pageSize, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]response_models.DonationResponse, 0, len(donations))
	for i := range donations {
		out = append(out, *donationResponse(&donations[i]))
	}
	return out, nil
}

func donationResponse(d *db_models.Donation) *response_models.DonationResponse {
	return &response_models.DonationResponse{
		ID:                d.ID.String(),
		ProjectID:         d.ProjectID.String(),
		Amount:            d.Amount,
		TipAmount:         d.TipAmount,
		ImpactPoints:      d.ImpactPoints,
		Status:            string(d.Status),
		CalculatedImpact:  d.CalculatedImpact,
		GeneratedTextPast: d.GeneratedTextPastEn,
		CreatedAt:         d.CreatedAt,
	}
}
