package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payOSHQ/payos-lib-golang"
	log "github.com/sirupsen/logrus"

	"giveback/internal/models/db_models"
	"giveback/internal/repositories"
	mem "giveback/pkg/memcache"
	"giveback/pkg/utils"
)

type PayOSConfig struct {
	ClientID     string
	ApiKey       string
	ChecksumKey  string // secret used to sign webhooks
	ReturnURL    string
	CancelURL    string
	ProviderName string // "payos" (stored on Donation.Provider)
}

const seenEventTTL = 15 * time.Minute

// WebhookVerifier checks the provider signature on a delivered event and
// returns the verified payload. Production wiring passes
// payos.VerifyPaymentWebhookData.
type WebhookVerifier func(payos.WebhookType) (*payos.WebhookDataType, error)

type PaymentServiceInterface interface {
	HandleWebhook(c *gin.Context)
}

type paymentService struct {
	donationService DonationServiceInterface
	donationRepo    repositories.DonationRepositoryInterface
	eventRepo       repositories.EventRepositoryInterface
	seen            *mem.SeenEvents
	cfg             PayOSConfig
	verify          WebhookVerifier
}

func NewPaymentService(
	donationService DonationServiceInterface,
	donationRepo repositories.DonationRepositoryInterface,
	eventRepo repositories.EventRepositoryInterface,
	seen *mem.SeenEvents,
	cfg PayOSConfig,
	verify WebhookVerifier,
) (PaymentServiceInterface, error) {
	if cfg.ClientID == "" || cfg.ApiKey == "" || cfg.ChecksumKey == "" {
		return nil, errors.New("missing payOS credentials")
	}
	if err := payos.Key(cfg.ClientID, cfg.ApiKey, cfg.ChecksumKey); err != nil {
		return nil, fmt.Errorf("payos client init: %w", err)
	}
	if verify == nil {
		verify = payos.VerifyPaymentWebhookData
	}
	return &paymentService{
		donationService: donationService,
		donationRepo:    donationRepo,
		eventRepo:       eventRepo,
		seen:            seen,
		cfg:             cfg,
		verify:          verify,
	}, nil
}

// webhookEnvelope is the payOS payload plus the string-typed metadata our
// checkout links attach for payments initiated outside the donate-now flow.
type webhookEnvelope struct {
	payos.WebhookType
	Metadata map[string]string `json:"metadata"`
}

func (p *paymentService) HandleWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.WithError(err).Warn("webhook: failed to read request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	var body webhookEnvelope
	if err := json.Unmarshal(rawBody, &body); err != nil {
		log.WithError(err).Warn("webhook: invalid payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	data, payosErr := p.verify(body.WebhookType)
	if payosErr != nil {
		log.WithError(payosErr).Warn("webhook: signature verification failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to verify webhook data"})
		return
	}

	// payOS sends a fixed test event to confirm the endpoint.
	if data.OrderCode == 123 {
		c.JSON(http.StatusOK, gin.H{"message": "Confirm webhook complete"})
		return
	}

	eventID := data.Reference
	if eventID == "" {
		eventID = strconv.FormatInt(data.OrderCode, 10)
	}
	logger := log.WithFields(log.Fields{
		"order_code": data.OrderCode,
		"event_id":   eventID,
	})

	seenKey := p.cfg.ProviderName + ":" + eventID
	if p.seen.Seen(seenKey) {
		c.JSON(http.StatusOK, gin.H{"message": "Already processed"})
		return
	}

	ctx := c.Request.Context()
	event := &db_models.PaymentEvent{
		Provider:        p.cfg.ProviderName,
		ProviderEventID: eventID,
		EventType:       "payment.confirmed",
		Payload:         rawBody,
	}
	recordErr := p.eventRepo.RecordEvent(event, ctx)
	if recordErr != nil && !errors.Is(recordErr, utils.ErrDuplicateEvent) {
		logger.WithError(recordErr).Error("webhook: failed to record event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
		return
	}

	orderRef := fmt.Sprintf("payos:%d", data.OrderCode)
	donation, err := p.donationRepo.GetDonationByOrderCode(orderRef, ctx)
	if err != nil {
		logger.WithError(err).Error("webhook: donation lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process transaction"})
		return
	}

	if donation == nil {
		donation = p.donationFromMetadata(body.Metadata, orderRef, float64(data.Amount), logger, ctx)
		if donation == nil {
			// Ack to avoid a retry storm; the payload is stored for
			// investigation.
			logger.Warn("webhook: no donation for order and no usable metadata")
			c.JSON(http.StatusOK, gin.H{"message": "No matching donation"})
			return
		}
	}

	// A replayed event for an already-completed donation is a no-op; a
	// replay after a partial failure re-runs the pipeline, which is safe
	// because the ledger intent is unique per donation.
	if donation.Status != db_models.DonationStatusCompleted {
		if err := p.donationService.FinalizeDonation(donation, ctx); err != nil {
			logger.WithError(err).Error("webhook: failed to finalize donation")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process transaction"})
			return
		}
	} else if errors.Is(recordErr, utils.ErrDuplicateEvent) {
		logger.Info("webhook: duplicate event for completed donation, skipping")
	}

	if recordErr == nil {
		if err := p.eventRepo.MarkProcessed(event.ID, ctx); err != nil {
			logger.WithError(err).Warn("webhook: failed to mark event processed")
		}
	}
	p.seen.Mark(seenKey, seenEventTTL)

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
}

// donationFromMetadata creates a donation directly as completed-pending
// finalization when the payment was initiated outside the donate-now flow.
// All metadata values arrive string-typed and are validated before use.
func (p *paymentService) donationFromMetadata(meta map[string]string, orderRef string, paidAmount float64, logger *log.Entry, ctx context.Context) *db_models.Donation {
	if len(meta) == 0 {
		return nil
	}

	accountID, err := uuid.Parse(metaValue(meta, "userId", "user_id"))
	if err != nil {
		logger.WithError(err).Warn("webhook metadata: bad userId")
		return nil
	}
	projectID, err := uuid.Parse(metaValue(meta, "projectId", "project_id"))
	if err != nil {
		logger.WithError(err).Warn("webhook metadata: bad projectId")
		return nil
	}
	amount, err := strconv.ParseFloat(metaValue(meta, "amount"), 64)
	if err != nil || amount <= 0 {
		logger.Warn("webhook metadata: bad amount")
		return nil
	}

	var tip float64
	if raw := metaValue(meta, "tipAmount", "tip_amount"); raw != "" {
		if tip, err = strconv.ParseFloat(raw, 64); err != nil || tip < 0 {
			logger.Warn("webhook metadata: bad tipAmount")
			return nil
		}
	}

	// The Points Ledger owns the points computation; a precomputed value in
	// the event is informational only.
	if raw := metaValue(meta, "precomputedImpactPoints", "precomputed_impact_points"); raw != "" {
		logger.WithField("precomputed_points", raw).Debug("webhook metadata: ignoring precomputed points")
	}

	if amount+tip > paidAmount+0.01 {
		logger.WithFields(log.Fields{"meta_total": amount + tip, "paid": paidAmount}).
			Warn("webhook metadata: amount exceeds paid total")
		return nil
	}

	donation := &db_models.Donation{
		AccountID:         accountID,
		ProjectID:         projectID,
		Amount:            amount,
		TipAmount:         tip,
		Status:            db_models.DonationStatusPending,
		Provider:          p.cfg.ProviderName,
		ProviderOrderCode: orderRef,
	}
	if err := p.donationRepo.CreateDonation(donation, ctx); err != nil {
		// A concurrent delivery may have created it first.
		existing, lookupErr := p.donationRepo.GetDonationByOrderCode(orderRef, ctx)
		if lookupErr != nil || existing == nil {
			logger.WithError(err).Error("webhook metadata: failed to create donation")
			return nil
		}
		return existing
	}
	return donation
}

func metaValue(meta map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := meta[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
