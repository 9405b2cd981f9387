package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"giveback/internal/models/request_models"
	"giveback/internal/models/response_models"
	"giveback/internal/services"
	"giveback/pkg/utils"
)

type DonationController struct {
	donationService services.DonationServiceInterface
	pointsService   services.PointsServiceInterface
}

func NewDonationController(
	donationService services.DonationServiceInterface,
	pointsService services.PointsServiceInterface,
) *DonationController {
	return &DonationController{
		donationService: donationService,
		pointsService:   pointsService,
	}
}

// CreateCheckout godoc
// @Summary Create a checkout link for a donation
// @Description Persists a pending donation and returns the provider payment URL
// @Tags Donations
// @Accept json
// @Produce json
// @Param request body request_models.CreateDonationRequest true "Create Donation Request"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /donations/checkout [post]
func (d *DonationController) CreateCheckout(c *gin.Context) {
	var request request_models.CreateDonationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	checkout, err := d.donationService.CreateCheckout(accountID, request, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, checkout, "Checkout created successfully")
}

// CompleteDonation godoc
// @Summary Complete a pending donation
// @Description Marks the donation completed and applies Impact Points
// @Tags Donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /donations/{id}/complete [post]
func (d *DonationController) CompleteDonation(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	donation, err := d.donationService.CompleteDonation(accountID, c.Param("id"), c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, donation, "Donation completed successfully")
}

// GetDonation godoc
// @Summary Get one donation
// @Tags Donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /donations/{id} [get]
func (d *DonationController) GetDonation(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	donation, err := d.donationService.GetDonation(accountID, c.Param("id"), c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, donation, "")
}

// GetPointsBalance godoc
// @Summary Get the current Impact Points balance
// @Tags Donations
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /points/balance [get]
func (d *DonationController) GetPointsBalance(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	balance, err := d.pointsService.GetBalance(accountID, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.PointsBalanceResponse{Balance: balance}, "")
}

// ListDonations godoc
// @Summary List the caller's donations
// @Tags Donations
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /donations [get]
func (d *DonationController) ListDonations(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	donations, err := d.donationService.ListDonations(accountID, page, pageSize, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, donations, "")
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func currentAccountID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return uuid.Nil, false
	}
	accountID, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "user_id is invalid")
		return uuid.Nil, false
	}
	return accountID, true
}
