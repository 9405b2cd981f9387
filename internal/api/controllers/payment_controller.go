package controllers

import (
	"github.com/gin-gonic/gin"

	"giveback/internal/services"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// HandleWebhook receives payment-confirmed events from payOS. Delivery is
// at-least-once; the service layer deduplicates.
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	p.paymentService.HandleWebhook(c)
}
