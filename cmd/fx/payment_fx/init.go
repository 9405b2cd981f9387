package payment_fx

import (
	"github.com/payOSHQ/payos-lib-golang"
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"giveback/internal/api/controllers"
	"giveback/internal/repositories"
	"giveback/internal/services"
	mem "giveback/pkg/memcache"
)

var Module = fx.Provide(
	provideEventRepo, provideSeenEvents, providePaymentService, providePaymentController,
)

func provideEventRepo(db *gorm.DB) repositories.EventRepositoryInterface {
	return repositories.NewEventRepository(db)
}

func provideSeenEvents() *mem.SeenEvents {
	return mem.NewSeenEvents()
}

func providePaymentService(
	donationService services.DonationServiceInterface,
	donationRepo repositories.DonationRepositoryInterface,
	eventRepo repositories.EventRepositoryInterface,
	seen *mem.SeenEvents,
	payosCfg services.PayOSConfig,
) services.PaymentServiceInterface {
	instance, err := services.NewPaymentService(donationService, donationRepo, eventRepo, seen, payosCfg, payos.VerifyPaymentWebhookData)
	if err != nil {
		log.WithError(err).Fatal("Error initializing PaymentService")
	}
	return instance
}

func providePaymentController(paymentService services.PaymentServiceInterface) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService)
}
