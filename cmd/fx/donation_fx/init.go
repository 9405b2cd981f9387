package donation_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"giveback/internal/api/controllers"
	"giveback/internal/config"
	"giveback/internal/repositories"
	"giveback/internal/services"
)

var Module = fx.Provide(
	providePayOSConfig, provideDonationRepo, provideDonationService, provideDonationController,
)

func providePayOSConfig(cfg *config.Config) services.PayOSConfig {
	return services.PayOSConfig{
		ClientID:     cfg.PayOSClientID,
		ApiKey:       cfg.PayOSAPIKey,
		ChecksumKey:  cfg.PayOSChecksumKey,
		ReturnURL:    cfg.PayOSReturnURL,
		CancelURL:    cfg.PayOSCancelURL,
		ProviderName: "payos",
	}
}

func provideDonationRepo(db *gorm.DB) repositories.DonationRepositoryInterface {
	return repositories.NewDonationRepository(db)
}

func provideDonationService(
	projectRepo repositories.ProjectRepositoryInterface,
	donationRepo repositories.DonationRepositoryInterface,
	impactService services.ImpactServiceInterface,
	pointsService services.PointsServiceInterface,
	payosCfg services.PayOSConfig,
) services.DonationServiceInterface {
	return services.NewDonationService(projectRepo, donationRepo, impactService, pointsService, payosCfg)
}

func provideDonationController(
	donationService services.DonationServiceInterface,
	pointsService services.PointsServiceInterface,
) *controllers.DonationController {
	return controllers.NewDonationController(donationService, pointsService)
}
