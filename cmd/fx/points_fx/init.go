package points_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"giveback/internal/repositories"
	"giveback/internal/services"
)

var Module = fx.Provide(
	providePointsRepo, providePointsService,
)

func providePointsRepo(db *gorm.DB) repositories.PointsRepositoryInterface {
	return repositories.NewPointsRepository(db)
}

func providePointsService(pointsRepo repositories.PointsRepositoryInterface) services.PointsServiceInterface {
	return services.NewPointsService(pointsRepo)
}
