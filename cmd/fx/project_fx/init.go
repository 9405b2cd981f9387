package project_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"giveback/internal/api/controllers"
	"giveback/internal/repositories"
	"giveback/internal/services"
)

var Module = fx.Provide(
	provideProjectRepo, provideImpactService, provideProjectController,
)

func provideProjectRepo(db *gorm.DB) repositories.ProjectRepositoryInterface {
	return repositories.NewProjectRepository(db)
}

func provideImpactService(projectRepo repositories.ProjectRepositoryInterface) services.ImpactServiceInterface {
	return services.NewImpactService(projectRepo)
}

func provideProjectController(impactService services.ImpactServiceInterface) *controllers.ProjectController {
	return controllers.NewProjectController(impactService)
}
