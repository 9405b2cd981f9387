package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"giveback/cmd/fx/db_fx"
	"giveback/cmd/fx/donation_fx"
	"giveback/cmd/fx/jobs_fx"
	"giveback/cmd/fx/payment_fx"
	"giveback/cmd/fx/points_fx"
	"giveback/cmd/fx/project_fx"
	"giveback/internal/api/controllers"
	"giveback/internal/config"
	"giveback/pkg/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(provideConfig),
		db_fx.Module,
		project_fx.Module,
		points_fx.Module,
		donation_fx.Module,
		payment_fx.Module,
		jobs_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func provideConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	return cfg
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.WithField("port", cfg.Port).Info("Starting HTTP server")
				if err := engine.Run(":" + cfg.Port); err != nil {
					log.WithError(err).Fatal("Failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	projectController *controllers.ProjectController,
	donationController *controllers.DonationController,
	paymentController *controllers.PaymentController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, cfg, projectController, donationController, paymentController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg *config.Config,
	projectController *controllers.ProjectController,
	donationController *controllers.DonationController,
	paymentController *controllers.PaymentController) {

	projectsGroup := r.Group("/projects")
	projectsGroup.GET("", projectController.ListProjects)
	projectsGroup.GET("/:id/impact-preview", projectController.GetImpactPreview)

	donationsGroup := r.Group("/donations")
	donationsGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	donationsGroup.GET("", donationController.ListDonations)
	donationsGroup.POST("/checkout", donationController.CreateCheckout)
	donationsGroup.POST("/:id/complete", donationController.CompleteDonation)
	donationsGroup.GET("/:id", donationController.GetDonation)

	pointsGroup := r.Group("/points")
	pointsGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	pointsGroup.GET("/balance", donationController.GetPointsBalance)

	paymentsGroup := r.Group("/payments")
	paymentsGroup.POST("/webhook", paymentController.HandleWebhook)
}
