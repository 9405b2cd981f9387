package db_fx

import (
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"giveback/internal/config"
	"giveback/internal/infra"
	"giveback/internal/models/db_models"
)

var Module = fx.Provide(
	provideDB)

func provideDB(cfg *config.Config) *gorm.DB {
	db := infra.InitPostgresql(cfg.PostgresURL)

	if err := db.AutoMigrate(
		&db_models.Account{},
		&db_models.Project{},
		&db_models.Donation{},
		&db_models.UserTransaction{},
		&db_models.LedgerIntent{},
		&db_models.PaymentEvent{},
	); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	return db
}
