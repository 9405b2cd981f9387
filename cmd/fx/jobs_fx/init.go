package jobs_fx

import (
	"context"

	"go.uber.org/fx"

	"giveback/internal/config"
	"giveback/internal/jobs"
	"giveback/internal/repositories"
)

var Module = fx.Options(
	fx.Provide(provideReconciler),
	fx.Invoke(runReconciler),
)

func provideReconciler(cfg *config.Config, pointsRepo repositories.PointsRepositoryInterface) *jobs.Reconciler {
	return jobs.NewReconciler(pointsRepo, cfg.ReconcileSchedule, cfg.IntentAbandonAge)
}

func runReconciler(lc fx.Lifecycle, reconciler *jobs.Reconciler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			reconciler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			reconciler.Stop()
			return nil
		},
	})
}
