package batch

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("batch.runner",
	fx.Provide(NewRunner),
)

// Invoke runs one batch over the configured competence and shuts the
// process down when it completes.
func Invoke(lc fx.Lifecycle, shutdowner fx.Shutdowner, log *zap.Logger, runner *Runner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				period, err := runner.Competence()
				if err != nil {
					log.Error("invalid competence", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}

				log.Info("batch run starting", zap.String("period", period.String()))
				if err := runner.RunAll(context.Background(), period); err != nil {
					log.Error("batch run finished with failures", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				log.Info("batch run finished", zap.String("period", period.String()))
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}
