package logging

import (
	"context"

	"hytech_pos/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module opens the log file sink. The decorator stays at the root scope so
// every module's logger writes to the sink.
func Module() fx.Option {
	return fx.Options(
		fx.Module(
			"logging",
			fx.Provide(func(cfg config.Config) (*FileSink, error) {
				return OpenFileSink(cfg.LogFile, cfg.Debug)
			}),
			fx.Invoke(func(lc fx.Lifecycle, sink *FileSink, logger *zap.Logger) {
				if sink == nil {
					return
				}
				lc.Append(fx.Hook{
					OnStop: func(_ context.Context) error {
						_ = logger.Sync()
						return sink.Close()
					},
				})
			}),
		),
		fx.Decorate(func(base *zap.Logger, sink *FileSink) *zap.Logger {
			return sink.Tee(base)
		}),
	)
}
