package register

import (
	"hytech_pos/internal/config"
	"hytech_pos/internal/engine"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"register",
		fx.Provide(
			func(cfg config.Config, logger *zap.Logger) *Journal {
				return NewJournal(cfg.JournalSize, logger)
			},
			func(client *engine.Client) Catalog {
				return client
			},
			NewController,
		),
	)
}
