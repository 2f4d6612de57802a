package internal

import (
	"context"

	"hytech_pos/internal/cli"
	"hytech_pos/internal/config"
	"hytech_pos/internal/engine"
	"hytech_pos/internal/llm"
	"hytech_pos/internal/logging"
	"hytech_pos/internal/register"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Run() error {
	var runner *cli.Runner

	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		engine.Module(),
		register.Module(),
		llm.Module(),
		cli.Module(),
		fx.Populate(&runner),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(ctx)
	}()

	return runner.Execute()
}
