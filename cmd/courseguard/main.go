package main

import (
	"context"
	"os"

	"github.com/learnhub/courseguard/internal/app"
	"github.com/learnhub/courseguard/pkg/clientip"
	"github.com/learnhub/courseguard/pkg/config"
	"github.com/learnhub/courseguard/pkg/httpserver"
	"github.com/learnhub/courseguard/pkg/logger"
	"github.com/learnhub/courseguard/pkg/requestid"
)

func main() {
	var cfg app.Config
	config.MustLoad(&cfg)

	log := logger.New(append(cfg.LoggerOptions(),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)...)
	logger.SetAsDefault(log)

	ctx := context.Background()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to start", logger.Error(err))
		os.Exit(1)
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithShutdownHook(a.Close),
	)
	if err := srv.Run(ctx, a.Handler); err != nil {
		log.ErrorContext(ctx, "server stopped", logger.Error(err))
		_ = a.Close(ctx)
		os.Exit(1)
	}
}
