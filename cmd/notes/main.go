package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophnotes/internal/cli"
	"github.com/dmitrijs2005/gophnotes/internal/config"
	"github.com/dmitrijs2005/gophnotes/internal/dataservice"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := dataservice.NewArchiveStore(ctx, cfg)
	if err != nil {
		logger.Warn(ctx, "archive storage unavailable, export disabled", "error", err)
		store = nil
	}

	factory := dataservice.NewFactory(cfg, logger, store)
	if cfg.MigrateOnStart {
		if err := factory.Migrate(ctx); err != nil {
			log.Fatalf("%v", err)
		}
	}

	cli.NewApp(cli.FromFactory(factory), logger).Run(ctx)

}
