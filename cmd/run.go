package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/telebus/telebus/api"
	"github.com/telebus/telebus/bot"
	"github.com/telebus/telebus/config"
	"github.com/telebus/telebus/database"
)

func run() {
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	level := log.InfoLevel
	if config.C.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stdout, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		ReportCaller:    true,
	})
	if err := os.MkdirAll("data", os.ModePerm); err != nil {
		logger.Errorf("Failed to create data directory: %v", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = log.WithContext(ctx, logger)

	if err := database.InitDatabase(ctx); err != nil {
		logger.Errorf("Failed to initialize database: %v", err)
		return
	}

	bot.Version = Version
	b, err := bot.NewBot(ctx)
	if err != nil {
		logger.Errorf("Failed to create bot: %v", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	if config.C.Api.Enable {
		g.Go(func() error {
			logger.Infof("API server listening at %s", config.C.Api.Addr)
			return api.Serve(gctx, config.C.Api.Addr, b)
		})
	}
	g.Go(func() error {
		b.Start(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Errorf("Exited with error: %v", err)
	}
}
