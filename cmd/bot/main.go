package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fazendarp/stashbot/api/routes"
	"github.com/fazendarp/stashbot/internal/catalog"
	"github.com/fazendarp/stashbot/internal/discord"
	"github.com/fazendarp/stashbot/internal/identity"
	"github.com/fazendarp/stashbot/internal/ledger"
	"github.com/fazendarp/stashbot/internal/pipeline"
	"github.com/fazendarp/stashbot/internal/routing"
	"github.com/fazendarp/stashbot/internal/session"
	"github.com/fazendarp/stashbot/pkg/config"
	"github.com/fazendarp/stashbot/pkg/logger"
	"github.com/fazendarp/stashbot/pkg/metrics"
	"github.com/fazendarp/stashbot/pkg/sheets"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "bot"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "bot",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logg.Error(ctx, "failed to load item catalog", err)
		os.Exit(1)
	}

	routeTable, err := routing.NewTable(cfg.Routes)
	if err != nil {
		logg.Error(ctx, "failed to build routing table", err)
		os.Exit(1)
	}

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap sheets client", err)
		os.Exit(1)
	}

	resolver, err := identity.NewResolver(sheetsClient, cfg.Sheets.IdentityRange)
	if err != nil {
		logg.Error(ctx, "failed to create identity resolver", err)
		os.Exit(1)
	}

	ledgerStore, err := ledger.NewStore(sheetsClient)
	if err != nil {
		logg.Error(ctx, "failed to create ledger store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	discordSession, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		logg.Error(ctx, "failed to create discord session", err)
		os.Exit(1)
	}

	messenger, err := discord.NewMessenger(discordSession, logg)
	if err != nil {
		logg.Error(ctx, "failed to create messenger", err)
		os.Exit(1)
	}

	movementPipeline, err := pipeline.New(pipeline.Params{
		Catalog:   cat,
		Routes:    routeTable,
		Identity:  resolver,
		Ledger:    ledgerStore,
		Sessions:  session.NewStore(ctx, cfg.Session.PendingTTL),
		Messenger: messenger,
		Metrics:   pipelineMetrics,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create pipeline", err)
		os.Exit(1)
	}

	bot, err := discord.NewBot(discord.Params{
		Session:   discordSession,
		Pipeline:  movementPipeline,
		Routes:    routeTable,
		Messenger: messenger,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create bot", err)
		os.Exit(1)
	}

	if err := bot.Start(); err != nil {
		logg.Error(ctx, "failed to open discord gateway", err)
		os.Exit(1)
	}
	defer func() {
		if err := bot.Close(); err != nil {
			logg.Error(context.Background(), "error closing discord gateway", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, sheetsClient, registry),
	}

	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting health server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "health server stopped unexpectedly", err)
			stop()
		}
	}()

	logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "bot running")
	<-ctx.Done()

	logg.Info(context.Background(), "shutting down")
	if err := server.Shutdown(context.Background()); err != nil {
		logg.Error(context.Background(), "error shutting down health server", err)
	}
}
