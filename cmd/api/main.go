package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/circulation/memstore"
	circulationStore "github.com/tronghieu/ezlib-sub005/internal/circulation/store"
	"github.com/tronghieu/ezlib-sub005/internal/config"
	"github.com/tronghieu/ezlib-sub005/internal/database"
	ezlibHttp "github.com/tronghieu/ezlib-sub005/internal/http"
	circulationHandler "github.com/tronghieu/ezlib-sub005/internal/http/circulation"
	copiesHandler "github.com/tronghieu/ezlib-sub005/internal/http/copies"
	importHandler "github.com/tronghieu/ezlib-sub005/internal/http/importcsv"
	membersHandler "github.com/tronghieu/ezlib-sub005/internal/http/members"
	"github.com/tronghieu/ezlib-sub005/internal/identity"
	"github.com/tronghieu/ezlib-sub005/internal/importer"
	"github.com/tronghieu/ezlib-sub005/internal/notify"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo   circulation.Repository
		health ezlibHttp.Pinger
	)

	switch cfg.Store.Driver {
	case "memory":
		slog.Warn("using in-memory store; state is lost on restart")
		repo = memstore.New()
	default:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		repo = circulationStore.New(db)
		health = db
	}

	authority, err := identity.NewJWTAuthority(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		return err
	}

	var notifier circulation.Notifier = notify.Logger{}
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
	}

	var (
		ledger             = circulation.NewLedger(repo, circulation.WithNotifier(notifier))
		log                = circulation.NewLog(repo)
		safety             = circulation.NewSafetyChecker(repo)
		circulationService = circulation.NewService(repo, ledger, circulation.WithNotifier(notifier))
		memberService      = circulation.NewMembers(repo, circulation.WithNotifier(notifier))
		importService      = importer.NewService(ledger)
	)

	var (
		circulationH = circulationHandler.NewHandler(circulationService, log)
		copiesH      = copiesHandler.NewHandler(ledger, log, safety)
		membersH     = membersHandler.NewHandler(memberService, safety)
		importH      = importHandler.NewHandler(importService)
	)

	router := ezlibHttp.New(ezlibHttp.Options{
		Authority:      authority,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Health:         health,
	}, circulationH, copiesH, membersH, importH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "store", cfg.Store.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
