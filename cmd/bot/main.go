package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"
	"github.com/spf13/pflag"

	"github.com/inaiurai/commissionbot/internal/auth"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/dashboard"
	"github.com/inaiurai/commissionbot/internal/dedupe"
	"github.com/inaiurai/commissionbot/internal/discord"
	"github.com/inaiurai/commissionbot/internal/execution"
	"github.com/inaiurai/commissionbot/internal/handlers"
	"github.com/inaiurai/commissionbot/internal/jobs"
	"github.com/inaiurai/commissionbot/internal/keylock"
	"github.com/inaiurai/commissionbot/internal/ledger"
	"github.com/inaiurai/commissionbot/internal/paypal"
	"github.com/inaiurai/commissionbot/internal/repository"
	"github.com/inaiurai/commissionbot/internal/router"
	"github.com/inaiurai/commissionbot/internal/services"
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	configPath := pflag.String("config", "config.yml", "path to the YAML configuration")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit")
	registerCommands := pflag.Bool("register-commands", false, "overwrite the guild's slash commands once connected")
	pflag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Env.DatabaseURL)
	if err != nil {
		fatal("Unable to create database pool", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		fatal("Cannot reach PostgreSQL", err)
	}
	slog.Info("Connected to PostgreSQL database")

	if err := repository.Migrate(ctx, pool); err != nil {
		fatal("Schema migration failed", err)
	}
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		fatal("Failed to create River migrator", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		fatal("River migrate up failed", err)
	}
	slog.Info("Migrations applied")
	if *migrateOnly {
		return
	}

	// Repositories and ledger
	commissionRepo := repository.NewCommissionRepo(pool)
	quoteRepo := repository.NewQuoteRepo(pool)
	questionRepo := repository.NewQuestionRepo(pool)
	invoiceRepo := repository.NewInvoiceRepo(pool)
	walletRepo := repository.NewWalletRepo(pool)
	withdrawalRepo := repository.NewWithdrawalRepo(pool)
	profileRepo := repository.NewProfileRepo(pool)
	embedRepo := repository.NewEmbedRepo(pool)
	ledgerSvc := ledger.NewService(ledger.NewRepository(pool))

	processor, err := paypal.New(paypal.Config{
		BaseURL:      cfg.Env.PayPalBaseURL,
		ClientID:     cfg.Env.PayPalClientID,
		ClientSecret: cfg.Env.PayPalClientSecret,
	})
	if err != nil {
		fatal("PayPal client init failed", err)
	}

	session, err := discordgo.New("Bot " + cfg.Env.DiscordToken)
	if err != nil {
		fatal("Discord session init failed", err)
	}
	platform := &discord.Platform{Session: session, GuildID: cfg.General.GuildID}

	// Jobs: insert func is set after River client is created (breaks init cycle)
	var insertMu sync.Mutex
	var insertFn jobs.InsertNotifyTxFunc
	insertNotify := func(ctx context.Context, tx pgx.Tx, args jobs.NotifyArgs) error {
		insertMu.Lock()
		fn := insertFn
		insertMu.Unlock()
		if fn == nil {
			return errors.New("river insert not wired")
		}
		return fn(ctx, tx, args)
	}
	notify := jobs.NotifyTx(insertNotify)

	validate := validator.New(validator.WithRequiredStructEnabled())
	embedValidator, err := services.NewEmbedValidator()
	if err != nil {
		fatal("Embed schema init failed", err)
	}
	locks := keylock.New()

	commissionSvc := &services.CommissionService{
		DB:          pool,
		Commissions: commissionRepo,
		Quotes:      quoteRepo,
		Questions:   questionRepo,
		Invoices:    invoiceRepo,
		Profiles:    profileRepo,
		Ledger:      ledgerSvc,
		Chat:        platform,
		Notify:      notify,
		Locks:       locks,
		Config:      cfg,
		Logger:      logger,
	}
	invoiceSvc := &services.InvoiceService{
		DB:          pool,
		Invoices:    invoiceRepo,
		Commissions: commissionRepo,
		Processor:   processor,
		Chat:        platform,
		Locks:       locks,
		Config:      cfg,
		Logger:      logger,
		Validate:    validate,
	}
	walletSvc := &services.WalletService{
		DB:          pool,
		Wallets:     walletRepo,
		Withdrawals: withdrawalRepo,
		Ledger:      ledgerSvc,
		Chat:        platform,
		Notify:      notify,
		Locks:       locks,
		Config:      cfg,
		Logger:      logger,
		Validate:    validate,
	}
	ticketSvc := &services.TicketService{Commissions: commissionSvc, Chat: platform, Config: cfg, Logger: logger}
	adminSvc := &services.AdminService{
		Refresh: func(ctx context.Context, t repository.Table) error { return repository.RefreshTable(ctx, pool, t) },
		Config:  cfg,
		Logger:  logger,
	}

	var dedupeStore dedupe.Store = dedupe.NewMemory(dedupe.DefaultTTL)
	if cfg.Env.RedisAddr != "" {
		rdb, err := dedupe.Connect(ctx, cfg.Env.RedisAddr, cfg.Env.RedisPassword)
		if err != nil {
			fatal("Cannot reach Redis", err)
		}
		defer rdb.Close()
		dedupeStore = dedupe.NewRedis(rdb, dedupe.DefaultTTL)
		slog.Info("Interaction dedupe backed by Redis", "addr", cfg.Env.RedisAddr)
	}

	handler := &handlers.Handler{
		Commissions: commissionSvc,
		Invoices:    invoiceSvc,
		Wallets:     walletSvc,
		Tickets:     ticketSvc,
		Profiles:    &services.ProfileService{Profiles: profileRepo, Validate: validate},
		Embeds:      &services.EmbedService{Embeds: embedRepo, Validator: embedValidator, Chat: platform, Config: cfg},
		Admin:       adminSvc,
		Chat:        platform,
		Config:      cfg,
		Dedupe:      dedupeStore,
		Limiter:     handlers.NewLimiter(2, 5),
		Logger:      logger,
	}

	// River: invoice reconciliation and member notifications
	workers := river.NewWorkers()
	river.AddWorker(workers, execution.NewPollInvoicesWorker(invoiceSvc, logger))
	river.AddWorker(workers, execution.NewNotifyWorker(platform, logger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       jobs.QueueConfig(),
		Workers:      workers,
		PeriodicJobs: jobs.PeriodicJobs(cfg.Invoice.PollInterval),
		Logger:       logger,
	})
	if err != nil {
		fatal("Failed to create River client", err)
	}

	insertMu.Lock()
	insertFn = func(ctx context.Context, tx pgx.Tx, args jobs.NotifyArgs) error {
		_, err := riverClient.InsertTx(ctx, tx, args, nil)
		return err
	}
	insertMu.Unlock()

	bot := &discord.Bot{
		Handler:  handler,
		Welcomer: ticketSvc,
		GuildID:  cfg.General.GuildID,
		Logger:   logger,
		// Jobs need the gateway, so River starts once the session is ready.
		OnReady: func(s *discordgo.Session) {
			if *registerCommands {
				if err := discord.RegisterCommands(s, cfg.General.GuildID); err != nil {
					slog.Error("Slash command registration failed", "error", err)
				} else {
					slog.Info("Slash commands registered", "count", len(handlers.Commands))
				}
			}
			go func() {
				if err := riverClient.Start(ctx); err != nil && ctx.Err() == nil {
					slog.Error("River client stopped", "error", err)
				}
			}()
		},
	}
	bot.Attach(ctx, session)
	if err := session.Open(); err != nil {
		fatal("Discord gateway connection failed", err)
	}
	defer session.Close()

	// Admin HTTP API
	authSvc := auth.NewService(cfg.Env.AdminUsername, cfg.Env.AdminPasswordHash, cfg.Env.JWTSecret)
	adminRoles := slices.Concat(cfg.Permissions.WalletAdminRoles, cfg.Permissions.AdminRoles)
	dashHandler := dashboard.NewHandler(walletSvc, ledgerSvc, withdrawalRepo, commissionRepo, adminSvc, pool, adminRoles, logger)
	apiRouter := router.New(authSvc, auth.NewHandler(authSvc, logger), dashHandler)

	corsOpts := cors.Options{
		AllowedOrigins: cfg.Env.AdminAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	if len(corsOpts.AllowedOrigins) == 0 {
		// rs/cors treats an empty list as "*"; no configured origins means same-origin only.
		corsOpts.AllowOriginFunc = func(string) bool { return false }
	}
	corsHandler := cors.New(corsOpts).Handler(apiRouter)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Env.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("Starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown", "error", err)
	}
	if err := riverClient.Stop(shutdownCtx); err != nil {
		slog.Warn("River shutdown", "error", err)
	}
}
