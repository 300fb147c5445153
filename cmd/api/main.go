// Package main provides the entry point for the authcore API server
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"authcore/internal/account"
	"authcore/internal/api/routes"
	"authcore/internal/api/server"
	"authcore/internal/auth"
	"authcore/internal/config"
	"authcore/internal/database"
	"authcore/internal/email"
	"authcore/internal/identity"
	"authcore/internal/jobs"
	"authcore/internal/logging"
	"authcore/internal/models"
	"authcore/internal/repository/postgres"
	"authcore/internal/validation"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile != ".env" {
		log.Fatalf("Failed to load env file: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database and run migrations
	db, err := database.SetupDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// Initialize validators
	validation.Initialize()

	// Initialize repositories
	tx := postgres.NewTransactor(db)
	accountRepo := postgres.NewAccountRepository(db)
	historyRepo := postgres.NewLoginHistoryRepository(db)
	thirdPartyRepo := postgres.NewThirdPartyLoginRepository(db)

	// Initialize email delivery
	var sender email.Sender = email.LogSender{Logger: logger}
	if cfg.Email.Enabled() {
		smtp := email.NewService(cfg.Email)
		defer smtp.Close()
		sender = smtp
	} else {
		logger.Warn("SMTP is not configured, emails will only be logged")
	}
	notifier := email.NewNotifier(
		email.NewMessageService(sender, cfg.Email.FromAddress),
		cfg.Email.AppURL,
		cfg.Email.SendTimeout,
		logger,
	)
	defer notifier.Wait()

	// Initialize services
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	accounts := account.NewService(tx, accountRepo, hasher, notifier, logger)

	tokens, err := auth.NewTokenService(cfg.Auth, accountRepo)
	if err != nil {
		return err
	}
	throttle := auth.NewThrottle(cfg.Auth, historyRepo, tx, logger)

	verifiers := identity.Registry{
		models.ProviderFacebook: identity.NewFacebookVerifier(cfg.Identity.FacebookGraphURL, cfg.Identity.HTTPTimeout),
	}
	jwks, err := identity.NewGoogleJWKS(cfg.Identity.GoogleJWKSURL, logger)
	if err != nil {
		logger.Warn("Google and GSuite logins are disabled", zap.Error(err))
	} else {
		defer jwks.EndBackground()
		verifiers[models.ProviderGoogle] = identity.NewGoogleVerifier(jwks.Keyfunc, cfg.Identity.GoogleClientIDs, false)
		verifiers[models.ProviderGSuite] = identity.NewGoogleVerifier(jwks.Keyfunc, cfg.Identity.GSuiteClientIDs, true)
	}

	security := auth.NewService(
		tx,
		accountRepo,
		thirdPartyRepo,
		accounts,
		tokens,
		throttle,
		hasher,
		verifiers,
		auth.NewDomainPolicy(cfg.Identity.GSuiteAllowedDomains),
		logger,
	)

	// Setup routes
	router, err := routes.SetupRoutes(cfg, routes.Services{
		DB:       db,
		Security: security,
		Accounts: accounts,
	}, logger)
	if err != nil {
		return err
	}

	// Initialize background jobs
	jobManager := jobs.NewManager(logger)
	jobManager.RegisterJob(jobs.NewThrottleSweepJob(throttle, cfg.Jobs.ThrottleSweepSchedule))
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := jobManager.StartScheduler(ctx); err != nil {
			logger.Error("scheduler stopped", zap.Error(err))
		}
	}()

	srv := server.New(cfg.API, router, logger)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		stop()
		<-schedulerDone
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	<-schedulerDone

	logger.Info("server exiting")
	return nil
}
