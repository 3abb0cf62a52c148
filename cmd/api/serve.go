package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alumni-platform/config"
	"alumni-platform/internal/adapter/gateway/razorpay"
	httpHandler "alumni-platform/internal/adapter/http/handler"
	"alumni-platform/internal/adapter/messaging/rabbitmq"
	pgStorage "alumni-platform/internal/adapter/storage/postgres"
	redisStorage "alumni-platform/internal/adapter/storage/redis"
	"alumni-platform/internal/core/ports"
	"alumni-platform/internal/service"
	"alumni-platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	serveMigrate  bool
	openAPISpecAt string
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return runServe(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving")
	cmd.Flags().StringVar(&openAPISpecAt, "openapi", "docs/api/openapi.yaml", "OpenAPI document served at /swagger/spec")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("version", Version).
		Msg("Starting alumni donation service")

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if serveMigrate {
		if _, err := pgStorage.Migrate(ctx, pool, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		return fmt.Errorf("init encryption service: %w", err)
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Repositories
	donationRepo := pgStorage.NewDonationRepo(pool, encSvc)
	accountRepo := pgStorage.NewAccountRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)

	gateway := razorpay.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.Timeout, logger.Component(log, "gateway"))
	cache := redisStorage.NewVerificationCache(rdb)

	events, closeEvents := newEventPublisher(cfg.RabbitMQ, logger.Component(log, "events"))
	defer closeEvents()

	// Business services
	donationSvc := service.NewDonationService(
		donationRepo,
		accountRepo,
		gateway,
		sigSvc,
		cache,
		events,
		service.DonationSettings{
			KeyID:           cfg.Gateway.KeyID,
			KeySecret:       cfg.Gateway.KeySecret,
			Currency:        cfg.Gateway.Currency,
			GatewayTimeout:  cfg.Gateway.Timeout,
			MaxAmount:       decimal.NewFromFloat(cfg.Donation.MaxAmount),
			VerificationTTL: cfg.Redis.VerificationTTL,
		},
		logger.Component(log, "donations"),
	)
	reportingSvc := service.NewReportingService(donationRepo, accountRepo, decimal.NewFromFloat(cfg.Donation.Goal))
	authSvc := service.NewAuthService(accountRepo, hashSvc, tokenSvc)
	auditSvc := service.NewAuditService(auditRepo, logger.Component(log, "audit"))

	if specBytes, err := os.ReadFile(openAPISpecAt); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		DonationSvc:    donationSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		RateLimiter:    redisStorage.NewRateLimitStore(rdb),
		HealthCheckers: []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// newEventPublisher falls back to logging events when the broker is not
// configured or unreachable at startup.
func newEventPublisher(cfg config.RabbitMQConfig, log zerolog.Logger) (ports.EventPublisher, func()) {
	if cfg.URL == "" {
		log.Info().Msg("RabbitMQ not configured, donation events will be logged only")
		return rabbitmq.NewLogPublisher(log), func() {}
	}
	pub, err := rabbitmq.NewPublisher(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, donation events will be logged only")
		return rabbitmq.NewLogPublisher(log), func() {}
	}
	log.Info().Str("exchange", cfg.Exchange).Msg("RabbitMQ publisher ready")
	return pub, pub.Close
}
