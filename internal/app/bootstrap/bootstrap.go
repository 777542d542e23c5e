package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	campaignservice "funded/contexts/fundraising/campaign-service"
	campaignmemory "funded/contexts/fundraising/campaign-service/adapters/memory"
	campaignpostgres "funded/contexts/fundraising/campaign-service/adapters/postgres"
	stripeadapter "funded/contexts/fundraising/campaign-service/adapters/stripe"
	campaignports "funded/contexts/fundraising/campaign-service/ports"
	accountservice "funded/contexts/identity-access/account-service"
	accountmemory "funded/contexts/identity-access/account-service/adapters/memory"
	accountpostgres "funded/contexts/identity-access/account-service/adapters/postgres"
	s3adapter "funded/contexts/identity-access/account-service/adapters/s3"
	accountports "funded/contexts/identity-access/account-service/ports"
	admindashboardservice "funded/contexts/internal-ops/admin-dashboard-service"
	adminpostgres "funded/contexts/internal-ops/admin-dashboard-service/adapters/postgres"
	"funded/internal/app/statsbridge"
	"funded/internal/platform/config"
	"funded/internal/platform/db"
	"funded/internal/platform/httpserver"
	"funded/internal/platform/ratelimit"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const (
	moduleName         = "internal/app/bootstrap"
	limiterIdleTimeout = 10 * time.Minute
	limiterSweepEvery  = time.Minute
	shutdownTimeout    = 15 * time.Second
	adminDedupWindow   = 7 * 24 * time.Hour
	localUploadBaseURL = "http://localhost/uploads"
)

// Version is stamped at link time.
var Version = "dev"

type APIApp struct {
	server          *httpserver.Server
	postgres        *db.Postgres
	checkoutLimiter *ratelimit.PerClientLimiter
	webhookLimiter  *ratelimit.PerClientLimiter
	logger          *slog.Logger
}

// BuildAPI wires the three contexts. Without POSTGRES_DSN every store is the
// in-memory adapter, which is how local demos and tests run.
func BuildAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("service", cfg.ServiceName, "process", "api")

	app := &APIApp{logger: logger}

	var (
		accounts  accountservice.Module
		campaigns campaignservice.Module
		admin     admindashboardservice.Module
	)

	verifier, err := buildVerifier(cfg)
	if err != nil {
		return nil, err
	}
	gateway, err := buildGateway(cfg, logger)
	if err != nil {
		return nil, err
	}
	storage, err := buildDocumentStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		app.postgres = pg
		if cfg.RunMigrations {
			if err := db.Migrate(cfg.PostgresDSN, logger); err != nil {
				_ = pg.Close()
				return nil, err
			}
		}

		accountRepo := accountpostgres.NewRepository(pg.DB, logger)
		accounts = accountservice.NewModule(accountservice.Dependencies{
			Users:       accountRepo,
			Storage:     storage,
			Clock:       accountpostgres.SystemClock{},
			IDGenerator: accountpostgres.UUIDGenerator{},
			AdminEmail:  cfg.AdminEmail,
			Logger:      logger,
		})

		campaignRepo := campaignpostgres.NewRepository(pg.DB, logger)
		campaigns = campaignservice.NewModule(campaignservice.Dependencies{
			Campaigns:   campaignRepo,
			Donations:   campaignRepo,
			Ledger:      campaignRepo,
			Gateway:     gateway,
			Verifier:    verifier,
			Clock:       campaignpostgres.SystemClock{},
			IDGenerator: campaignpostgres.UUIDGenerator{},
			Logger:      logger,
		})

		adminRepo := adminpostgres.NewRepository(pg.DB, logger)
		admin = admindashboardservice.NewModule(admindashboardservice.Dependencies{
			Trail:        adminRepo,
			Deduplicator: adminRepo,
			Accounts:     statsbridge.Accounts{Stats: accounts.Stats},
			Fundraising:  statsbridge.Fundraising{Stats: campaigns.Stats},
			Clock:        adminRepo,
			IDGenerator:  adminRepo,
			DedupWindow:  adminDedupWindow,
			Logger:       logger,
		})
	} else {
		logger.Warn("POSTGRES_DSN not set, using in-memory stores",
			"event", "bootstrap_memory_stores",
			"module", moduleName,
			"layer", "platform",
		)
		accounts = accountservice.NewInMemoryModule(nil, cfg.AdminEmail, logger)
		accounts = withDocumentStorage(accounts, storage, cfg.AdminEmail, logger)

		campaigns = campaignservice.NewInMemoryModule(nil, verifier, logger)
		if _, sandbox := gateway.(*campaignmemory.CheckoutGateway); !sandbox {
			store := campaigns.Store
			campaigns = campaignservice.NewModule(campaignservice.Dependencies{
				Campaigns:   store,
				Donations:   store,
				Ledger:      store,
				Gateway:     gateway,
				Verifier:    verifier,
				Clock:       store,
				IDGenerator: store,
				Logger:      logger,
			})
			campaigns.Store = store
		}

		admin = admindashboardservice.NewInMemoryModule(
			statsbridge.Accounts{Stats: accounts.Stats},
			statsbridge.Fundraising{Stats: campaigns.Stats},
			logger,
		)
	}

	if strings.TrimSpace(cfg.AdminEmail) != "" {
		if _, err := accounts.SeedAdmin.Execute(ctx, cfg.AdminEmail); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	app.checkoutLimiter = ratelimit.NewPerClientLimiter(cfg.CheckoutRatePerMinute/60, cfg.CheckoutRateBurst, limiterIdleTimeout)
	app.webhookLimiter = ratelimit.NewPerClientLimiter(cfg.WebhookRatePerSecond, cfg.WebhookRateBurst, limiterIdleTimeout)

	var readiness func(context.Context) error
	if app.postgres != nil {
		readiness = app.postgres.Ping
	}

	app.server = httpserver.New(httpserver.Modules{
		Accounts:  accounts,
		Campaigns: campaigns,
		Admin:     admin,
	}, httpserver.Options{
		ServiceName:     cfg.ServiceName,
		Version:         Version,
		Addr:            normalizeAddr(cfg.HTTPPort),
		CheckoutLimiter: app.checkoutLimiter,
		WebhookLimiter:  app.webhookLimiter,
		TrustedProxies:  trustedProxies,
		Readiness:       readiness,
		Logger:          logger,
	})
	return app, nil
}

// withDocumentStorage swaps the sandbox storage of an in-memory account module
// for a real presigner when a bucket is configured.
func withDocumentStorage(module accountservice.Module, storage accountports.DocumentStorage, adminEmail string, logger *slog.Logger) accountservice.Module {
	if _, sandbox := storage.(*accountmemory.DocumentStorage); sandbox {
		return module
	}
	store := module.Store
	rebuilt := accountservice.NewModule(accountservice.Dependencies{
		Users:       store,
		Storage:     storage,
		Clock:       store,
		IDGenerator: store,
		AdminEmail:  adminEmail,
		Logger:      logger,
	})
	rebuilt.Store = store
	return rebuilt
}

// buildVerifier returns a nil interface without a signing secret so webhook
// deliveries are refused instead of trusted unverified.
func buildVerifier(cfg config.Config) (campaignports.WebhookVerifier, error) {
	if strings.TrimSpace(cfg.StripeWebhookSecret) == "" {
		return nil, nil
	}
	return stripeadapter.NewWebhookVerifier(cfg.StripeWebhookSecret)
}

func buildGateway(cfg config.Config, logger *slog.Logger) (campaignports.CheckoutGateway, error) {
	if strings.TrimSpace(cfg.StripeAPIKey) == "" {
		logger.Warn("STRIPE_API_KEY not set, checkout uses the sandbox gateway",
			"event", "bootstrap_sandbox_checkout",
			"module", moduleName,
			"layer", "platform",
		)
		return campaignmemory.NewCheckoutGateway(), nil
	}
	return stripeadapter.NewCheckoutClient(stripeadapter.CheckoutClientConfig{
		APIKey:      cfg.StripeAPIKey,
		BaseURL:     cfg.StripeAPIBaseURL,
		Timeout:     cfg.StripeTimeout,
		ServiceName: cfg.ServiceName,
	}, logger)
}

func buildDocumentStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (accountports.DocumentStorage, error) {
	if strings.TrimSpace(cfg.S3Bucket) == "" {
		storage := accountmemory.NewDocumentStorage(localUploadBaseURL)
		storage.TTL = cfg.UploadURLTTL
		return storage, nil
	}
	return s3adapter.NewPresigner(ctx, s3adapter.Config{
		Bucket:   cfg.S3Bucket,
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
		TTL:      cfg.UploadURLTTL,
	}, logger)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	go a.checkoutLimiter.Run(ctx, limiterSweepEvery)
	go a.webhookLimiter.Run(ctx, limiterSweepEvery)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", moduleName,
		"layer", "platform",
		"version", Version,
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("api app stopped",
		"event", "bootstrap_api_stopped",
		"module", moduleName,
		"layer", "platform",
	)
	return <-errCh
}

func (a *APIApp) Handler() http.Handler {
	return a.server.Handler()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// RunMigration applies schema migrations for the migrate command.
func RunMigration(cfg config.Config, action db.MigrationAction, steps int, logger *slog.Logger) error {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return db.RunMigration(cfg.PostgresDSN, action, steps, logger.With("service", cfg.ServiceName, "process", "migrate"))
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
