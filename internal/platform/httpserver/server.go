package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	campaignservice "funded/contexts/fundraising/campaign-service"
	accountservice "funded/contexts/identity-access/account-service"
	admindashboardservice "funded/contexts/internal-ops/admin-dashboard-service"
	"funded/internal/platform/metrics"
	"funded/internal/platform/ratelimit"

	_ "funded/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	webhookBodyLimit  = 1 << 20
	checkoutBodyLimit = 64 << 10
	defaultBodyLimit  = 256 << 10
)

// Modules are the bounded contexts served over HTTP.
type Modules struct {
	Accounts  accountservice.Module
	Campaigns campaignservice.Module
	Admin     admindashboardservice.Module
}

type Options struct {
	ServiceName string
	Version     string
	Addr        string
	// A nil limiter disables rate limiting for that route group.
	CheckoutLimiter *ratelimit.PerClientLimiter
	WebhookLimiter  *ratelimit.PerClientLimiter
	// TrustedProxies may set the client address through X-Forwarded-For.
	TrustedProxies []netip.Prefix
	// Readiness is probed by /api/health. Nil means always ready.
	Readiness func(context.Context) error
	Logger    *slog.Logger
}

type Server struct {
	mux         *http.ServeMux
	httpServer  *http.Server
	logger      *slog.Logger
	serviceName string
	version     string

	accounts  accountservice.Module
	campaigns campaignservice.Module
	admin     admindashboardservice.Module

	checkoutLimiter *ratelimit.PerClientLimiter
	webhookLimiter  *ratelimit.PerClientLimiter
	trustedProxies  []netip.Prefix
	readiness       func(context.Context) error
	now             func() time.Time
}

func New(modules Modules, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}
	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "funded"
	}
	version := opts.Version
	if version == "" {
		version = "1.0.0"
	}

	s := &Server{
		mux:             http.NewServeMux(),
		logger:          logger,
		serviceName:     serviceName,
		version:         version,
		accounts:        modules.Accounts,
		campaigns:       modules.Campaigns,
		admin:           modules.Admin,
		checkoutLimiter: opts.CheckoutLimiter,
		webhookLimiter:  opts.WebhookLimiter,
		trustedProxies:  opts.TrustedProxies,
		readiness:       opts.Readiness,
		now:             time.Now,
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler is the full middleware chain, exposed for httptest.
func (s *Server) Handler() http.Handler {
	return metrics.Middleware(s.serviceName, s.accessLog(s.mux))
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.httpServer.Addr,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", metrics.Handler())

	s.mux.HandleFunc("GET /api/{$}", s.handleRoot)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("POST /api/auth/sync", s.handleSyncUser)
	s.mux.HandleFunc("GET /api/auth/me", s.handleCurrentUser)
	s.mux.HandleFunc("POST /api/students/profile", s.handleCreateStudentProfile)
	s.mux.HandleFunc("POST /api/students/profile/documents", s.handleRequestDocumentUpload)
	s.mux.HandleFunc("GET /api/countries", s.handleListCountries)

	s.mux.HandleFunc("GET /api/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("POST /api/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /api/campaigns/my", s.handleListMyCampaigns)
	s.mux.HandleFunc("GET /api/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("PUT /api/campaigns/{campaign_id}", s.handleUpdateCampaign)
	s.mux.HandleFunc("DELETE /api/campaigns/{campaign_id}", s.handleCancelCampaign)

	s.mux.Handle("POST /api/donations/checkout", s.rateLimited("checkout", s.checkoutLimiter, http.HandlerFunc(s.handleStartCheckout)))
	s.mux.HandleFunc("GET /api/donations/my", s.handleListMyDonations)
	s.mux.HandleFunc("GET /api/donations/status/{session_id}", s.handleDonationStatus)

	webhook := s.rateLimited("webhook", s.webhookLimiter, http.HandlerFunc(s.handleStripeWebhook))
	s.mux.Handle("POST /api/webhook/stripe", webhook)
	s.mux.Handle("POST /api/stripe/webhook", webhook)

	s.mux.HandleFunc("GET /api/admin/stats", s.handleAdminStats)
	s.mux.HandleFunc("GET /api/admin/users", s.handleAdminListUsers)
	s.mux.HandleFunc("PUT /api/admin/users/{user_id}/role", s.handleAdminSetUserRole)
	s.mux.HandleFunc("DELETE /api/admin/users/{user_id}", s.handleAdminDeleteUser)
	s.mux.HandleFunc("GET /api/admin/students", s.handleAdminListStudents)
	s.mux.HandleFunc("GET /api/admin/students/pending", s.handleAdminListPendingStudents)
	s.mux.HandleFunc("PUT /api/admin/students/{user_id}/verify", s.handleAdminReviewStudent)
	s.mux.HandleFunc("GET /api/admin/campaigns", s.handleAdminListCampaigns)
	s.mux.HandleFunc("PUT /api/admin/campaigns/{campaign_id}/status", s.handleAdminSetCampaignStatus)
	s.mux.HandleFunc("GET /api/admin/audit", s.handleAdminAudit)
}

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, rootResponse{Message: "FundEd API is running", Version: s.version})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	timestamp := s.now().UTC().Format(time.RFC3339)
	if s.readiness != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.readiness(ctx); err != nil {
			s.logger.Warn("readiness probe failed",
				"event", "http_readiness_failed",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"error", err.Error(),
			)
			writeJSON(w, http.StatusServiceUnavailable, envelope{
				Success: false,
				Data:    healthResponse{Status: "unhealthy", Timestamp: timestamp},
				Error:   &errorBody{Code: "not_ready", Message: "dependency unavailable"},
			})
			return
		}
	}
	writeSuccess(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: timestamp})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request served",
			"event", "http_request_served",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
