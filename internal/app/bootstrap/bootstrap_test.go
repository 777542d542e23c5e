package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	campaignmemory "funded/contexts/fundraising/campaign-service/adapters/memory"
	stripeadapter "funded/contexts/fundraising/campaign-service/adapters/stripe"
	accountmemory "funded/contexts/identity-access/account-service/adapters/memory"
	"funded/internal/platform/config"
	"funded/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		ServiceName:           "funded-test",
		HTTPPort:              "0",
		AdminEmail:            "admin@funded.com",
		StripeTimeout:         time.Second,
		CheckoutRatePerMinute: 10,
		CheckoutRateBurst:     10,
		WebhookRatePerSecond:  50,
		WebhookRateBurst:      100,
		UploadURLTTL:          5 * time.Minute,
	}
}

func TestBuildAPIWithoutDatabaseServesHealth(t *testing.T) {
	app, err := BuildAPI(context.Background(), memoryConfig(), nil)
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestBuildAPISeedsAdminAccount(t *testing.T) {
	app, err := BuildAPI(context.Background(), memoryConfig(), nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/sync", strings.NewReader(`{"email":"admin@funded.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "seeded admin should already exist")
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestWebhookRefusedWithoutSecret(t *testing.T) {
	app, err := BuildAPI(context.Background(), memoryConfig(), nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/stripe", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdapterSelection(t *testing.T) {
	cfg := memoryConfig()

	verifier, err := buildVerifier(cfg)
	require.NoError(t, err)
	assert.Nil(t, verifier)

	cfg.StripeWebhookSecret = "whsec_test"
	verifier, err = buildVerifier(cfg)
	require.NoError(t, err)
	assert.IsType(t, &stripeadapter.WebhookVerifier{}, verifier)

	gateway, err := buildGateway(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &campaignmemory.CheckoutGateway{}, gateway)

	cfg.StripeAPIKey = "sk_test_123"
	gateway, err = buildGateway(cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &stripeadapter.CheckoutClient{}, gateway)

	storage, err := buildDocumentStorage(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &accountmemory.DocumentStorage{}, storage)
}

func TestRunMigrationRequiresDSN(t *testing.T) {
	err := RunMigration(memoryConfig(), db.MigrateUp, 0, nil)
	assert.EqualError(t, err, "POSTGRES_DSN is required")
}

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, ":8080", normalizeAddr(""))
	assert.Equal(t, ":9000", normalizeAddr("9000"))
	assert.Equal(t, ":9000", normalizeAddr(":9000"))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
