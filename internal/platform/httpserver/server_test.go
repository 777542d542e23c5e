package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	campaignservice "funded/contexts/fundraising/campaign-service"
	stripeadapter "funded/contexts/fundraising/campaign-service/adapters/stripe"
	campaignentities "funded/contexts/fundraising/campaign-service/domain/entities"
	"funded/contexts/fundraising/campaign-service/ports"
	accountservice "funded/contexts/identity-access/account-service"
	"funded/contexts/identity-access/account-service/domain/entities"
	admindashboardservice "funded/contexts/internal-ops/admin-dashboard-service"
	"funded/internal/app/statsbridge"
	"funded/internal/platform/ratelimit"

	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_http_test"

var seedTime = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	handler   http.Handler
	accounts  accountservice.Module
	campaigns campaignservice.Module
	admin     admindashboardservice.Module
}

type testEnvelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination json.RawMessage `json:"pagination"`
	Error      *errorBody      `json:"error"`
}

type testConfig struct {
	verifier        ports.WebhookVerifier
	noVerifier      bool
	checkoutLimiter *ratelimit.PerClientLimiter
	webhookLimiter  *ratelimit.PerClientLimiter
	trustedProxies  []netip.Prefix
	readiness       func(context.Context) error
}

func seedUsers() []entities.User {
	verifiedAt := seedTime
	return []entities.User{
		{UserID: "admin-1", Email: "admin@funded.com", Name: "Platform Admin", Role: entities.RoleAdmin, CreatedAt: seedTime, UpdatedAt: seedTime},
		{UserID: "donor-1", Email: "donor@example.com", Name: "Grace", Role: entities.RoleDonor, CreatedAt: seedTime, UpdatedAt: seedTime},
		{
			UserID: "student-1", Email: "amina@example.com", Name: "Amina", Role: entities.RoleStudent,
			Student: &entities.StudentProfile{
				Country: "Kenya", FieldOfStudy: "Nursing", University: "University of Nairobi",
				VerificationStatus: entities.VerificationVerified, VerifiedAt: &verifiedAt,
				CreatedAt: seedTime, UpdatedAt: seedTime,
			},
			CreatedAt: seedTime, UpdatedAt: seedTime,
		},
		{
			UserID: "student-2", Email: "diego@example.com", Name: "Diego", Role: entities.RoleStudent,
			Student: &entities.StudentProfile{
				Country: "Mexico", FieldOfStudy: "Engineering", University: "UNAM",
				VerificationStatus: entities.VerificationPending,
				CreatedAt: seedTime.Add(time.Hour), UpdatedAt: seedTime.Add(time.Hour),
			},
			CreatedAt: seedTime, UpdatedAt: seedTime,
		},
	}
}

func seedCampaigns() []campaignentities.Campaign {
	campaign := func(id string, studentID string, status campaignentities.CampaignStatus, offset time.Duration) campaignentities.Campaign {
		return campaignentities.Campaign{
			CampaignID:        id,
			StudentID:         studentID,
			Title:             "Final year nursing tuition",
			Story:             "Two semesters left.",
			Category:          campaignentities.CategoryTuition,
			TargetAmountCents: 10000,
			RaisedAmountCents: 9000,
			Timeline:          "Spring",
			Status:            status,
			CreatedAt:         seedTime.Add(offset),
			UpdatedAt:         seedTime.Add(offset),
		}
	}
	return []campaignentities.Campaign{
		campaign("c1", "student-1", campaignentities.CampaignStatusActive, 0),
		campaign("c2", "student-1", campaignentities.CampaignStatusCompleted, time.Minute),
		campaign("c3", "student-2", campaignentities.CampaignStatusActive, 2*time.Minute),
	}
}

func newTestServer(t *testing.T, configure ...func(*testConfig)) testServer {
	t.Helper()
	cfg := testConfig{}
	for _, fn := range configure {
		fn(&cfg)
	}
	verifier := cfg.verifier
	if verifier == nil && !cfg.noVerifier {
		v, err := stripeadapter.NewWebhookVerifier(testWebhookSecret)
		if err != nil {
			t.Fatalf("create verifier: %v", err)
		}
		verifier = v
	}

	accounts := accountservice.NewInMemoryModule(seedUsers(), "admin@funded.com", nil)
	campaigns := campaignservice.NewInMemoryModule(seedCampaigns(), verifier, nil)
	admin := admindashboardservice.NewInMemoryModule(
		statsbridge.Accounts{Stats: accounts.Stats},
		statsbridge.Fundraising{Stats: campaigns.Stats},
		nil,
	)
	server := New(Modules{Accounts: accounts, Campaigns: campaigns, Admin: admin}, Options{
		Version:         "test",
		CheckoutLimiter: cfg.checkoutLimiter,
		WebhookLimiter:  cfg.webhookLimiter,
		TrustedProxies:  cfg.trustedProxies,
		Readiness:       cfg.readiness,
	})
	return testServer{handler: server.Handler(), accounts: accounts, campaigns: campaigns, admin: admin}
}

func (ts testServer) do(t *testing.T, method string, path string, userID string, body string, headers ...string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env testEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v body=%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func signPayload(payload string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	}).Header
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, env testEnvelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d body=%s", status, rec.Code, rec.Body.String())
	}
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Fatalf("expected error code %s, got %+v", code, env.Error)
	}
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/", "", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var root rootResponse
	_ = json.Unmarshal(env.Data, &root)
	if root.Message != "FundEd API is running" || root.Version != "test" {
		t.Fatalf("unexpected root payload %+v", root)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/health", "", "")
	var health healthResponse
	_ = json.Unmarshal(env.Data, &health)
	if rec.Code != http.StatusOK || health.Status != "healthy" || health.Timestamp == "" {
		t.Fatalf("expected healthy, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHealthReportsFailedReadiness(t *testing.T) {
	ts := newTestServer(t, func(c *testConfig) {
		c.readiness = func(context.Context) error { return context.DeadlineExceeded }
	})
	rec, env := ts.do(t, http.MethodGet, "/api/health", "", "")
	expectError(t, rec, env, http.StatusServiceUnavailable, "not_ready")
}

func TestMetricsEndpointIsServed(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/api/health", "", "")

	rec, _ := ts.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected prometheus exposition, got %d", rec.Code)
	}
}
