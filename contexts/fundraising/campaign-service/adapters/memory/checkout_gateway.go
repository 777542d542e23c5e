package memory

import (
	"context"
	"strings"
	"sync"

	"funded/contexts/fundraising/campaign-service/ports"

	"github.com/google/uuid"
)

const sandboxCheckoutBaseURL = "https://checkout.stripe.test/c/pay/"

// CheckoutGateway is a sandbox provider used when no payment API key is
// configured. Sessions are recorded so tests can inspect what was requested,
// and a repeated idempotency key returns the first session like the real API.
type CheckoutGateway struct {
	mu       sync.Mutex
	sessions map[string]ports.CheckoutSession
	requests []ports.CheckoutSessionRequest
	// Err, when set, is returned by every call.
	Err error
}

func NewCheckoutGateway() *CheckoutGateway {
	return &CheckoutGateway{sessions: make(map[string]ports.CheckoutSession)}
}

func (g *CheckoutGateway) CreateCheckoutSession(_ context.Context, req ports.CheckoutSessionRequest) (ports.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return ports.CheckoutSession{}, g.Err
	}
	g.requests = append(g.requests, req)

	key := strings.TrimSpace(req.IdempotencyKey)
	if session, ok := g.sessions[key]; ok && key != "" {
		return session, nil
	}
	id := "cs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	session := ports.CheckoutSession{SessionID: id, URL: sandboxCheckoutBaseURL + id}
	if key != "" {
		g.sessions[key] = session
	}
	return session, nil
}

// Requests returns a copy of every session request received so far.
func (g *CheckoutGateway) Requests() []ports.CheckoutSessionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ports.CheckoutSessionRequest(nil), g.requests...)
}
