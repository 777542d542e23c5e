package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"funded/contexts/fundraising/campaign-service/adapters/memory"
	"funded/contexts/fundraising/campaign-service/application/commands"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier accepts the signature "valid" and returns its configured event.
type stubVerifier struct {
	event ports.PaymentEvent
}

func (v stubVerifier) Verify(_ []byte, signature string) (ports.PaymentEvent, error) {
	if signature != "valid" {
		return ports.PaymentEvent{}, domainerrors.ErrInvalidSignature
	}
	return v.event, nil
}

type failingLedger struct{}

var errLedgerDown = errors.New("database unavailable")

func (failingLedger) MarkDonationPaid(context.Context, string, string, time.Time) (ports.PaymentTransition, error) {
	return ports.PaymentTransition{}, errLedgerDown
}

func (failingLedger) MarkDonationUnpaid(context.Context, string, entities.PaymentStatus, time.Time) (ports.PaymentTransition, error) {
	return ports.PaymentTransition{}, errLedgerDown
}

func (failingLedger) RefundDonation(context.Context, string, int64, time.Time) (ports.PaymentTransition, error) {
	return ports.PaymentTransition{}, errLedgerDown
}

func storeWithPendingDonation(t *testing.T, targetCents int64, raisedCents int64, amountCents int64) *memory.Store {
	t.Helper()
	campaign := activeCampaign("c1")
	campaign.TargetAmountCents = targetCents
	campaign.RaisedAmountCents = raisedCents
	store := memory.NewStore([]entities.Campaign{campaign}, nil)
	require.NoError(t, store.CreatePendingDonation(context.Background(), entities.Donation{
		DonationID:      "d1",
		CampaignID:      "c1",
		DonorName:       "Ada",
		AmountCents:     amountCents,
		Currency:        entities.DefaultCurrency,
		StripeSessionID: "cs_1",
		PaymentStatus:   entities.PaymentStatusPending,
		IdempotencyKey:  "k1",
		CreatedAt:       fixedNow,
		UpdatedAt:       fixedNow,
	}))
	return store
}

func reconciler(store *memory.Store, event ports.PaymentEvent) commands.ReconcilePaymentUseCase {
	return commands.ReconcilePaymentUseCase{
		Verifier: stubVerifier{event: event},
		Ledger:   store,
		Clock:    fixedClock{},
	}
}

func paidEvent() ports.PaymentEvent {
	return ports.PaymentEvent{
		EventID:       "evt_1",
		Type:          ports.EventCheckoutCompleted,
		SessionID:     "cs_1",
		PaymentStatus: "paid",
		PaymentIntent: "pi_1",
	}
}

func TestReconcilePaidEventCompletesCampaign(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 9000, 2000)
	uc := reconciler(store, paidEvent())

	result, err := uc.Execute(context.Background(), commands.ReconcilePaymentCommand{Payload: []byte("{}"), Signature: "valid"})
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeApplied, result.Outcome)
	assert.True(t, result.CampaignCompleted)

	campaign, _ := store.GetCampaign(context.Background(), "c1")
	assert.Equal(t, int64(11000), campaign.RaisedAmountCents)
	assert.Equal(t, 1, campaign.DonorCount)
	assert.Equal(t, entities.CampaignStatusCompleted, campaign.Status)

	donation, _ := store.GetDonationBySession(context.Background(), "cs_1")
	assert.Equal(t, entities.PaymentStatusPaid, donation.PaymentStatus)
	assert.Equal(t, "pi_1", donation.StripePaymentIntent)
}

func TestReconcileRepeatedDeliveriesApplyOnce(t *testing.T) {
	store := storeWithPendingDonation(t, 100000, 0, 2000)
	uc := reconciler(store, paidEvent())

	var wg sync.WaitGroup
	outcomes := make(chan commands.ReconcileOutcome, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := uc.Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
			if assert.NoError(t, err) {
				outcomes <- result.Outcome
			}
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := map[commands.ReconcileOutcome]int{}
	for outcome := range outcomes {
		counts[outcome]++
	}
	assert.Equal(t, 1, counts[commands.OutcomeApplied])
	assert.Equal(t, 19, counts[commands.OutcomeDuplicate])

	campaign, _ := store.GetCampaign(context.Background(), "c1")
	assert.Equal(t, int64(2000), campaign.RaisedAmountCents)
	assert.Equal(t, 1, campaign.DonorCount)
}

func TestReconcileCompletedWithoutPaymentIsIgnored(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 0, 2000)
	event := paidEvent()
	event.PaymentStatus = "unpaid"

	result, err := reconciler(store, event).Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeIgnored, result.Outcome)
	donation, _ := store.GetDonationBySession(context.Background(), "cs_1")
	assert.Equal(t, entities.PaymentStatusPending, donation.PaymentStatus)
}

func TestReconcileAsyncAndExpiryEvents(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 0, 2000)
	failed := ports.PaymentEvent{EventID: "evt_2", Type: ports.EventAsyncPaymentFailed, SessionID: "cs_1"}

	result, err := reconciler(store, failed).Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeApplied, result.Outcome)
	assert.Equal(t, entities.PaymentStatusFailed, result.Donation.PaymentStatus)

	expired := ports.PaymentEvent{EventID: "evt_3", Type: ports.EventCheckoutExpired, SessionID: "cs_1"}
	result, err = reconciler(store, expired).Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeDuplicate, result.Outcome, "failed donations cannot expire")

	succeeded := ports.PaymentEvent{EventID: "evt_4", Type: ports.EventAsyncPaymentSucceeded, SessionID: "cs_1"}
	result, err = reconciler(store, succeeded).Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeDuplicate, result.Outcome)
	campaign, _ := store.GetCampaign(context.Background(), "c1")
	assert.Zero(t, campaign.RaisedAmountCents)
}

func TestReconcileRefundReversesOnce(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 0, 3000)
	_, err := reconciler(store, paidEvent()).Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)

	refund := ports.PaymentEvent{EventID: "evt_5", Type: ports.EventChargeRefunded, PaymentIntent: "pi_1", AmountRefundedCents: 3000}
	uc := reconciler(store, refund)
	first, err := uc.Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)

	assert.Equal(t, commands.OutcomeApplied, first.Outcome)
	assert.Equal(t, commands.OutcomeDuplicate, second.Outcome)
	campaign, _ := store.GetCampaign(context.Background(), "c1")
	assert.Zero(t, campaign.RaisedAmountCents)
	assert.Zero(t, campaign.DonorCount)
}

func TestReconcileUnknownSessionIsAcknowledged(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 0, 2000)
	event := paidEvent()
	event.SessionID = "cs_other"

	result, err := reconciler(store, event).Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeUnknownSession, result.Outcome)
}

func TestReconcileUnhandledTypeIsIgnored(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 0, 2000)
	event := ports.PaymentEvent{EventID: "evt_6", Type: "customer.created"}

	result, err := reconciler(store, event).Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeIgnored, result.Outcome)
	assert.Equal(t, "customer.created", result.EventType)
}

func TestReconcileSignatureFailuresMutateNothing(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 0, 2000)
	uc := reconciler(store, paidEvent())

	_, err := uc.Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: ""})
	assert.ErrorIs(t, err, domainerrors.ErrMissingSignature)
	_, err = uc.Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "forged"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSignature)

	donation, _ := store.GetDonationBySession(context.Background(), "cs_1")
	assert.Equal(t, entities.PaymentStatusPending, donation.PaymentStatus)
}

func TestReconcileWithoutSecretRefuses(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 0, 2000)
	uc := commands.ReconcilePaymentUseCase{Ledger: store}

	_, err := uc.Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	assert.ErrorIs(t, err, domainerrors.ErrWebhookNotConfigured)
}

func TestReconcilePropagatesLedgerFailure(t *testing.T) {
	uc := commands.ReconcilePaymentUseCase{
		Verifier: stubVerifier{event: paidEvent()},
		Ledger:   failingLedger{},
		Clock:    fixedClock{},
	}
	_, err := uc.Execute(context.Background(), commands.ReconcilePaymentCommand{Signature: "valid"})
	assert.ErrorIs(t, err, errLedgerDown)
}
