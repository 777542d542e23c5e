package commands_test

import (
	"context"
	"sync"
	"testing"

	"funded/contexts/fundraising/campaign-service/adapters/memory"
	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/application/commands"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verifiedStudent = application.Actor{UserID: "student-1", IsStudent: true, StudentVerified: true}

func validCreate(actor application.Actor) commands.CreateCampaignCommand {
	return commands.CreateCampaignCommand{
		Actor:        actor,
		Title:        "Books for engineering",
		Story:        "Second year textbooks",
		Category:     "Books",
		TargetAmount: 450.75,
		Timeline:     "Before September",
	}
}

func TestCreateCampaignRequiresVerifiedStudent(t *testing.T) {
	store := memory.NewStore(nil, nil)
	uc := commands.CreateCampaignUseCase{Campaigns: store, Clock: fixedClock{}, IDGenerator: store}

	_, err := uc.Execute(context.Background(), validCreate(application.Actor{}))
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = uc.Execute(context.Background(), validCreate(application.Actor{UserID: "donor-1"}))
	assert.ErrorIs(t, err, domainerrors.ErrStudentNotVerified)

	_, err = uc.Execute(context.Background(), validCreate(application.Actor{UserID: "student-2", IsStudent: true}))
	assert.ErrorIs(t, err, domainerrors.ErrStudentNotVerified)

	campaign, err := uc.Execute(context.Background(), validCreate(verifiedStudent))
	require.NoError(t, err)
	assert.Equal(t, entities.CategoryBooks, campaign.Category)
	assert.Equal(t, int64(45075), campaign.TargetAmountCents)
	assert.Equal(t, entities.CampaignStatusActive, campaign.Status)
	assert.Zero(t, campaign.RaisedAmountCents)
	assert.Equal(t, fixedNow, campaign.CreatedAt)
}

func TestCreateCampaignValidatesContent(t *testing.T) {
	store := memory.NewStore(nil, nil)
	uc := commands.CreateCampaignUseCase{Campaigns: store, Clock: fixedClock{}, IDGenerator: store}

	cmd := validCreate(verifiedStudent)
	cmd.Category = "vacation"
	_, err := uc.Execute(context.Background(), cmd)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCategory)

	cmd = validCreate(verifiedStudent)
	cmd.TargetAmount = 0
	_, err = uc.Execute(context.Background(), cmd)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCampaignInput)

	cmd = validCreate(verifiedStudent)
	cmd.Timeline = " "
	_, err = uc.Execute(context.Background(), cmd)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCampaignInput)
}

func TestUpdateCampaignOwnerOrAdmin(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{activeCampaign("c1")}, nil)
	uc := commands.UpdateCampaignUseCase{Campaigns: store, Clock: fixedClock{}}
	title := "Updated title"

	_, err := uc.Execute(context.Background(), commands.UpdateCampaignCommand{
		Actor:      application.Actor{UserID: "someone-else"},
		CampaignID: "c1",
		Title:      &title,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	updated, err := uc.Execute(context.Background(), commands.UpdateCampaignCommand{
		Actor:      application.Actor{UserID: "student-1"},
		CampaignID: "c1",
		Title:      &title,
	})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	target := 500.0
	byAdmin, err := uc.Execute(context.Background(), commands.UpdateCampaignCommand{
		Actor:        application.Actor{UserID: "admin-1", IsAdmin: true},
		CampaignID:   "c1",
		TargetAmount: &target,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), byAdmin.TargetAmountCents)
	assert.Equal(t, title, byAdmin.Title)

	_, err = uc.Execute(context.Background(), commands.UpdateCampaignCommand{
		Actor:      application.Actor{UserID: "student-1"},
		CampaignID: "missing",
		Title:      &title,
	})
	assert.ErrorIs(t, err, domainerrors.ErrCampaignNotFound)
}

func TestChangeCampaignStatus(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{activeCampaign("c1"), activeCampaign("c2")}, nil)
	uc := commands.ChangeCampaignStatusUseCase{Campaigns: store, Clock: fixedClock{}}
	admin := application.Actor{UserID: "admin-1", IsAdmin: true}

	_, err := uc.Cancel(context.Background(), commands.CancelCampaignCommand{Actor: application.Actor{UserID: "x"}, CampaignID: "c1"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	cancelled, err := uc.Cancel(context.Background(), commands.CancelCampaignCommand{Actor: application.Actor{UserID: "student-1"}, CampaignID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, entities.CampaignStatusCancelled, cancelled.Status)

	_, err = uc.SetStatus(context.Background(), commands.SetCampaignStatusCommand{Actor: application.Actor{UserID: "student-1"}, CampaignID: "c2", Status: "suspended"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = uc.SetStatus(context.Background(), commands.SetCampaignStatusCommand{Actor: admin, CampaignID: "c2", Status: "completed"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCampaignStatus)

	suspended, err := uc.SetStatus(context.Background(), commands.SetCampaignStatusCommand{Actor: admin, CampaignID: "c2", Status: "Suspended", Reason: "document review"})
	require.NoError(t, err)
	assert.Equal(t, entities.CampaignStatusSuspended, suspended.Status)
	assert.Equal(t, "document review", suspended.StatusReason)

	stored, _ := store.GetCampaign(context.Background(), "c2")
	assert.False(t, stored.AcceptsDonations())
}

// paymentDuringRead confirms donation cs_1 right after the first campaign read,
// between a use case's read and its write.
type paymentDuringRead struct {
	*memory.Store
	t    *testing.T
	once sync.Once
}

func (p *paymentDuringRead) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	campaign, err := p.Store.GetCampaign(ctx, campaignID)
	p.once.Do(func() {
		transition, markErr := p.Store.MarkDonationPaid(ctx, "cs_1", "pi_1", fixedNow)
		require.NoError(p.t, markErr)
		require.True(p.t, transition.CampaignCompleted)
	})
	return campaign, err
}

func TestUpdateCampaignKeepsCompletionFromConcurrentPayment(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 9000, 2000)
	uc := commands.UpdateCampaignUseCase{
		Campaigns: &paymentDuringRead{Store: store, t: t},
		Clock:     fixedClock{},
	}
	title := "Final semester tuition"

	updated, err := uc.Execute(context.Background(), commands.UpdateCampaignCommand{
		Actor:      application.Actor{UserID: "student-1"},
		CampaignID: "c1",
		Title:      &title,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.CampaignStatusCompleted, updated.Status)

	stored, _ := store.GetCampaign(context.Background(), "c1")
	assert.Equal(t, title, stored.Title)
	assert.Equal(t, int64(11000), stored.RaisedAmountCents)
	assert.Equal(t, entities.CampaignStatusCompleted, stored.Status)
	assert.False(t, stored.AcceptsDonations())
}

func TestCancelLosesToConcurrentCompletion(t *testing.T) {
	store := storeWithPendingDonation(t, 10000, 9000, 2000)
	uc := commands.ChangeCampaignStatusUseCase{
		Campaigns: &paymentDuringRead{Store: store, t: t},
		Clock:     fixedClock{},
	}

	_, err := uc.Cancel(context.Background(), commands.CancelCampaignCommand{
		Actor:      application.Actor{UserID: "student-1"},
		CampaignID: "c1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrCampaignStatusConflict)

	stored, _ := store.GetCampaign(context.Background(), "c1")
	assert.Equal(t, entities.CampaignStatusCompleted, stored.Status)
	assert.Empty(t, stored.StatusReason)
}
