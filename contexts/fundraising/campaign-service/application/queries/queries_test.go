package queries_test

import (
	"context"
	"testing"
	"time"

	"funded/contexts/fundraising/campaign-service/adapters/memory"
	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/application/queries"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, time.May, 4, 8, 0, 0, 0, time.UTC)

func campaigns(count int) []entities.Campaign {
	items := make([]entities.Campaign, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, entities.Campaign{
			CampaignID:        "c" + string(rune('a'+i)),
			StudentID:         "student-1",
			Title:             "Campaign",
			Story:             "Story",
			Category:          entities.CategoryTuition,
			TargetAmountCents: 10000,
			Timeline:          "soon",
			Status:            entities.CampaignStatusActive,
			CreatedAt:         base.Add(time.Duration(i) * time.Minute),
		})
	}
	return items
}

func TestListCampaignsPagination(t *testing.T) {
	store := memory.NewStore(campaigns(30), nil)
	uc := queries.ListCampaignsUseCase{Campaigns: store}

	first, err := uc.Execute(context.Background(), queries.ListCampaignsQuery{})
	require.NoError(t, err)
	assert.Len(t, first.Items, 12)
	assert.Equal(t, queries.Pagination{Page: 1, Limit: 12, Total: 30, TotalPages: 3}, first.Pagination)

	last, err := uc.Execute(context.Background(), queries.ListCampaignsQuery{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Items, 6)

	capped, err := uc.Execute(context.Background(), queries.ListCampaignsQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, capped.Pagination.Limit)
	assert.Len(t, capped.Items, 30)

	_, err = uc.Execute(context.Background(), queries.ListCampaignsQuery{Category: "nope"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCategory)
}

func TestListAdminCampaignsRequiresAdmin(t *testing.T) {
	seed := campaigns(3)
	seed[0].Status = entities.CampaignStatusSuspended
	store := memory.NewStore(seed, nil)
	uc := queries.ListCampaignsUseCase{Campaigns: store}

	_, err := uc.ExecuteAdmin(context.Background(), queries.ListAdminCampaignsQuery{})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	_, err = uc.ExecuteAdmin(context.Background(), queries.ListAdminCampaignsQuery{Actor: application.Actor{UserID: "u1"}})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	admin := application.Actor{UserID: "admin-1", IsAdmin: true}
	result, err := uc.ExecuteAdmin(context.Background(), queries.ListAdminCampaignsQuery{Actor: admin, Status: "suspended"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, seed[0].CampaignID, result.Items[0].CampaignID)

	_, err = uc.ExecuteAdmin(context.Background(), queries.ListAdminCampaignsQuery{Actor: admin, Status: "archived"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidListFilter)
}

func TestGetCampaignDonorWallShowsPaidOnly(t *testing.T) {
	store := memory.NewStore(campaigns(1), nil)
	ctx := context.Background()
	for i, anonymous := range []bool{false, true, false} {
		session := "cs_" + string(rune('0'+i))
		require.NoError(t, store.CreatePendingDonation(ctx, entities.Donation{
			DonationID:      "d" + session,
			CampaignID:      "ca",
			DonorID:         "donor-1",
			DonorName:       "Lin",
			AmountCents:     int64(1000 * (i + 1)),
			Anonymous:       anonymous,
			StripeSessionID: session,
			PaymentStatus:   entities.PaymentStatusPending,
			IdempotencyKey:  "k" + session,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		}))
	}
	_, _ = store.MarkDonationPaid(ctx, "cs_0", "pi_0", base)
	_, _ = store.MarkDonationPaid(ctx, "cs_1", "pi_1", base)

	result, err := queries.GetCampaignUseCase{Campaigns: store, Donations: store}.Execute(ctx, queries.GetCampaignQuery{CampaignID: "ca"})
	require.NoError(t, err)
	require.Len(t, result.DonorWall, 2)
	assert.Equal(t, entities.AnonymousDonorName, result.DonorWall[0].PublicName())
	assert.Equal(t, "Lin", result.DonorWall[1].PublicName())
	assert.Equal(t, int64(3000), result.Campaign.RaisedAmountCents)

	mine, err := queries.ListMyDonationsUseCase{Donations: store}.Execute(ctx, application.Actor{UserID: "donor-1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, "Campaign", mine[0].CampaignTitle)

	status, err := queries.GetDonationStatusUseCase{Donations: store}.Execute(ctx, "cs_2")
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusPending, status.PaymentStatus)

	_, err = queries.GetDonationStatusUseCase{Donations: store}.Execute(ctx, "cs_missing")
	assert.ErrorIs(t, err, domainerrors.ErrDonationNotFound)
}

func TestFundraisingStatsOnEmptyStore(t *testing.T) {
	store := memory.NewStore(nil, nil)
	stats, err := queries.FundraisingStatsUseCase{Campaigns: store, Donations: store}.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Campaigns.Total)
	assert.Zero(t, stats.Donations.TotalAmountCents)
	assert.Zero(t, stats.Donations.TotalCount)
}
