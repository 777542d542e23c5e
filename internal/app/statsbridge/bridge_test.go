package statsbridge

import (
	"context"
	"testing"
	"time"

	accountservice "funded/contexts/identity-access/account-service"
	"funded/contexts/identity-access/account-service/domain/entities"
	campaignservice "funded/contexts/fundraising/campaign-service"
	campaignentities "funded/contexts/fundraising/campaign-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsBridgeCountsLiveUsers(t *testing.T) {
	now := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	deletedAt := now
	accounts := accountservice.NewInMemoryModule([]entities.User{
		{UserID: "u1", Email: "a@example.com", Role: entities.RoleAdmin, CreatedAt: now, UpdatedAt: now},
		{UserID: "u2", Email: "b@example.com", Role: entities.RoleDonor, CreatedAt: now, UpdatedAt: now},
		{UserID: "u3", Email: "c@example.com", Role: entities.RoleStudent, CreatedAt: now, UpdatedAt: now,
			Student: &entities.StudentProfile{Country: "Kenya", VerificationStatus: entities.VerificationPending, CreatedAt: now, UpdatedAt: now}},
		{UserID: "u4", Email: "d@example.com", Role: entities.RoleDonor, Deleted: true, DeletedAt: &deletedAt, CreatedAt: now, UpdatedAt: now},
	}, "", nil)

	users, verifications, err := Accounts{Stats: accounts.Stats}.AccountStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, users.Total)
	assert.Equal(t, 1, users.Students)
	assert.Equal(t, 1, users.Donors)
	assert.Equal(t, 1, users.Admins)
	assert.Equal(t, 1, verifications.Pending)
}

func TestFundraisingBridgeEmptyIsZero(t *testing.T) {
	campaigns := campaignservice.NewInMemoryModule([]campaignentities.Campaign{}, nil, nil)

	counts, totals, err := Fundraising{Stats: campaigns.Stats}.FundraisingStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Total)
	assert.Zero(t, totals.TotalAmountCents)
	assert.Zero(t, totals.TotalCount)
}
