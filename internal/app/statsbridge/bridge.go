// Package statsbridge exposes the account and fundraising read models to the
// admin dashboard through its stats ports, so the admin context never imports
// another context's repositories.
package statsbridge

import (
	"context"

	accountqueries "funded/contexts/identity-access/account-service/application/queries"
	campaignqueries "funded/contexts/fundraising/campaign-service/application/queries"
	adminports "funded/contexts/internal-ops/admin-dashboard-service/ports"
)

type Accounts struct {
	Stats accountqueries.UserStatsUseCase
}

func (a Accounts) AccountStats(ctx context.Context) (adminports.UserCounts, adminports.VerificationCounts, error) {
	stats, err := a.Stats.Execute(ctx)
	if err != nil {
		return adminports.UserCounts{}, adminports.VerificationCounts{}, err
	}
	return adminports.UserCounts{
			Total:    stats.Total,
			Students: stats.Students,
			Donors:   stats.Donors,
			Admins:   stats.Admins,
		}, adminports.VerificationCounts{
			Pending:  stats.Pending,
			Verified: stats.Verified,
			Rejected: stats.Rejected,
		}, nil
}

type Fundraising struct {
	Stats campaignqueries.FundraisingStatsUseCase
}

func (f Fundraising) FundraisingStats(ctx context.Context) (adminports.CampaignCounts, adminports.DonationTotals, error) {
	stats, err := f.Stats.Execute(ctx)
	if err != nil {
		return adminports.CampaignCounts{}, adminports.DonationTotals{}, err
	}
	return adminports.CampaignCounts{
			Total:     stats.Campaigns.Total,
			Active:    stats.Campaigns.Active,
			Completed: stats.Campaigns.Completed,
		}, adminports.DonationTotals{
			TotalAmountCents: stats.Donations.TotalAmountCents,
			TotalCount:       stats.Donations.TotalCount,
		}, nil
}
