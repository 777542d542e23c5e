package application

import (
	"context"

	"funded/contexts/internal-ops/admin-dashboard-service/ports"
)

type PlatformStats struct {
	Users         ports.UserCounts
	Verifications ports.VerificationCounts
	Campaigns     ports.CampaignCounts
	Donations     ports.DonationTotals
}

// GetPlatformStats aggregates read-only counts across contexts. Empty stores
// yield zeros.
func (s Service) GetPlatformStats(ctx context.Context, caller Caller) (PlatformStats, error) {
	if err := caller.authorize(); err != nil {
		return PlatformStats{}, err
	}
	users, verifications, err := s.Accounts.AccountStats(ctx)
	if err != nil {
		ResolveLogger(s.Logger).Error("account stats failed",
			"event", "admin_stats_accounts_failed",
			"module", moduleName,
			"layer", "application",
			"error", err.Error(),
		)
		return PlatformStats{}, err
	}
	campaigns, donations, err := s.Fundraising.FundraisingStats(ctx)
	if err != nil {
		ResolveLogger(s.Logger).Error("fundraising stats failed",
			"event", "admin_stats_fundraising_failed",
			"module", moduleName,
			"layer", "application",
			"error", err.Error(),
		)
		return PlatformStats{}, err
	}
	return PlatformStats{
		Users:         users,
		Verifications: verifications,
		Campaigns:     campaigns,
		Donations:     donations,
	}, nil
}
