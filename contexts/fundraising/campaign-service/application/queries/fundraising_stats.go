package queries

import (
	"context"

	"funded/contexts/fundraising/campaign-service/ports"
)

type FundraisingStats struct {
	Campaigns ports.CampaignStats
	Donations ports.DonationStats
}

type FundraisingStatsUseCase struct {
	Campaigns ports.CampaignRepository
	Donations ports.DonationRepository
}

func (u FundraisingStatsUseCase) Execute(ctx context.Context) (FundraisingStats, error) {
	campaigns, err := u.Campaigns.CampaignStats(ctx)
	if err != nil {
		return FundraisingStats{}, err
	}
	donations, err := u.Donations.DonationStats(ctx)
	if err != nil {
		return FundraisingStats{}, err
	}
	return FundraisingStats{Campaigns: campaigns, Donations: donations}, nil
}
