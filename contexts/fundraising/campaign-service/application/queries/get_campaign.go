package queries

import (
	"context"
	"log/slog"
	"strings"

	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"
)

const donorWallSize = 50

type GetCampaignQuery struct {
	CampaignID string
}

type GetCampaignResult struct {
	Campaign  entities.Campaign
	DonorWall []entities.Donation
}

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Donations ports.DonationRepository
	Logger    *slog.Logger
}

func (u GetCampaignUseCase) Execute(ctx context.Context, query GetCampaignQuery) (GetCampaignResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(query.CampaignID) == "" {
		return GetCampaignResult{}, domainerrors.ErrCampaignNotFound
	}
	campaign, err := u.Campaigns.GetCampaign(ctx, query.CampaignID)
	if err != nil {
		return GetCampaignResult{}, err
	}
	donors, err := u.Donations.ListPaidDonationsByCampaign(ctx, campaign.CampaignID, donorWallSize)
	if err != nil {
		logger.Error("donor wall load failed",
			"event", "campaign_donor_wall_failed",
			"module", moduleName,
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"error", err.Error(),
		)
		return GetCampaignResult{}, err
	}
	return GetCampaignResult{Campaign: campaign, DonorWall: donors}, nil
}
