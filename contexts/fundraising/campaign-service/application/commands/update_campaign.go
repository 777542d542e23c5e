package commands

import (
	"context"
	"log/slog"
	"strings"

	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/domain/services"
	"funded/contexts/fundraising/campaign-service/ports"
)

// UpdateCampaignCommand is a partial update; nil fields are left unchanged.
type UpdateCampaignCommand struct {
	Actor        application.Actor
	CampaignID   string
	Title        *string
	Story        *string
	Category     *string
	TargetAmount *float64
	Timeline     *string
	ImpactLog    *string
}

type UpdateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (u UpdateCampaignUseCase) Execute(ctx context.Context, cmd UpdateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(u.Logger)
	if !cmd.Actor.Authenticated() {
		return entities.Campaign{}, domainerrors.ErrUnauthorized
	}
	if strings.TrimSpace(cmd.CampaignID) == "" {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}

	campaign, err := u.Campaigns.GetCampaign(ctx, cmd.CampaignID)
	if err != nil {
		return entities.Campaign{}, err
	}
	if !services.CanManage(campaign, cmd.Actor.UserID, cmd.Actor.IsAdmin) {
		logger.Warn("campaign update forbidden",
			"event", "campaign_update_forbidden",
			"module", moduleName,
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"user_id", cmd.Actor.UserID,
		)
		return entities.Campaign{}, domainerrors.ErrForbidden
	}

	if cmd.Title != nil {
		campaign.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.Story != nil {
		campaign.Story = strings.TrimSpace(*cmd.Story)
	}
	if cmd.Category != nil {
		campaign.Category = entities.CampaignCategory(strings.ToLower(strings.TrimSpace(*cmd.Category)))
	}
	if cmd.TargetAmount != nil {
		campaign.TargetAmountCents = entities.CentsFromDollars(*cmd.TargetAmount)
	}
	if cmd.Timeline != nil {
		campaign.Timeline = strings.TrimSpace(*cmd.Timeline)
	}
	if cmd.ImpactLog != nil {
		campaign.ImpactLog = strings.TrimSpace(*cmd.ImpactLog)
	}
	if err := services.ValidateCampaignContent(campaign); err != nil {
		return entities.Campaign{}, err
	}
	campaign.UpdatedAt = now(u.Clock)

	if err := u.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		logger.Error("campaign update failed",
			"event", "campaign_update_failed",
			"module", moduleName,
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"error", err.Error(),
		)
		return entities.Campaign{}, err
	}
	// Status and totals may have moved since the read above.
	stored, err := u.Campaigns.GetCampaign(ctx, campaign.CampaignID)
	if err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign updated",
		"event", "campaign_updated",
		"module", moduleName,
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"user_id", cmd.Actor.UserID,
	)
	return stored, nil
}
