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

type CancelCampaignCommand struct {
	Actor      application.Actor
	CampaignID string
}

type SetCampaignStatusCommand struct {
	Actor      application.Actor
	CampaignID string
	Status     string
	Reason     string
}

type ChangeCampaignStatusUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Cancel is the owner-facing delete: the row stays, status becomes cancelled.
func (u ChangeCampaignStatusUseCase) Cancel(ctx context.Context, cmd CancelCampaignCommand) (entities.Campaign, error) {
	if !cmd.Actor.Authenticated() {
		return entities.Campaign{}, domainerrors.ErrUnauthorized
	}
	campaign, err := u.Campaigns.GetCampaign(ctx, cmd.CampaignID)
	if err != nil {
		return entities.Campaign{}, err
	}
	if !services.CanManage(campaign, cmd.Actor.UserID, cmd.Actor.IsAdmin) {
		return entities.Campaign{}, domainerrors.ErrForbidden
	}
	return u.apply(ctx, campaign, entities.CampaignStatusCancelled, "", cmd.Actor.UserID)
}

// SetStatus is the moderation path and requires an administrator.
func (u ChangeCampaignStatusUseCase) SetStatus(ctx context.Context, cmd SetCampaignStatusCommand) (entities.Campaign, error) {
	if !cmd.Actor.Authenticated() {
		return entities.Campaign{}, domainerrors.ErrUnauthorized
	}
	if !cmd.Actor.IsAdmin {
		return entities.Campaign{}, domainerrors.ErrForbidden
	}
	status := entities.CampaignStatus(strings.ToLower(strings.TrimSpace(cmd.Status)))
	if !status.Moderatable() {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignStatus
	}
	campaign, err := u.Campaigns.GetCampaign(ctx, cmd.CampaignID)
	if err != nil {
		return entities.Campaign{}, err
	}
	return u.apply(ctx, campaign, status, strings.TrimSpace(cmd.Reason), cmd.Actor.UserID)
}

func (u ChangeCampaignStatusUseCase) apply(
	ctx context.Context,
	campaign entities.Campaign,
	status entities.CampaignStatus,
	reason string,
	actorID string,
) (entities.Campaign, error) {
	logger := application.ResolveLogger(u.Logger)
	previous := campaign.Status

	updated, err := u.Campaigns.UpdateCampaignStatus(ctx, campaign.CampaignID, previous, status, reason, now(u.Clock))
	if err != nil {
		logger.Error("campaign status change failed",
			"event", "campaign_status_change_failed",
			"module", moduleName,
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"error", err.Error(),
		)
		return entities.Campaign{}, err
	}

	logger.Info("campaign status changed",
		"event", "campaign_status_changed",
		"module", moduleName,
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"from", previous,
		"to", status,
		"actor_id", actorID,
	)
	return updated, nil
}
