package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/domain/services"
	"funded/contexts/fundraising/campaign-service/ports"
)

const moduleName = "fundraising/campaign-service"

type CreateCampaignCommand struct {
	Actor        application.Actor
	Title        string
	Story        string
	Category     string
	TargetAmount float64
	Timeline     string
	ImpactLog    string
}

type CreateCampaignUseCase struct {
	Campaigns   ports.CampaignRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(u.Logger)
	if !cmd.Actor.Authenticated() {
		return entities.Campaign{}, domainerrors.ErrUnauthorized
	}
	if !cmd.Actor.IsStudent || !cmd.Actor.StudentVerified {
		logger.Warn("campaign create rejected for unverified student",
			"event", "campaign_create_not_verified",
			"module", moduleName,
			"layer", "application",
			"user_id", cmd.Actor.UserID,
		)
		return entities.Campaign{}, domainerrors.ErrStudentNotVerified
	}

	at := now(u.Clock)
	campaignID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}

	campaign := entities.Campaign{
		CampaignID:        campaignID,
		StudentID:         cmd.Actor.UserID,
		Title:             strings.TrimSpace(cmd.Title),
		Story:             strings.TrimSpace(cmd.Story),
		Category:          entities.CampaignCategory(strings.ToLower(strings.TrimSpace(cmd.Category))),
		TargetAmountCents: entities.CentsFromDollars(cmd.TargetAmount),
		Timeline:          strings.TrimSpace(cmd.Timeline),
		ImpactLog:         strings.TrimSpace(cmd.ImpactLog),
		Status:            entities.CampaignStatusActive,
		CreatedAt:         at,
		UpdatedAt:         at,
	}
	if err := services.ValidateCampaignContent(campaign); err != nil {
		return entities.Campaign{}, err
	}

	if err := u.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		logger.Error("campaign create failed",
			"event", "campaign_create_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", cmd.Actor.UserID,
			"error", err.Error(),
		)
		return entities.Campaign{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", moduleName,
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"student_id", campaign.StudentID,
		"category", campaign.Category,
	)
	return campaign, nil
}

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
