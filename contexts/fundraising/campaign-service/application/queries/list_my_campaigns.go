package queries

import (
	"context"
	"log/slog"

	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"
)

type ListMyCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (u ListMyCampaignsUseCase) Execute(ctx context.Context, actor application.Actor) ([]entities.Campaign, error) {
	if !actor.Authenticated() {
		return nil, domainerrors.ErrUnauthorized
	}
	items, err := u.Campaigns.ListCampaignsByStudent(ctx, actor.UserID)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("list my campaigns failed",
			"event", "campaign_list_mine_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", actor.UserID,
			"error", err.Error(),
		)
		return nil, err
	}
	return items, nil
}
