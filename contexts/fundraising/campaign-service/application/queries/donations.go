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

type ListMyDonationsUseCase struct {
	Donations ports.DonationRepository
	Logger    *slog.Logger
}

// Execute returns the caller's settled donations, newest first.
func (u ListMyDonationsUseCase) Execute(ctx context.Context, actor application.Actor) ([]entities.Donation, error) {
	if !actor.Authenticated() {
		return nil, domainerrors.ErrUnauthorized
	}
	items, err := u.Donations.ListPaidDonationsByDonor(ctx, actor.UserID)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("list my donations failed",
			"event", "donation_list_mine_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", actor.UserID,
			"error", err.Error(),
		)
		return nil, err
	}
	return items, nil
}

type GetDonationStatusUseCase struct {
	Donations ports.DonationRepository
	Logger    *slog.Logger
}

func (u GetDonationStatusUseCase) Execute(ctx context.Context, sessionID string) (entities.Donation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return entities.Donation{}, domainerrors.ErrDonationNotFound
	}
	return u.Donations.GetDonationBySession(ctx, strings.TrimSpace(sessionID))
}
