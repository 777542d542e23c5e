package services

import (
	"strings"

	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
)

// ValidateCampaignContent checks the fields every stored campaign must carry.
func ValidateCampaignContent(c entities.Campaign) error {
	if strings.TrimSpace(c.Title) == "" ||
		strings.TrimSpace(c.Story) == "" ||
		strings.TrimSpace(c.Timeline) == "" ||
		c.TargetAmountCents <= 0 {
		return domainerrors.ErrInvalidCampaignInput
	}
	if !c.Category.Valid() {
		return domainerrors.ErrInvalidCategory
	}
	return nil
}

// CanManage reports whether the actor may edit or cancel the campaign.
func CanManage(c entities.Campaign, actorID string, actorIsAdmin bool) bool {
	return actorIsAdmin || c.OwnedBy(actorID)
}
