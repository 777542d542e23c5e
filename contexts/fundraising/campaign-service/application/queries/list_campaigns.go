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

const moduleName = "fundraising/campaign-service"

const (
	defaultPublicPageSize = 12
	defaultAdminPageSize  = 50
	maxPageSize           = 50
)

type ListCampaignsQuery struct {
	Category string
	Search   string
	// StudentIDs is applied only when RestrictStudents is set, typically after
	// resolving country or field-of-study filters against student profiles.
	StudentIDs       []string
	RestrictStudents bool
	Page             int
	Limit            int
}

type ListAdminCampaignsQuery struct {
	Actor  application.Actor
	Status string
	Page   int
	Limit  int
}

type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

type ListCampaignsResult struct {
	Items      []entities.Campaign
	Pagination Pagination
}

type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

// Execute lists donatable campaigns for the public browse page.
func (u ListCampaignsUseCase) Execute(ctx context.Context, query ListCampaignsQuery) (ListCampaignsResult, error) {
	category := entities.CampaignCategory(strings.ToLower(strings.TrimSpace(query.Category)))
	if category != "" && !category.Valid() {
		return ListCampaignsResult{}, domainerrors.ErrInvalidCategory
	}
	page, limit := normalizePage(query.Page, query.Limit, defaultPublicPageSize)
	return u.list(ctx, ports.CampaignListFilter{
		Status:           entities.CampaignStatusActive,
		Category:         category,
		Search:           strings.TrimSpace(query.Search),
		StudentIDs:       query.StudentIDs,
		RestrictStudents: query.RestrictStudents,
		Offset:           (page - 1) * limit,
		Limit:            limit,
	}, page, limit)
}

// ExecuteAdmin lists campaigns of any status for moderation.
func (u ListCampaignsUseCase) ExecuteAdmin(ctx context.Context, query ListAdminCampaignsQuery) (ListCampaignsResult, error) {
	if !query.Actor.Authenticated() {
		return ListCampaignsResult{}, domainerrors.ErrUnauthorized
	}
	if !query.Actor.IsAdmin {
		return ListCampaignsResult{}, domainerrors.ErrForbidden
	}
	status := entities.CampaignStatus(strings.ToLower(strings.TrimSpace(query.Status)))
	if status != "" && !status.Valid() {
		return ListCampaignsResult{}, domainerrors.ErrInvalidListFilter
	}
	page, limit := normalizePage(query.Page, query.Limit, defaultAdminPageSize)
	return u.list(ctx, ports.CampaignListFilter{
		Status: status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	}, page, limit)
}

func (u ListCampaignsUseCase) list(ctx context.Context, filter ports.CampaignListFilter, page int, limit int) (ListCampaignsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	items, total, err := u.Campaigns.ListCampaigns(ctx, filter)
	if err != nil {
		logger.Error("list campaigns failed",
			"event", "campaign_list_failed",
			"module", moduleName,
			"layer", "application",
			"error", err.Error(),
		)
		return ListCampaignsResult{}, err
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return ListCampaignsResult{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func normalizePage(page int, limit int, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
