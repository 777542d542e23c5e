package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/application/commands"
	"funded/contexts/fundraising/campaign-service/application/queries"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	httptransport "funded/contexts/fundraising/campaign-service/transport/http"
)

type Handler struct {
	CreateCampaign    commands.CreateCampaignUseCase
	UpdateCampaign    commands.UpdateCampaignUseCase
	ChangeStatus      commands.ChangeCampaignStatusUseCase
	StartCheckout     commands.StartCheckoutUseCase
	ReconcilePayment  commands.ReconcilePaymentUseCase
	ListCampaigns     queries.ListCampaignsUseCase
	GetCampaign       queries.GetCampaignUseCase
	ListMyCampaigns   queries.ListMyCampaignsUseCase
	ListMyDonations   queries.ListMyDonationsUseCase
	GetDonationStatus queries.GetDonationStatusUseCase
	Logger            *slog.Logger
}

// ListCampaignsHandler godoc
// @Summary Browse campaigns
// @Description Lists active campaigns, newest first, with offset pagination.
// @Tags campaigns
// @Produce json
// @Param category query string false "tuition, books, laptop, housing, travel or emergency"
// @Param search query string false "Case-insensitive match on title or story"
// @Param country query string false "Student country"
// @Param field_of_study query string false "Student field of study"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 12, max 50)"
// @Success 200 {object} httptransport.ListCampaignsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/campaigns [get]
func (h Handler) ListCampaignsHandler(ctx context.Context, req httptransport.ListCampaignsRequest) (httptransport.ListCampaignsResponse, error) {
	result, err := h.ListCampaigns.Execute(ctx, queries.ListCampaignsQuery{
		Category:         req.Category,
		Search:           req.Search,
		StudentIDs:       req.StudentIDs,
		RestrictStudents: req.RestrictStudents,
		Page:             req.Page,
		Limit:            req.Limit,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	return mapCampaignPage(result), nil
}

// GetCampaignHandler godoc
// @Summary Get campaign
// @Description Returns one campaign with its donor wall (latest paid donations).
// @Tags campaigns
// @Produce json
// @Param campaign_id path string true "Campaign id"
// @Success 200 {object} httptransport.GetCampaignResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/campaigns/{campaign_id} [get]
func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	result, err := h.GetCampaign.Execute(ctx, queries.GetCampaignQuery{CampaignID: campaignID})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	donors := make([]httptransport.DonorWallEntryDTO, 0, len(result.DonorWall))
	for _, donation := range result.DonorWall {
		donors = append(donors, httptransport.DonorWallEntryDTO{
			DonorName: donation.PublicName(),
			Amount:    entities.DollarsFromCents(donation.AmountCents),
			CreatedAt: formatTime(donation.CreatedAt),
		})
	}
	return httptransport.GetCampaignResponse{
		Campaign: MapCampaign(result.Campaign),
		Donors:   donors,
	}, nil
}

// CreateCampaignHandler godoc
// @Summary Create campaign
// @Description Verified students open a new fundraising campaign.
// @Tags campaigns
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param request body httptransport.CreateCampaignRequest true "Campaign payload"
// @Success 201 {object} httptransport.CampaignDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/campaigns [post]
func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	actor application.Actor,
	req httptransport.CreateCampaignRequest,
) (httptransport.CampaignDTO, error) {
	campaign, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		Actor:        actor,
		Title:        req.Title,
		Story:        req.Story,
		Category:     req.Category,
		TargetAmount: req.TargetAmount,
		Timeline:     req.Timeline,
		ImpactLog:    req.ImpactLog,
	})
	if err != nil {
		return httptransport.CampaignDTO{}, err
	}
	return MapCampaign(campaign), nil
}

// UpdateCampaignHandler godoc
// @Summary Update campaign
// @Description Partial update by the owning student or an administrator.
// @Tags campaigns
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param campaign_id path string true "Campaign id"
// @Param request body httptransport.UpdateCampaignRequest true "Fields to change"
// @Success 200 {object} httptransport.CampaignDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/campaigns/{campaign_id} [put]
func (h Handler) UpdateCampaignHandler(
	ctx context.Context,
	actor application.Actor,
	campaignID string,
	req httptransport.UpdateCampaignRequest,
) (httptransport.CampaignDTO, error) {
	campaign, err := h.UpdateCampaign.Execute(ctx, commands.UpdateCampaignCommand{
		Actor:        actor,
		CampaignID:   campaignID,
		Title:        req.Title,
		Story:        req.Story,
		Category:     req.Category,
		TargetAmount: req.TargetAmount,
		Timeline:     req.Timeline,
		ImpactLog:    req.ImpactLog,
	})
	if err != nil {
		return httptransport.CampaignDTO{}, err
	}
	return MapCampaign(campaign), nil
}

// CancelCampaignHandler godoc
// @Summary Cancel campaign
// @Description Marks the campaign cancelled. The record is kept.
// @Tags campaigns
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param campaign_id path string true "Campaign id"
// @Success 200 {object} httptransport.CampaignDTO
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/campaigns/{campaign_id} [delete]
func (h Handler) CancelCampaignHandler(ctx context.Context, actor application.Actor, campaignID string) (httptransport.CampaignDTO, error) {
	campaign, err := h.ChangeStatus.Cancel(ctx, commands.CancelCampaignCommand{
		Actor:      actor,
		CampaignID: campaignID,
	})
	if err != nil {
		return httptransport.CampaignDTO{}, err
	}
	return MapCampaign(campaign), nil
}

// ListMyCampaignsHandler godoc
// @Summary List my campaigns
// @Tags campaigns
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.ListMyCampaignsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/campaigns/my [get]
func (h Handler) ListMyCampaignsHandler(ctx context.Context, actor application.Actor) (httptransport.ListMyCampaignsResponse, error) {
	items, err := h.ListMyCampaigns.Execute(ctx, actor)
	if err != nil {
		return httptransport.ListMyCampaignsResponse{}, err
	}
	return httptransport.ListMyCampaignsResponse{Items: mapCampaigns(items)}, nil
}

// ListAdminCampaignsHandler godoc
// @Summary List campaigns for moderation
// @Tags admin
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Param status query string false "Campaign status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (default 50, max 50)"
// @Success 200 {object} httptransport.ListCampaignsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/admin/campaigns [get]
func (h Handler) ListAdminCampaignsHandler(
	ctx context.Context,
	actor application.Actor,
	status string,
	page int,
	limit int,
) (httptransport.ListCampaignsResponse, error) {
	result, err := h.ListCampaigns.ExecuteAdmin(ctx, queries.ListAdminCampaignsQuery{
		Actor:  actor,
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	return mapCampaignPage(result), nil
}

// SetCampaignStatusHandler godoc
// @Summary Moderate campaign status
// @Description Sets active, suspended or cancelled with an optional reason.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Param campaign_id path string true "Campaign id"
// @Param request body httptransport.SetCampaignStatusRequest true "New status"
// @Success 200 {object} httptransport.CampaignDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/admin/campaigns/{campaign_id}/status [put]
func (h Handler) SetCampaignStatusHandler(
	ctx context.Context,
	actor application.Actor,
	campaignID string,
	req httptransport.SetCampaignStatusRequest,
) (httptransport.CampaignDTO, error) {
	campaign, err := h.ChangeStatus.SetStatus(ctx, commands.SetCampaignStatusCommand{
		Actor:      actor,
		CampaignID: campaignID,
		Status:     req.Status,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.CampaignDTO{}, err
	}
	return MapCampaign(campaign), nil
}

// StartCheckoutHandler godoc
// @Summary Start donation checkout
// @Description Creates a hosted checkout session and a pending donation.
// @Description Repeating a request with the same idempotency key returns the original session.
// @Tags donations
// @Accept json
// @Produce json
// @Param X-User-Id header string false "Authenticated user id"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body httptransport.StartCheckoutRequest true "Checkout payload"
// @Success 200 {object} httptransport.StartCheckoutResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 415 {object} httptransport.ErrorResponse
// @Failure 429 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/donations/checkout [post]
func (h Handler) StartCheckoutHandler(
	ctx context.Context,
	actor application.Actor,
	idempotencyKey string,
	req httptransport.StartCheckoutRequest,
) (httptransport.StartCheckoutResponse, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		key = req.IdempotencyKey
	}
	result, err := h.StartCheckout.Execute(ctx, commands.StartCheckoutCommand{
		Actor:          actor,
		CampaignID:     req.CampaignID,
		Amount:         req.Amount,
		DonorName:      req.DonorName,
		DonorEmail:     req.DonorEmail,
		Anonymous:      req.Anonymous,
		OriginURL:      req.OriginURL,
		IdempotencyKey: key,
	})
	if err != nil {
		return httptransport.StartCheckoutResponse{}, err
	}
	return httptransport.StartCheckoutResponse{
		URL:       result.Donation.CheckoutURL,
		SessionID: result.Donation.StripeSessionID,
		Replayed:  result.Replayed,
	}, nil
}

// ListMyDonationsHandler godoc
// @Summary List my donations
// @Tags donations
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.ListMyDonationsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/donations/my [get]
func (h Handler) ListMyDonationsHandler(ctx context.Context, actor application.Actor) (httptransport.ListMyDonationsResponse, error) {
	items, err := h.ListMyDonations.Execute(ctx, actor)
	if err != nil {
		return httptransport.ListMyDonationsResponse{}, err
	}
	result := make([]httptransport.DonationDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapDonation(item))
	}
	return httptransport.ListMyDonationsResponse{Items: result}, nil
}

// GetDonationStatusHandler godoc
// @Summary Get donation status
// @Description Polled by the checkout success page until the webhook settles the donation.
// @Tags donations
// @Produce json
// @Param session_id path string true "Checkout session id"
// @Success 200 {object} httptransport.DonationStatusResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/donations/status/{session_id} [get]
func (h Handler) GetDonationStatusHandler(ctx context.Context, sessionID string) (httptransport.DonationStatusResponse, error) {
	donation, err := h.GetDonationStatus.Execute(ctx, sessionID)
	if err != nil {
		return httptransport.DonationStatusResponse{}, err
	}
	return httptransport.DonationStatusResponse{
		SessionID:     donation.StripeSessionID,
		CampaignID:    donation.CampaignID,
		Amount:        entities.DollarsFromCents(donation.AmountCents),
		PaymentStatus: string(donation.PaymentStatus),
		DonorName:     donation.PublicName(),
		CreatedAt:     formatTime(donation.CreatedAt),
	}, nil
}

// StripeWebhookHandler godoc
// @Summary Payment provider webhook
// @Description Verifies the Stripe-Signature header and reconciles the donation ledger.
// @Description Duplicate deliveries are acknowledged without effect.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Provider signature"
// @Success 200 {object} httptransport.WebhookResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 415 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/webhook/stripe [post]
func (h Handler) StripeWebhookHandler(ctx context.Context, payload []byte, signature string) (httptransport.WebhookResponse, commands.ReconcilePaymentResult, error) {
	result, err := h.ReconcilePayment.Execute(ctx, commands.ReconcilePaymentCommand{
		Payload:   payload,
		Signature: signature,
	})
	if err != nil {
		return httptransport.WebhookResponse{}, commands.ReconcilePaymentResult{}, err
	}
	return httptransport.WebhookResponse{
		Received:  true,
		EventType: result.EventType,
		Outcome:   string(result.Outcome),
	}, result, nil
}

// MapCampaign renders a campaign without student details; callers that know
// the student attach them afterwards.
func MapCampaign(campaign entities.Campaign) httptransport.CampaignDTO {
	return httptransport.CampaignDTO{
		CampaignID:   campaign.CampaignID,
		StudentID:    campaign.StudentID,
		Title:        campaign.Title,
		Story:        campaign.Story,
		Category:     string(campaign.Category),
		TargetAmount: entities.DollarsFromCents(campaign.TargetAmountCents),
		RaisedAmount: entities.DollarsFromCents(campaign.RaisedAmountCents),
		DonorCount:   campaign.DonorCount,
		Timeline:     campaign.Timeline,
		ImpactLog:    campaign.ImpactLog,
		Status:       string(campaign.Status),
		StatusReason: campaign.StatusReason,
		CreatedAt:    formatTime(campaign.CreatedAt),
		UpdatedAt:    formatTime(campaign.UpdatedAt),
	}
}

func mapCampaigns(items []entities.Campaign) []httptransport.CampaignDTO {
	result := make([]httptransport.CampaignDTO, 0, len(items))
	for _, item := range items {
		result = append(result, MapCampaign(item))
	}
	return result
}

func mapCampaignPage(result queries.ListCampaignsResult) httptransport.ListCampaignsResponse {
	return httptransport.ListCampaignsResponse{
		Items: mapCampaigns(result.Items),
		Pagination: httptransport.PaginationDTO{
			Page:       result.Pagination.Page,
			Limit:      result.Pagination.Limit,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
		},
	}
}

func mapDonation(donation entities.Donation) httptransport.DonationDTO {
	return httptransport.DonationDTO{
		DonationID:    donation.DonationID,
		CampaignID:    donation.CampaignID,
		CampaignTitle: donation.CampaignTitle,
		DonorName:     donation.PublicName(),
		Amount:        entities.DollarsFromCents(donation.AmountCents),
		Currency:      donation.Currency,
		Anonymous:     donation.Anonymous,
		PaymentStatus: string(donation.PaymentStatus),
		CreatedAt:     formatTime(donation.CreatedAt),
	}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
