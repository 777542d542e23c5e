package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	campaignerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	campaignhttp "funded/contexts/fundraising/campaign-service/transport/http"
	"funded/contexts/identity-access/account-service/domain/entities"
)

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, okPage := queryInt(r, "page")
	limit, okLimit := queryInt(r, "limit")
	if !okPage || !okLimit {
		writeError(w, http.StatusBadRequest, "invalid_pagination", "page and limit must be integers")
		return
	}
	req := campaignhttp.ListCampaignsRequest{
		Category: query.Get("category"),
		Search:   query.Get("search"),
		Page:     page,
		Limit:    limit,
	}

	country := strings.TrimSpace(query.Get("country"))
	fieldOfStudy := strings.TrimSpace(query.Get("field_of_study"))
	if country != "" || fieldOfStudy != "" {
		ids, err := s.accounts.Directory.FindStudentIDs(r.Context(), country, fieldOfStudy)
		if err != nil {
			s.writeAccountDomainError(w, err)
			return
		}
		req.StudentIDs = ids
		req.RestrictStudents = true
	}

	resp, err := s.campaigns.Handler.ListCampaignsHandler(r.Context(), req)
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	s.attachStudents(r.Context(), resp.Items)
	writePage(w, resp.Items, resp.Pagination)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	items := []campaignhttp.CampaignDTO{resp.Campaign}
	s.attachStudents(r.Context(), items)
	resp.Campaign = items[0]
	writeSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req campaignhttp.CreateCampaignRequest
	if err := decodeJSON(w, r, defaultBodyLimit, false, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	resp, err := s.campaigns.Handler.CreateCampaignHandler(r.Context(), campaignActor(actor), req)
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	writeSuccessMessage(w, http.StatusCreated, resp, "Campaign created")
}

func (s *Server) handleListMyCampaigns(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.campaigns.Handler.ListMyCampaignsHandler(r.Context(), campaignActor(actor))
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp.Items)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req campaignhttp.UpdateCampaignRequest
	if err := decodeJSON(w, r, defaultBodyLimit, false, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	resp, err := s.campaigns.Handler.UpdateCampaignHandler(r.Context(), campaignActor(actor), r.PathValue("campaign_id"), req)
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	writeSuccessMessage(w, http.StatusOK, resp, "Campaign updated")
}

func (s *Server) handleCancelCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.campaigns.Handler.CancelCampaignHandler(r.Context(), campaignActor(actor), r.PathValue("campaign_id"))
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	writeSuccessMessage(w, http.StatusOK, resp, "Campaign cancelled")
}

func (s *Server) handleAdminListCampaigns(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	page, okPage := queryInt(r, "page")
	limit, okLimit := queryInt(r, "limit")
	if !okPage || !okLimit {
		writeError(w, http.StatusBadRequest, "invalid_pagination", "page and limit must be integers")
		return
	}
	resp, err := s.campaigns.Handler.ListAdminCampaignsHandler(r.Context(), campaignActor(actor), r.URL.Query().Get("status"), page, limit)
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	s.attachStudents(r.Context(), resp.Items)
	writePage(w, resp.Items, resp.Pagination)
}

func (s *Server) handleAdminSetCampaignStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req campaignhttp.SetCampaignStatusRequest
	if err := decodeJSON(w, r, defaultBodyLimit, false, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	campaignID := r.PathValue("campaign_id")
	resp, err := s.campaigns.Handler.SetCampaignStatusHandler(r.Context(), campaignActor(actor), campaignID, req)
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	s.recordAudit(r, actor, "campaign.status_changed", campaignID, strings.TrimSpace(resp.Status+" "+req.Reason))
	writeSuccessMessage(w, http.StatusOK, resp, "Campaign status updated")
}

// attachStudents fills the public student summary on each campaign. A lookup
// failure leaves the summaries empty rather than failing the read.
func (s *Server) attachStudents(ctx context.Context, items []campaignhttp.CampaignDTO) {
	if len(items) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.StudentID]; ok {
			continue
		}
		seen[item.StudentID] = struct{}{}
		ids = append(ids, item.StudentID)
	}
	profiles, err := s.accounts.Directory.PublicProfiles(ctx, ids)
	if err != nil {
		return
	}
	for i := range items {
		user, ok := profiles[items[i].StudentID]
		if !ok {
			continue
		}
		items[i].Student = studentSummary(user)
	}
}

func studentSummary(user entities.User) *campaignhttp.StudentSummaryDTO {
	summary := &campaignhttp.StudentSummaryDTO{
		UserID: user.UserID,
		Name:   user.Name,
		Image:  user.Image,
	}
	if user.Student != nil {
		summary.Country = user.Student.Country
		summary.FieldOfStudy = user.Student.FieldOfStudy
		summary.University = user.Student.University
		summary.Verified = user.StudentVerified()
	}
	return summary
}

func (s *Server) writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaignerrors.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, campaignerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, campaignerrors.ErrStudentNotVerified):
		writeError(w, http.StatusForbidden, "student_not_verified", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrDonationNotFound):
		writeError(w, http.StatusNotFound, "donation_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotAccepting):
		writeError(w, http.StatusBadRequest, "campaign_not_accepting_donations", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidDonationAmount):
		writeError(w, http.StatusBadRequest, "invalid_amount", campaignerrors.ErrInvalidDonationAmount.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCheckoutRequest):
		writeError(w, http.StatusBadRequest, "invalid_checkout_request", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCampaignInput):
		writeError(w, http.StatusBadRequest, "invalid_campaign", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "invalid_category", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCampaignStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidListFilter):
		writeError(w, http.StatusBadRequest, "invalid_list_filter", err.Error())
	case errors.Is(err, campaignerrors.ErrMissingSignature):
		writeError(w, http.StatusBadRequest, "missing_signature", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidSignature):
		writeError(w, http.StatusBadRequest, "invalid_signature", campaignerrors.ErrInvalidSignature.Error())
	case errors.Is(err, campaignerrors.ErrInvalidWebhookPayload):
		writeError(w, http.StatusBadRequest, "invalid_payload", campaignerrors.ErrInvalidWebhookPayload.Error())
	case errors.Is(err, campaignerrors.ErrPaymentProviderFailure):
		writeError(w, http.StatusBadGateway, "payment_provider_unavailable", campaignerrors.ErrPaymentProviderFailure.Error())
	case errors.Is(err, campaignerrors.ErrWebhookNotConfigured):
		writeError(w, http.StatusInternalServerError, "webhook_not_configured", err.Error())
	case errors.Is(err, campaignerrors.ErrDuplicateIdempotencyKey):
		writeError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, campaignerrors.ErrIdempotencyKeyReused):
		writeError(w, http.StatusConflict, "idempotency_key_reused", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignStatusConflict):
		writeError(w, http.StatusConflict, "campaign_status_conflict", err.Error())
	default:
		s.writeInternalError(w, "fundraising/campaign-service", err)
	}
}
