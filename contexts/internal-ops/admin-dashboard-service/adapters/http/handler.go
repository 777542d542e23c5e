package httpadapter

import (
	"context"
	"time"

	"funded/contexts/internal-ops/admin-dashboard-service/application"
	"funded/contexts/internal-ops/admin-dashboard-service/ports"
	httptransport "funded/contexts/internal-ops/admin-dashboard-service/transport/http"
)

type Handler struct {
	Service application.Service
}

// GetPlatformStatsHandler godoc
// @Summary Platform statistics
// @Description Counts of users, verifications, campaigns and paid donations.
// @Tags admin
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Success 200 {object} httptransport.PlatformStatsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/admin/stats [get]
func (h Handler) GetPlatformStatsHandler(ctx context.Context, caller application.Caller) (httptransport.PlatformStatsResponse, error) {
	stats, err := h.Service.GetPlatformStats(ctx, caller)
	if err != nil {
		return httptransport.PlatformStatsResponse{}, err
	}
	return httptransport.PlatformStatsResponse{
		Users: httptransport.UserCountsDTO{
			Total:    stats.Users.Total,
			Students: stats.Users.Students,
			Donors:   stats.Users.Donors,
			Admins:   stats.Users.Admins,
		},
		Verifications: httptransport.VerificationCountsDTO{
			Pending:  stats.Verifications.Pending,
			Verified: stats.Verifications.Verified,
			Rejected: stats.Verifications.Rejected,
		},
		Campaigns: httptransport.CampaignCountsDTO{
			Total:     stats.Campaigns.Total,
			Active:    stats.Campaigns.Active,
			Completed: stats.Campaigns.Completed,
		},
		Donations: httptransport.DonationTotalsDTO{
			TotalAmount: float64(stats.Donations.TotalAmountCents) / 100,
			TotalCount:  stats.Donations.TotalCount,
		},
	}, nil
}

// RecordAdminActionHandler appends to the audit trail after an admin mutation
// succeeded elsewhere. It has no route of its own.
func (h Handler) RecordAdminActionHandler(
	ctx context.Context,
	idempotencyKey string,
	input application.RecordActionInput,
) (ports.AuditLog, error) {
	return h.Service.RecordAdminAction(ctx, idempotencyKey, input)
}

// ListAuditLogsHandler godoc
// @Summary Recent admin actions
// @Tags admin
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Param action query string false "Only rows with this action, e.g. student.approved"
// @Param target_id query string false "Only rows about this user or campaign"
// @Param actor_id query string false "Only rows by this administrator"
// @Param limit query int false "Maximum rows (default 50, max 200)"
// @Success 200 {object} httptransport.ListAuditLogsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/admin/audit [get]
func (h Handler) ListAuditLogsHandler(ctx context.Context, caller application.Caller, req httptransport.ListAuditLogsRequest) (httptransport.ListAuditLogsResponse, error) {
	rows, err := h.Service.ListRecentActions(ctx, caller, application.AuditFilter{
		Action:   req.Action,
		TargetID: req.TargetID,
		ActorID:  req.ActorID,
		Limit:    req.Limit,
	})
	if err != nil {
		return httptransport.ListAuditLogsResponse{}, err
	}
	items := make([]httptransport.AuditLogDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, httptransport.AuditLogDTO{
			AuditID:       row.AuditID,
			ActorID:       row.ActorID,
			Action:        row.Action,
			TargetID:      row.TargetID,
			Justification: row.Justification,
			SourceIP:      row.SourceIP,
			CorrelationID: row.CorrelationID,
			OccurredAt:    row.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.ListAuditLogsResponse{Items: items}, nil
}
