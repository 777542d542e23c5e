package httpserver

import (
	"errors"
	"net/http"

	adminerrors "funded/contexts/internal-ops/admin-dashboard-service/domain/errors"
	adminhttp "funded/contexts/internal-ops/admin-dashboard-service/transport/http"
)

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.admin.Handler.GetPlatformStatsHandler(r.Context(), adminCaller(actor))
	if err != nil {
		s.writeAdminDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	limit, okLimit := queryInt(r, "limit")
	if !okLimit {
		writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return
	}
	query := r.URL.Query()
	resp, err := s.admin.Handler.ListAuditLogsHandler(r.Context(), adminCaller(actor), adminhttp.ListAuditLogsRequest{
		Action:   query.Get("action"),
		TargetID: query.Get("target_id"),
		ActorID:  query.Get("actor_id"),
		Limit:    limit,
	})
	if err != nil {
		s.writeAdminDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp.Items)
}

func (s *Server) writeAdminDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminerrors.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, adminerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, adminerrors.ErrInvalidAuditEntry):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, adminerrors.ErrInvalidAuditQuery):
		writeError(w, http.StatusBadRequest, "invalid_limit", err.Error())
	case errors.Is(err, adminerrors.ErrIdempotencyConflict):
		writeError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	default:
		s.writeInternalError(w, "internal-ops/admin-dashboard-service", err)
	}
}
