package httpserver

import (
	"errors"
	"net/http"

	accounterrors "funded/contexts/identity-access/account-service/domain/errors"
	accounthttp "funded/contexts/identity-access/account-service/transport/http"
)

func (s *Server) handleSyncUser(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.SyncUserRequest
	if err := decodeJSON(w, r, defaultBodyLimit, false, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	resp, err := s.accounts.Handler.SyncUserHandler(r.Context(), req)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeSuccess(w, status, resp)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.accounts.Handler.GetCurrentUserHandler(r.Context(), actor)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleCreateStudentProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req accounthttp.CreateStudentProfileRequest
	if err := decodeJSON(w, r, defaultBodyLimit, false, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	resp, err := s.accounts.Handler.CreateStudentProfileHandler(r.Context(), actor, req)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	writeSuccessMessage(w, http.StatusCreated, resp, "Student profile submitted for verification")
}

func (s *Server) handleRequestDocumentUpload(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req accounthttp.RequestDocumentUploadRequest
	if err := decodeJSON(w, r, defaultBodyLimit, false, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	resp, err := s.accounts.Handler.RequestDocumentUploadHandler(r.Context(), actor, req)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (s *Server) handleListCountries(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, s.accounts.Handler.ListCountriesHandler())
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
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
	resp, err := s.accounts.Handler.ListUsersHandler(r.Context(), actor, r.URL.Query().Get("role"), page, limit)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	writePage(w, resp.Items, resp.Pagination)
}

func (s *Server) handleAdminSetUserRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req accounthttp.SetUserRoleRequest
	if err := decodeJSON(w, r, defaultBodyLimit, false, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	userID := r.PathValue("user_id")
	resp, err := s.accounts.Handler.SetUserRoleHandler(r.Context(), actor, userID, req)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	s.recordAudit(r, actor, "user.role_changed", userID, "role="+resp.Role)
	writeSuccessMessage(w, http.StatusOK, resp, "User role updated")
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	userID := r.PathValue("user_id")
	resp, err := s.accounts.Handler.DeleteUserHandler(r.Context(), actor, userID)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	s.recordAudit(r, actor, "user.deleted", userID, "")
	writeSuccessMessage(w, http.StatusOK, resp, "User deleted")
}

func (s *Server) handleAdminListStudents(w http.ResponseWriter, r *http.Request) {
	s.listStudents(w, r, r.URL.Query().Get("status"))
}

func (s *Server) handleAdminListPendingStudents(w http.ResponseWriter, r *http.Request) {
	s.listStudents(w, r, "pending")
}

func (s *Server) listStudents(w http.ResponseWriter, r *http.Request, status string) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.accounts.Handler.ListStudentsHandler(r.Context(), actor, status)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp.Items)
}

func (s *Server) handleAdminReviewStudent(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req accounthttp.ReviewStudentRequest
	if err := decodeJSON(w, r, defaultBodyLimit, false, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	userID := r.PathValue("user_id")
	resp, err := s.accounts.Handler.ReviewStudentHandler(r.Context(), actor, userID, req)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	action, message := "student.approved", "Student verified"
	if resp.StudentProfile != nil && resp.StudentProfile.VerificationStatus == "rejected" {
		action, message = "student.rejected", "Student verification rejected"
	}
	s.recordAudit(r, actor, action, userID, req.Reason)
	writeSuccessMessage(w, http.StatusOK, resp, message)
}

func (s *Server) writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, accounterrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, accounterrors.ErrUserDeleted):
		writeError(w, http.StatusForbidden, "account_deleted", err.Error())
	case errors.Is(err, accounterrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, accounterrors.ErrStudentProfileNotFound):
		writeError(w, http.StatusNotFound, "student_profile_not_found", err.Error())
	case errors.Is(err, accounterrors.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, accounterrors.ErrProfileExists):
		writeError(w, http.StatusConflict, "profile_exists", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidSyncRequest),
		errors.Is(err, accounterrors.ErrInvalidProfile),
		errors.Is(err, accounterrors.ErrInvalidDocument):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid_role", err.Error())
	case errors.Is(err, accounterrors.ErrSelfDemotion):
		writeError(w, http.StatusBadRequest, "self_demotion", err.Error())
	case errors.Is(err, accounterrors.ErrSelfDeletion):
		writeError(w, http.StatusBadRequest, "self_deletion", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidReviewAction):
		writeError(w, http.StatusBadRequest, "invalid_review_action", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidListFilter):
		writeError(w, http.StatusBadRequest, "invalid_list_filter", err.Error())
	case errors.Is(err, accounterrors.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", accounterrors.ErrStorageUnavailable.Error())
	default:
		s.writeInternalError(w, "identity-access/account-service", err)
	}
}

func (s *Server) writeInternalError(w http.ResponseWriter, module string, err error) {
	s.logger.Error("request failed",
		"event", "http_request_failed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"context", module,
		"error", err.Error(),
	)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
