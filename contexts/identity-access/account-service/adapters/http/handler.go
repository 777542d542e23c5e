package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/application/commands"
	"funded/contexts/identity-access/account-service/application/queries"
	"funded/contexts/identity-access/account-service/domain/entities"
	httptransport "funded/contexts/identity-access/account-service/transport/http"
)

type Handler struct {
	SyncUser              commands.SyncUserUseCase
	CreateStudentProfile  commands.CreateStudentProfileUseCase
	RequestDocumentUpload commands.RequestDocumentUploadUseCase
	ManageUsers           commands.ManageUsersUseCase
	ReviewStudent         commands.ReviewStudentUseCase
	GetCurrentUser        queries.GetCurrentUserUseCase
	ListUsers             queries.ListUsersUseCase
	ListStudents          queries.ListStudentsUseCase
	Logger                *slog.Logger
}

// SyncUserHandler godoc
// @Summary Sync identity-provider user
// @Description Upserts the account for a signed-in identity. New accounts get the donor role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body httptransport.SyncUserRequest true "Identity profile"
// @Success 200 {object} httptransport.SyncUserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/auth/sync [post]
func (h Handler) SyncUserHandler(ctx context.Context, req httptransport.SyncUserRequest) (httptransport.SyncUserResponse, error) {
	result, err := h.SyncUser.Execute(ctx, commands.SyncUserCommand{
		Email: req.Email,
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		return httptransport.SyncUserResponse{}, err
	}
	return httptransport.SyncUserResponse{User: MapUser(result.User), Created: result.Created}, nil
}

// GetCurrentUserHandler godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Success 200 {object} httptransport.UserDTO
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/auth/me [get]
func (h Handler) GetCurrentUserHandler(ctx context.Context, actor application.Actor) (httptransport.UserDTO, error) {
	user, err := h.GetCurrentUser.Execute(ctx, actor)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return MapUser(user), nil
}

// CreateStudentProfileHandler godoc
// @Summary Create student profile
// @Description Attaches a pending student profile and switches the caller to the student role.
// @Tags students
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param request body httptransport.CreateStudentProfileRequest true "Profile"
// @Success 201 {object} httptransport.UserDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/students/profile [post]
func (h Handler) CreateStudentProfileHandler(
	ctx context.Context,
	actor application.Actor,
	req httptransport.CreateStudentProfileRequest,
) (httptransport.UserDTO, error) {
	docs := make([]commands.DocumentInput, 0, len(req.Documents))
	for _, doc := range req.Documents {
		docs = append(docs, commands.DocumentInput{Type: doc.Type, URL: doc.URL})
	}
	user, err := h.CreateStudentProfile.Execute(ctx, commands.CreateStudentProfileCommand{
		Actor:        actor,
		Country:      req.Country,
		FieldOfStudy: req.FieldOfStudy,
		University:   req.University,
		Documents:    docs,
	})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return MapUser(user), nil
}

// RequestDocumentUploadHandler godoc
// @Summary Request verification document upload
// @Description Returns a presigned PUT URL for a pdf, jpeg or png document.
// @Tags students
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param request body httptransport.RequestDocumentUploadRequest true "Document type and content type"
// @Success 201 {object} httptransport.DocumentUploadResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /api/students/profile/documents [post]
func (h Handler) RequestDocumentUploadHandler(
	ctx context.Context,
	actor application.Actor,
	req httptransport.RequestDocumentUploadRequest,
) (httptransport.DocumentUploadResponse, error) {
	result, err := h.RequestDocumentUpload.Execute(ctx, commands.RequestDocumentUploadCommand{
		Actor:       actor,
		Type:        req.Type,
		ContentType: req.ContentType,
	})
	if err != nil {
		return httptransport.DocumentUploadResponse{}, err
	}
	return httptransport.DocumentUploadResponse{
		Document:  mapDocument(result.Document),
		UploadURL: result.Upload.UploadURL,
		Method:    result.Upload.Method,
		Headers:   result.Upload.Headers,
		ExpiresAt: formatTime(result.Upload.ExpiresAt),
	}, nil
}

// ListUsersHandler godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Param role query string false "student, donor, institution or admin"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.ListUsersResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/admin/users [get]
func (h Handler) ListUsersHandler(ctx context.Context, actor application.Actor, role string, page int, limit int) (httptransport.ListUsersResponse, error) {
	result, err := h.ListUsers.Execute(ctx, queries.ListUsersQuery{Actor: actor, Role: role, Page: page, Limit: limit})
	if err != nil {
		return httptransport.ListUsersResponse{}, err
	}
	return httptransport.ListUsersResponse{
		Items: mapUsers(result.Items),
		Pagination: httptransport.PaginationDTO{
			Page:       result.Pagination.Page,
			Limit:      result.Pagination.Limit,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
		},
	}, nil
}

// SetUserRoleHandler godoc
// @Summary Change user role
// @Tags admin
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Param user_id path string true "User id"
// @Param request body httptransport.SetUserRoleRequest true "New role"
// @Success 200 {object} httptransport.UserDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/admin/users/{user_id}/role [put]
func (h Handler) SetUserRoleHandler(
	ctx context.Context,
	actor application.Actor,
	userID string,
	req httptransport.SetUserRoleRequest,
) (httptransport.UserDTO, error) {
	user, err := h.ManageUsers.SetRole(ctx, commands.SetUserRoleCommand{Actor: actor, UserID: userID, Role: req.Role})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return MapUser(user), nil
}

// DeleteUserHandler godoc
// @Summary Delete user
// @Description Soft-deletes an account. Administrators cannot delete themselves.
// @Tags admin
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Param user_id path string true "User id"
// @Success 200 {object} httptransport.UserDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/admin/users/{user_id} [delete]
func (h Handler) DeleteUserHandler(ctx context.Context, actor application.Actor, userID string) (httptransport.UserDTO, error) {
	user, err := h.ManageUsers.Delete(ctx, commands.DeleteUserCommand{Actor: actor, UserID: userID})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return MapUser(user), nil
}

// ListStudentsHandler godoc
// @Summary List student profiles
// @Tags admin
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Param status query string false "pending, verified or rejected"
// @Success 200 {object} httptransport.ListStudentsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/admin/students [get]
// @Router /api/admin/students/pending [get]
func (h Handler) ListStudentsHandler(ctx context.Context, actor application.Actor, status string) (httptransport.ListStudentsResponse, error) {
	items, err := h.ListStudents.Execute(ctx, actor, status)
	if err != nil {
		return httptransport.ListStudentsResponse{}, err
	}
	return httptransport.ListStudentsResponse{Items: mapUsers(items)}, nil
}

// ReviewStudentHandler godoc
// @Summary Approve or reject a student
// @Tags admin
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Administrator user id"
// @Param user_id path string true "Student user id"
// @Param request body httptransport.ReviewStudentRequest true "approve or reject with optional reason"
// @Success 200 {object} httptransport.UserDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/admin/students/{user_id}/verify [put]
func (h Handler) ReviewStudentHandler(
	ctx context.Context,
	actor application.Actor,
	userID string,
	req httptransport.ReviewStudentRequest,
) (httptransport.UserDTO, error) {
	user, err := h.ReviewStudent.Execute(ctx, commands.ReviewStudentCommand{
		Actor:  actor,
		UserID: userID,
		Action: req.Action,
		Reason: req.Reason,
	})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return MapUser(user), nil
}

// ListCountriesHandler godoc
// @Summary Supported countries
// @Tags reference
// @Produce json
// @Success 200 {object} httptransport.CountriesResponse
// @Router /api/countries [get]
func (h Handler) ListCountriesHandler() httptransport.CountriesResponse {
	return httptransport.CountriesResponse{Countries: queries.ListCountries()}
}

func MapUser(user entities.User) httptransport.UserDTO {
	dto := httptransport.UserDTO{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Image:     user.Image,
		Role:      string(user.Role),
		CreatedAt: formatTime(user.CreatedAt),
	}
	if profile := user.Student; profile != nil {
		docs := make([]httptransport.VerificationDocumentDTO, 0, len(profile.Documents))
		for _, doc := range profile.Documents {
			docs = append(docs, mapDocument(doc))
		}
		dto.StudentProfile = &httptransport.StudentProfileDTO{
			Country:            profile.Country,
			FieldOfStudy:       profile.FieldOfStudy,
			University:         profile.University,
			VerificationStatus: string(profile.VerificationStatus),
			RejectionReason:    profile.RejectionReason,
			Documents:          docs,
			CreatedAt:          formatTime(profile.CreatedAt),
		}
		if profile.VerifiedAt != nil {
			dto.StudentProfile.VerifiedAt = formatTime(*profile.VerifiedAt)
		}
	}
	return dto
}

func mapUsers(items []entities.User) []httptransport.UserDTO {
	out := make([]httptransport.UserDTO, 0, len(items))
	for _, item := range items {
		out = append(out, MapUser(item))
	}
	return out
}

func mapDocument(doc entities.VerificationDocument) httptransport.VerificationDocumentDTO {
	return httptransport.VerificationDocumentDTO{
		DocumentID: doc.DocumentID,
		Type:       doc.Type,
		URL:        doc.URL,
		Verified:   doc.Verified,
		CreatedAt:  formatTime(doc.CreatedAt),
	}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
