package queries

import (
	"context"
	"log/slog"
	"strings"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/ports"
)

type ListStudentsUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

// Execute lists student profiles for review, newest profile first. An empty
// status lists every profile.
func (u ListStudentsUseCase) Execute(ctx context.Context, actor application.Actor, status string) ([]entities.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	verification := entities.VerificationStatus(strings.ToLower(strings.TrimSpace(status)))
	if verification != "" && !verification.Valid() {
		return nil, domainerrors.ErrInvalidListFilter
	}
	return u.Users.ListStudents(ctx, verification)
}

func (u ListStudentsUseCase) Pending(ctx context.Context, actor application.Actor) ([]entities.User, error) {
	return u.Execute(ctx, actor, string(entities.VerificationPending))
}

// StudentDirectoryUseCase serves public student data to other contexts:
// campaign filters by profile field and the student card on campaigns.
type StudentDirectoryUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u StudentDirectoryUseCase) FindStudentIDs(ctx context.Context, country string, fieldOfStudy string) ([]string, error) {
	return u.Users.FindStudentIDs(ctx, ports.StudentFilter{
		Country:      strings.TrimSpace(country),
		FieldOfStudy: strings.TrimSpace(fieldOfStudy),
	})
}

func (u StudentDirectoryUseCase) PublicProfiles(ctx context.Context, userIDs []string) (map[string]entities.User, error) {
	if len(userIDs) == 0 {
		return map[string]entities.User{}, nil
	}
	users, err := u.Users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		application.ResolveLogger(u.Logger).Warn("student profile lookup failed",
			"event", "student_directory_lookup_failed",
			"module", moduleName,
			"layer", "application",
			"count", len(userIDs),
			"error", err.Error(),
		)
		return nil, err
	}
	return users, nil
}

func ListCountries() []string {
	return entities.Countries()
}
