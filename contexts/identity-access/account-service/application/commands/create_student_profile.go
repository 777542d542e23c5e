package commands

import (
	"context"
	"log/slog"
	"strings"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/ports"
)

type DocumentInput struct {
	Type string
	URL  string
}

type CreateStudentProfileCommand struct {
	Actor        application.Actor
	Country      string
	FieldOfStudy string
	University   string
	Documents    []DocumentInput
}

type CreateStudentProfileUseCase struct {
	Users       ports.UserRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute attaches a pending student profile to the caller and switches the
// account to the student role.
func (u CreateStudentProfileUseCase) Execute(ctx context.Context, cmd CreateStudentProfileCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)
	if !cmd.Actor.Authenticated() {
		return entities.User{}, domainerrors.ErrUnauthorized
	}
	country := strings.TrimSpace(cmd.Country)
	field := strings.TrimSpace(cmd.FieldOfStudy)
	university := strings.TrimSpace(cmd.University)
	if country == "" || field == "" || university == "" {
		return entities.User{}, domainerrors.ErrInvalidProfile
	}
	for _, doc := range cmd.Documents {
		if strings.TrimSpace(doc.Type) == "" {
			return entities.User{}, domainerrors.ErrInvalidDocument
		}
	}

	user, err := u.Users.GetUser(ctx, cmd.Actor.UserID)
	if err != nil {
		return entities.User{}, err
	}
	if user.Deleted {
		return entities.User{}, domainerrors.ErrUserDeleted
	}
	if user.Student != nil {
		return entities.User{}, domainerrors.ErrProfileExists
	}

	at := now(u.Clock)
	user.Role = entities.RoleStudent
	user.UpdatedAt = at
	user.Student = &entities.StudentProfile{
		Country:            country,
		FieldOfStudy:       field,
		University:         university,
		VerificationStatus: entities.VerificationPending,
		CreatedAt:          at,
		UpdatedAt:          at,
	}
	if err := u.Users.UpdateUser(ctx, user); err != nil {
		logger.Error("student profile create failed",
			"event", "student_profile_create_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	for _, input := range cmd.Documents {
		documentID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return entities.User{}, err
		}
		doc := entities.VerificationDocument{
			DocumentID: documentID,
			UserID:     user.UserID,
			Type:       strings.ToLower(strings.TrimSpace(input.Type)),
			URL:        strings.TrimSpace(input.URL),
			CreatedAt:  at,
		}
		if err := u.Users.AddDocument(ctx, doc); err != nil {
			return entities.User{}, err
		}
		user.Student.Documents = append(user.Student.Documents, doc)
	}

	logger.Info("student profile created",
		"event", "student_profile_created",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
		"documents", len(user.Student.Documents),
	)
	return user, nil
}
