package commands

import (
	"context"
	"log/slog"
	"strings"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/domain/services"
	"funded/contexts/identity-access/account-service/ports"
)

type ReviewStudentCommand struct {
	Actor  application.Actor
	UserID string
	Action string
	Reason string
}

type ReviewStudentUseCase struct {
	Users  ports.UserRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u ReviewStudentUseCase) Execute(ctx context.Context, cmd ReviewStudentCommand) (entities.User, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return entities.User{}, err
	}
	action := services.ReviewAction(strings.ToLower(strings.TrimSpace(cmd.Action)))
	if action != services.ReviewApprove && action != services.ReviewReject {
		return entities.User{}, domainerrors.ErrInvalidReviewAction
	}
	user, err := u.Users.GetUser(ctx, cmd.UserID)
	if err != nil {
		return entities.User{}, err
	}
	if user.Deleted || user.Student == nil {
		return entities.User{}, domainerrors.ErrStudentProfileNotFound
	}

	at := now(u.Clock)
	if err := services.ApplyReview(user.Student, action, cmd.Reason, at); err != nil {
		return entities.User{}, err
	}
	user.UpdatedAt = at
	if err := u.Users.UpdateUser(ctx, user); err != nil {
		return entities.User{}, err
	}
	if action == services.ReviewApprove {
		if err := u.Users.SetDocumentsVerified(ctx, user.UserID); err != nil {
			return entities.User{}, err
		}
	}

	application.ResolveLogger(u.Logger).Info("student reviewed",
		"event", "student_reviewed",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
		"status", user.Student.VerificationStatus,
		"actor_id", cmd.Actor.UserID,
	)
	return user, nil
}
