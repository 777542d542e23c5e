package commands

import (
	"context"
	"log/slog"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/domain/services"
	"funded/contexts/identity-access/account-service/ports"
)

type SetUserRoleCommand struct {
	Actor  application.Actor
	UserID string
	Role   string
}

type DeleteUserCommand struct {
	Actor  application.Actor
	UserID string
}

type ManageUsersUseCase struct {
	Users  ports.UserRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u ManageUsersUseCase) SetRole(ctx context.Context, cmd SetUserRoleCommand) (entities.User, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return entities.User{}, err
	}
	role := entities.ParseRole(cmd.Role)
	if err := services.ValidateRoleChange(cmd.Actor.UserID, cmd.UserID, role); err != nil {
		return entities.User{}, err
	}
	user, err := u.activeUser(ctx, cmd.UserID)
	if err != nil {
		return entities.User{}, err
	}
	previous := user.Role
	user.Role = role
	user.UpdatedAt = now(u.Clock)
	if err := u.Users.UpdateUser(ctx, user); err != nil {
		return entities.User{}, err
	}

	application.ResolveLogger(u.Logger).Info("user role changed",
		"event", "account_role_changed",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
		"from", previous,
		"to", role,
		"actor_id", cmd.Actor.UserID,
	)
	return user, nil
}

// Delete soft-deletes the account. Its campaigns and donations are kept.
func (u ManageUsersUseCase) Delete(ctx context.Context, cmd DeleteUserCommand) (entities.User, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return entities.User{}, err
	}
	if cmd.Actor.UserID == cmd.UserID {
		return entities.User{}, domainerrors.ErrSelfDeletion
	}
	user, err := u.activeUser(ctx, cmd.UserID)
	if err != nil {
		return entities.User{}, err
	}
	at := now(u.Clock)
	user.Deleted = true
	user.DeletedAt = &at
	user.UpdatedAt = at
	if err := u.Users.UpdateUser(ctx, user); err != nil {
		return entities.User{}, err
	}

	application.ResolveLogger(u.Logger).Info("user deleted",
		"event", "account_deleted",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
		"actor_id", cmd.Actor.UserID,
	)
	return user, nil
}

func (u ManageUsersUseCase) activeUser(ctx context.Context, userID string) (entities.User, error) {
	user, err := u.Users.GetUser(ctx, userID)
	if err != nil {
		return entities.User{}, err
	}
	if user.Deleted {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}
