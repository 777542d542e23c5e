package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/domain/services"
	"funded/contexts/identity-access/account-service/ports"
)

// SyncUserCommand carries the profile the identity provider asserted at
// sign-in.
type SyncUserCommand struct {
	Email string
	Name  string
	Image string
}

type SyncUserResult struct {
	User    entities.User
	Created bool
}

type SyncUserUseCase struct {
	Users       ports.UserRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	// AdminEmail is granted the admin role when its account is first created.
	AdminEmail string
	Logger     *slog.Logger
}

func (u SyncUserUseCase) Execute(ctx context.Context, cmd SyncUserCommand) (SyncUserResult, error) {
	logger := application.ResolveLogger(u.Logger)
	email := services.NormalizeEmail(cmd.Email)
	if email == "" || !strings.Contains(email, "@") {
		return SyncUserResult{}, domainerrors.ErrInvalidSyncRequest
	}

	existing, found, err := u.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return SyncUserResult{}, err
	}
	if found {
		return u.refresh(ctx, existing, cmd)
	}

	at := now(u.Clock)
	userID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return SyncUserResult{}, err
	}
	role := entities.RoleDonor
	if adminEmail := services.NormalizeEmail(u.AdminEmail); adminEmail != "" && adminEmail == email {
		role = entities.RoleAdmin
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = entities.DefaultUserName
	}
	user := entities.User{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Image:     strings.TrimSpace(cmd.Image),
		Role:      role,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := u.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			// A concurrent sign-in created the row first.
			existing, found, getErr := u.Users.GetUserByEmail(ctx, email)
			if getErr == nil && found {
				return u.refresh(ctx, existing, cmd)
			}
		}
		logger.Error("user sync create failed",
			"event", "account_sync_create_failed",
			"module", moduleName,
			"layer", "application",
			"error", err.Error(),
		)
		return SyncUserResult{}, err
	}

	logger.Info("user account created",
		"event", "account_created",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
		"role", user.Role,
	)
	return SyncUserResult{User: user, Created: true}, nil
}

func (u SyncUserUseCase) refresh(ctx context.Context, user entities.User, cmd SyncUserCommand) (SyncUserResult, error) {
	if user.Deleted {
		return SyncUserResult{}, domainerrors.ErrUserDeleted
	}
	name := strings.TrimSpace(cmd.Name)
	image := strings.TrimSpace(cmd.Image)
	if (name == "" || name == user.Name) && (image == "" || image == user.Image) {
		return SyncUserResult{User: user}, nil
	}
	if name != "" {
		user.Name = name
	}
	if image != "" {
		user.Image = image
	}
	user.UpdatedAt = now(u.Clock)
	if err := u.Users.UpdateUser(ctx, user); err != nil {
		return SyncUserResult{}, err
	}
	return SyncUserResult{User: user}, nil
}
