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

const seededAdminName = "Platform Admin"

type SeedAdminUseCase struct {
	Users       ports.UserRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute ensures the account for email exists and holds the admin role. It
// is safe to run on every startup.
func (u SeedAdminUseCase) Execute(ctx context.Context, email string) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)
	email = services.NormalizeEmail(email)
	if email == "" {
		return entities.User{}, domainerrors.ErrInvalidSyncRequest
	}

	existing, found, err := u.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return entities.User{}, err
	}
	at := now(u.Clock)
	if found {
		if existing.Role == entities.RoleAdmin && !existing.Deleted {
			return existing, nil
		}
		existing.Role = entities.RoleAdmin
		existing.Deleted = false
		existing.DeletedAt = nil
		existing.UpdatedAt = at
		if err := u.Users.UpdateUser(ctx, existing); err != nil {
			return entities.User{}, err
		}
		logger.Info("admin account promoted",
			"event", "account_admin_seeded",
			"module", moduleName,
			"layer", "application",
			"user_id", existing.UserID,
		)
		return existing, nil
	}

	userID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.User{}, err
	}
	admin := entities.User{
		UserID:    userID,
		Email:     email,
		Name:      seededAdminName,
		Role:      entities.RoleAdmin,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := u.Users.CreateUser(ctx, admin); err != nil {
		return entities.User{}, err
	}
	logger.Info("admin account created",
		"event", "account_admin_seeded",
		"module", moduleName,
		"layer", "application",
		"user_id", admin.UserID,
	)
	return admin, nil
}
