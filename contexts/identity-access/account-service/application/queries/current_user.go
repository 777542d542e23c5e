package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/ports"
)

type GetCurrentUserUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u GetCurrentUserUseCase) Execute(ctx context.Context, actor application.Actor) (entities.User, error) {
	if !actor.Authenticated() {
		return entities.User{}, domainerrors.ErrUnauthorized
	}
	user, err := u.Users.GetUser(ctx, actor.UserID)
	if err != nil {
		return entities.User{}, err
	}
	if user.Deleted {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

type ResolveActorUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

// Execute maps a gateway-asserted user id to an actor. An empty id is the
// anonymous actor. Unknown and deleted accounts resolve to ErrUnauthorized so
// a stale identity never passes as a real caller.
func (u ResolveActorUseCase) Execute(ctx context.Context, userID string) (application.Actor, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return application.Actor{}, nil
	}
	user, err := u.Users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return application.Actor{}, domainerrors.ErrUnauthorized
		}
		application.ResolveLogger(u.Logger).Error("actor resolution failed",
			"event", "account_actor_resolve_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return application.Actor{}, err
	}
	if user.Deleted {
		return application.Actor{}, domainerrors.ErrUnauthorized
	}
	return application.ActorFromUser(user), nil
}
