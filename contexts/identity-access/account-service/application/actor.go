package application

import (
	"log/slog"
	"strings"

	"funded/contexts/identity-access/account-service/domain/entities"
)

// Actor is a resolved caller. The zero value is anonymous.
type Actor struct {
	UserID          string
	Email           string
	Name            string
	Role            entities.Role
	StudentVerified bool
}

func (a Actor) Authenticated() bool {
	return strings.TrimSpace(a.UserID) != ""
}

func (a Actor) IsAdmin() bool {
	return a.Role == entities.RoleAdmin
}

func (a Actor) IsStudent() bool {
	return a.Role == entities.RoleStudent
}

func ActorFromUser(user entities.User) Actor {
	return Actor{
		UserID:          user.UserID,
		Email:           user.Email,
		Name:            user.Name,
		Role:            user.Role,
		StudentVerified: user.StudentVerified(),
	}
}

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
