package application

import (
	"log/slog"
	"strings"
)

// Actor is the caller identity resolved by the account service and handed to
// campaign use cases. The zero value is an anonymous caller.
type Actor struct {
	UserID          string
	Email           string
	IsAdmin         bool
	IsStudent       bool
	StudentVerified bool
}

func (a Actor) Authenticated() bool {
	return strings.TrimSpace(a.UserID) != ""
}

// ResolveLogger falls back to the process default when a use case was built
// without a logger.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
