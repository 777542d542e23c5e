package application

import (
	"log/slog"
	"strings"

	domainerrors "funded/contexts/internal-ops/admin-dashboard-service/domain/errors"
)

// Caller is the resolved identity behind an admin console request.
type Caller struct {
	UserID  string
	IsAdmin bool
}

func (c Caller) authorize() error {
	if strings.TrimSpace(c.UserID) == "" {
		return domainerrors.ErrUnauthorized
	}
	if !c.IsAdmin {
		return domainerrors.ErrForbidden
	}
	return nil
}

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
