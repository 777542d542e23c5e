package commands

import (
	"time"

	application "funded/contexts/identity-access/account-service/application"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/ports"
)

const moduleName = "identity-access/account-service"

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

func requireAdmin(actor application.Actor) error {
	if !actor.Authenticated() {
		return domainerrors.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return domainerrors.ErrForbidden
	}
	return nil
}
