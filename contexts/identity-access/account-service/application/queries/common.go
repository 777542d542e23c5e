package queries

import (
	application "funded/contexts/identity-access/account-service/application"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
)

const moduleName = "identity-access/account-service"

const (
	defaultUserPageSize = 50
	maxUserPageSize     = 50
)

type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
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
