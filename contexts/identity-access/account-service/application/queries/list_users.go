package queries

import (
	"context"
	"log/slog"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/ports"
)

type ListUsersQuery struct {
	Actor application.Actor
	Role  string
	Page  int
	Limit int
}

type ListUsersResult struct {
	Items      []entities.User
	Pagination Pagination
}

type ListUsersUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u ListUsersUseCase) Execute(ctx context.Context, query ListUsersQuery) (ListUsersResult, error) {
	if err := requireAdmin(query.Actor); err != nil {
		return ListUsersResult{}, err
	}
	role := entities.ParseRole(query.Role)
	if role != "" && !role.Valid() {
		return ListUsersResult{}, domainerrors.ErrInvalidListFilter
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultUserPageSize
	}
	if limit > maxUserPageSize {
		limit = maxUserPageSize
	}

	items, total, err := u.Users.ListUsers(ctx, ports.UserListFilter{
		Role:   role,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		application.ResolveLogger(u.Logger).Error("list users failed",
			"event", "account_list_failed",
			"module", moduleName,
			"layer", "application",
			"error", err.Error(),
		)
		return ListUsersResult{}, err
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return ListUsersResult{
		Items:      items,
		Pagination: Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages},
	}, nil
}
