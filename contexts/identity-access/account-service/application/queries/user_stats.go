package queries

import (
	"context"

	"funded/contexts/identity-access/account-service/ports"
)

type UserStatsUseCase struct {
	Users ports.UserRepository
}

func (u UserStatsUseCase) Execute(ctx context.Context) (ports.UserStats, error) {
	return u.Users.UserStats(ctx)
}
