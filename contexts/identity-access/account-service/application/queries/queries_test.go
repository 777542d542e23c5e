package queries_test

import (
	"context"
	"testing"
	"time"

	"funded/contexts/identity-access/account-service/adapters/memory"
	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/application/queries"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

func student(id string, country string, field string, status entities.VerificationStatus, offset time.Duration) entities.User {
	return entities.User{
		UserID: id, Email: id + "@example.com", Name: id, Role: entities.RoleStudent, CreatedAt: base.Add(offset),
		Student: &entities.StudentProfile{
			Country: country, FieldOfStudy: field, University: "Uni",
			VerificationStatus: status, CreatedAt: base.Add(offset),
		},
	}
}

func directory() *memory.Store {
	deletedAt := base
	return memory.NewStore([]entities.User{
		{UserID: "admin-1", Email: "admin@funded.com", Role: entities.RoleAdmin, CreatedAt: base},
		{UserID: "donor-1", Email: "donor@example.com", Role: entities.RoleDonor, CreatedAt: base.Add(time.Minute)},
		{UserID: "gone", Email: "gone@example.com", Role: entities.RoleDonor, Deleted: true, DeletedAt: &deletedAt},
		student("s1", "Kenya", "Medicine", entities.VerificationVerified, time.Hour),
		student("s2", "kenya", "Law", entities.VerificationPending, 2*time.Hour),
		student("s3", "Brazil", "Medicine", entities.VerificationRejected, 3*time.Hour),
	}, nil)
}

func TestResolveActor(t *testing.T) {
	uc := queries.ResolveActorUseCase{Users: directory()}

	anonymous, err := uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, anonymous.Authenticated())

	actor, err := uc.Execute(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, actor.IsStudent())
	assert.True(t, actor.StudentVerified)

	pending, err := uc.Execute(context.Background(), "s2")
	require.NoError(t, err)
	assert.False(t, pending.StudentVerified)

	_, err = uc.Execute(context.Background(), "unknown")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	_, err = uc.Execute(context.Background(), "gone")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestListUsersExcludesDeletedAndPaginates(t *testing.T) {
	uc := queries.ListUsersUseCase{Users: directory()}
	admin := application.Actor{UserID: "admin-1", Role: entities.RoleAdmin}

	_, err := uc.Execute(context.Background(), queries.ListUsersQuery{Actor: application.Actor{UserID: "donor-1", Role: entities.RoleDonor}})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	all, err := uc.Execute(context.Background(), queries.ListUsersQuery{Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, 5, all.Pagination.Total)
	assert.Equal(t, 50, all.Pagination.Limit)
	assert.Equal(t, "s3", all.Items[0].UserID)

	students, err := uc.Execute(context.Background(), queries.ListUsersQuery{Actor: admin, Role: "student", Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, queries.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, students.Pagination)
	require.Len(t, students.Items, 1)
	assert.Equal(t, "s1", students.Items[0].UserID)

	_, err = uc.Execute(context.Background(), queries.ListUsersQuery{Actor: admin, Role: "robot"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidListFilter)
}

func TestListStudentsByStatus(t *testing.T) {
	uc := queries.ListStudentsUseCase{Users: directory()}
	admin := application.Actor{UserID: "admin-1", Role: entities.RoleAdmin}

	all, err := uc.Execute(context.Background(), admin, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "s3", all[0].UserID)

	pending, err := uc.Pending(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "s2", pending[0].UserID)

	_, err = uc.Execute(context.Background(), admin, "unknown")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidListFilter)
	_, err = uc.Execute(context.Background(), application.Actor{}, "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestStudentDirectory(t *testing.T) {
	uc := queries.StudentDirectoryUseCase{Users: directory()}

	ids, err := uc.FindStudentIDs(context.Background(), "KENYA", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids)

	ids, err = uc.FindStudentIDs(context.Background(), "Kenya", "medicine")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	ids, err = uc.FindStudentIDs(context.Background(), "Peru", "")
	require.NoError(t, err)
	assert.Empty(t, ids)

	profiles, err := uc.PublicProfiles(context.Background(), []string{"s1", "gone", "missing"})
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Equal(t, "Kenya", profiles["s1"].Student.Country)
}

func TestUserStatsCountsActiveAccounts(t *testing.T) {
	stats, err := queries.UserStatsUseCase{Users: directory()}.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ports.UserStats{Total: 5, Students: 3, Donors: 1, Admins: 1, Pending: 1, Verified: 1, Rejected: 1}, stats)

	empty, err := queries.UserStatsUseCase{Users: memory.NewStore(nil, nil)}.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ports.UserStats{}, empty)
}

func TestListCountries(t *testing.T) {
	countries := queries.ListCountries()
	assert.Len(t, countries, 11)
	assert.Equal(t, "United States", countries[0])
	countries[0] = "mutated"
	assert.Equal(t, "United States", queries.ListCountries()[0], "list must be a copy")
}
