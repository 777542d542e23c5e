package postgresadapter

import (
	"fmt"
	"testing"
	"time"

	"funded/contexts/identity-access/account-service/domain/entities"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserModelRoundTripsStudentProfile(t *testing.T) {
	at := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	user := entities.User{
		UserID: "u1",
		Email:  "Ada@Example.com",
		Name:   "Ada",
		Role:   entities.RoleStudent,
		Student: &entities.StudentProfile{
			Country:            "Kenya",
			FieldOfStudy:       "Medicine",
			University:         "University of Nairobi",
			VerificationStatus: entities.VerificationPending,
			CreatedAt:          at,
			UpdatedAt:          at,
		},
		CreatedAt: at,
		UpdatedAt: at,
	}

	model := fromUser(user)
	assert.Equal(t, "ada@example.com", model.Email)
	require.NotNil(t, model.StudentVerificationStatus)
	assert.Nil(t, model.StudentRejectionReason)

	docs := []documentModel{{DocumentID: "d1", UserID: "u1", Type: "student_id", Verified: true, CreatedAt: at}}
	back := model.toEntity(docs)
	require.NotNil(t, back.Student)
	assert.Equal(t, "Kenya", back.Student.Country)
	assert.Equal(t, entities.VerificationPending, back.Student.VerificationStatus)
	require.Len(t, back.Student.Documents, 1)
	assert.True(t, back.Student.Documents[0].Verified)
}

func TestUserModelWithoutProfile(t *testing.T) {
	model := fromUser(entities.User{UserID: "u2", Email: "x@y.z", Role: entities.RoleDonor})
	assert.Nil(t, model.StudentVerificationStatus)
	assert.Nil(t, model.toEntity(nil).Student)
}

func TestUniqueViolationDetection(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: emailConstraint})
	assert.True(t, isUniqueViolation(err))
	assert.Equal(t, emailConstraint, constraintName(err))
	assert.False(t, isUniqueViolation(fmt.Errorf("other")))
}
