package ports

import (
	"context"
	"time"

	"funded/contexts/identity-access/account-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type UserListFilter struct {
	Role   entities.Role
	Offset int
	Limit  int
}

// StudentFilter matches profile fields exactly, case-insensitively. Empty
// fields are ignored.
type StudentFilter struct {
	Country      string
	FieldOfStudy string
}

type UserStats struct {
	Total    int
	Students int
	Donors   int
	Admins   int
	Pending  int
	Verified int
	Rejected int
}

// UserRepository lists and counts only users that are not soft-deleted,
// except GetUser and GetUserByEmail which return deleted rows so callers can
// refuse them explicitly.
type UserRepository interface {
	CreateUser(ctx context.Context, user entities.User) error
	GetUser(ctx context.Context, userID string) (entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, bool, error)
	// UpdateUser persists account and profile columns. Documents are written
	// through AddDocument and SetDocumentsVerified.
	UpdateUser(ctx context.Context, user entities.User) error
	AddDocument(ctx context.Context, doc entities.VerificationDocument) error
	SetDocumentsVerified(ctx context.Context, userID string) error
	ListUsers(ctx context.Context, filter UserListFilter) ([]entities.User, int, error)
	ListStudents(ctx context.Context, status entities.VerificationStatus) ([]entities.User, error)
	FindStudentIDs(ctx context.Context, filter StudentFilter) ([]string, error)
	GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]entities.User, error)
	UserStats(ctx context.Context) (UserStats, error)
}

type PresignedUpload struct {
	ObjectKey string
	UploadURL string
	Method    string
	Headers   map[string]string
	// ObjectURL is where the document is readable after upload.
	ObjectURL string
	ExpiresAt time.Time
}

type DocumentStorage interface {
	PresignUpload(ctx context.Context, objectKey string, contentType string) (PresignedUpload, error)
}
