package errors

import "errors"

var (
	ErrUnauthorized             = errors.New("authentication required")
	ErrForbidden                = errors.New("insufficient permissions")
	ErrUserNotFound             = errors.New("user not found")
	ErrUserDeleted              = errors.New("user account is deleted")
	ErrEmailTaken               = errors.New("email already registered")
	ErrInvalidSyncRequest       = errors.New("email is required")
	ErrInvalidRole              = errors.New("invalid role")
	ErrSelfDemotion             = errors.New("cannot demote yourself")
	ErrSelfDeletion             = errors.New("cannot delete yourself")
	ErrProfileExists            = errors.New("student profile already exists")
	ErrInvalidProfile           = errors.New("country, field_of_study, and university are required")
	ErrStudentProfileNotFound   = errors.New("student profile not found")
	ErrInvalidReviewAction      = errors.New("action must be 'approve' or 'reject'")
	ErrInvalidDocument          = errors.New("invalid verification document")
	ErrInvalidListFilter        = errors.New("invalid list filter")
	ErrStorageUnavailable       = errors.New("document storage unavailable")
	ErrRepositoryInvariantBroke = errors.New("repository invariant broken")
)
