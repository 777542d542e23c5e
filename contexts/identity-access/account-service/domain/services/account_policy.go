package services

import (
	"path"
	"strings"
	"time"

	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
)

type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRoleChange refuses invalid roles and an administrator removing
// their own admin role.
func ValidateRoleChange(actorID string, targetID string, role entities.Role) error {
	if !role.Valid() {
		return domainerrors.ErrInvalidRole
	}
	if actorID == targetID && role != entities.RoleAdmin {
		return domainerrors.ErrSelfDemotion
	}
	return nil
}

// ApplyReview records an administrator decision on a student profile.
// Approval marks every submitted document verified and clears a prior
// rejection reason.
func ApplyReview(profile *entities.StudentProfile, action ReviewAction, reason string, at time.Time) error {
	if profile == nil {
		return domainerrors.ErrStudentProfileNotFound
	}
	switch action {
	case ReviewApprove:
		profile.VerificationStatus = entities.VerificationVerified
		verifiedAt := at
		profile.VerifiedAt = &verifiedAt
		profile.RejectionReason = ""
		for i := range profile.Documents {
			profile.Documents[i].Verified = true
		}
	case ReviewReject:
		profile.VerificationStatus = entities.VerificationRejected
		profile.RejectionReason = strings.TrimSpace(reason)
	default:
		return domainerrors.ErrInvalidReviewAction
	}
	profile.UpdatedAt = at
	return nil
}

var uploadContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// DocumentObjectKey validates an upload request and returns the storage key
// the document will be written under.
func DocumentObjectKey(userID string, documentID string, docType string, contentType string) (string, error) {
	docType = strings.ToLower(strings.TrimSpace(docType))
	if docType == "" || strings.ContainsAny(docType, "/\\ ") || len(docType) > 64 {
		return "", domainerrors.ErrInvalidDocument
	}
	ext, ok := uploadContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", domainerrors.ErrInvalidDocument
	}
	return path.Join("verification", userID, docType+"-"+documentID+ext), nil
}
