package services

import (
	"errors"
	"testing"
	"time"

	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
)

func TestValidateRoleChange(t *testing.T) {
	if err := ValidateRoleChange("a", "a", entities.RoleAdmin); err != nil {
		t.Fatalf("expected admin to keep own admin role, got %v", err)
	}
	if err := ValidateRoleChange("a", "a", entities.RoleDonor); !errors.Is(err, domainerrors.ErrSelfDemotion) {
		t.Fatalf("expected self demotion error, got %v", err)
	}
	if err := ValidateRoleChange("a", "b", entities.Role("owner")); !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestApplyReview(t *testing.T) {
	at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	profile := &entities.StudentProfile{
		VerificationStatus: entities.VerificationPending,
		Documents:          []entities.VerificationDocument{{DocumentID: "d1"}, {DocumentID: "d2"}},
	}
	if err := ApplyReview(profile, ReviewReject, "  missing seal ", at); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if profile.VerificationStatus != entities.VerificationRejected || profile.RejectionReason != "missing seal" {
		t.Fatalf("unexpected rejected profile %+v", profile)
	}
	if err := ApplyReview(profile, ReviewApprove, "", at); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if profile.VerifiedAt == nil || !profile.VerifiedAt.Equal(at) || profile.RejectionReason != "" {
		t.Fatalf("unexpected approved profile %+v", profile)
	}
	for _, doc := range profile.Documents {
		if !doc.Verified {
			t.Fatalf("expected document %s verified", doc.DocumentID)
		}
	}
	if err := ApplyReview(nil, ReviewApprove, "", at); !errors.Is(err, domainerrors.ErrStudentProfileNotFound) {
		t.Fatalf("expected missing profile error, got %v", err)
	}
}

func TestDocumentObjectKey(t *testing.T) {
	key, err := DocumentObjectKey("u1", "d1", " Student_ID ", "IMAGE/JPEG")
	if err != nil || key != "verification/u1/student_id-d1.jpg" {
		t.Fatalf("unexpected key %q err=%v", key, err)
	}
	for _, tc := range []struct{ docType, contentType string }{
		{"", "application/pdf"},
		{"../etc", "application/pdf"},
		{"id card", "application/pdf"},
		{"transcript", "text/html"},
	} {
		if _, err := DocumentObjectKey("u1", "d1", tc.docType, tc.contentType); !errors.Is(err, domainerrors.ErrInvalidDocument) {
			t.Fatalf("%+v: expected invalid document, got %v", tc, err)
		}
	}
}
