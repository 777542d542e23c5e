package entities

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent     Role = "student"
	RoleDonor       Role = "donor"
	RoleInstitution Role = "institution"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleDonor, RoleInstitution, RoleAdmin:
		return true
	default:
		return false
	}
}

func ParseRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	default:
		return false
	}
}

const DefaultUserName = "User"

type User struct {
	UserID    string
	Email     string
	Name      string
	Image     string
	Role      Role
	Student   *StudentProfile
	Deleted   bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// StudentVerified reports whether the account is a student whose profile an
// administrator has approved.
func (u User) StudentVerified() bool {
	return u.Role == RoleStudent && u.Student != nil && u.Student.VerificationStatus == VerificationVerified
}

type StudentProfile struct {
	Country            string
	FieldOfStudy       string
	University         string
	VerificationStatus VerificationStatus
	VerifiedAt         *time.Time
	RejectionReason    string
	Documents          []VerificationDocument
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type VerificationDocument struct {
	DocumentID string
	UserID     string
	Type       string
	URL        string
	ObjectKey  string
	Verified   bool
	CreatedAt  time.Time
}

// Clone copies the user including its nested profile and documents.
func (u User) Clone() User {
	if u.Student != nil {
		profile := *u.Student
		profile.Documents = append([]VerificationDocument(nil), u.Student.Documents...)
		u.Student = &profile
	}
	return u
}
