package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SyncUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type SyncUserResponse struct {
	User    UserDTO `json:"user"`
	Created bool    `json:"created"`
}

type VerificationDocumentDTO struct {
	DocumentID string `json:"document_id"`
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
	Verified   bool   `json:"verified"`
	CreatedAt  string `json:"created_at"`
}

type StudentProfileDTO struct {
	Country            string                    `json:"country"`
	FieldOfStudy       string                    `json:"field_of_study"`
	University         string                    `json:"university"`
	VerificationStatus string                    `json:"verification_status"`
	VerifiedAt         string                    `json:"verified_at,omitempty"`
	RejectionReason    string                    `json:"rejection_reason,omitempty"`
	Documents          []VerificationDocumentDTO `json:"verification_documents"`
	CreatedAt          string                    `json:"created_at"`
}

type UserDTO struct {
	UserID         string             `json:"user_id"`
	Email          string             `json:"email"`
	Name           string             `json:"name"`
	Image          string             `json:"image,omitempty"`
	Role           string             `json:"role"`
	StudentProfile *StudentProfileDTO `json:"student_profile"`
	CreatedAt      string             `json:"created_at"`
}

type DocumentInputDTO struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type CreateStudentProfileRequest struct {
	Country      string             `json:"country"`
	FieldOfStudy string             `json:"field_of_study"`
	University   string             `json:"university"`
	Documents    []DocumentInputDTO `json:"verification_documents"`
}

type RequestDocumentUploadRequest struct {
	Type        string `json:"type"`
	ContentType string `json:"content_type"`
}

type DocumentUploadResponse struct {
	Document  VerificationDocumentDTO `json:"document"`
	UploadURL string                  `json:"upload_url"`
	Method    string                  `json:"method"`
	Headers   map[string]string       `json:"headers"`
	ExpiresAt string                  `json:"expires_at"`
}

type PaginationDTO struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type ListUsersResponse struct {
	Items      []UserDTO     `json:"items"`
	Pagination PaginationDTO `json:"pagination"`
}

type ListStudentsResponse struct {
	Items []UserDTO `json:"items"`
}

type SetUserRoleRequest struct {
	Role string `json:"role"`
}

type ReviewStudentRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type CountriesResponse struct {
	Countries []string `json:"countries"`
}
