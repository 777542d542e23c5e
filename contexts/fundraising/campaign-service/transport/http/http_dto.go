package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCampaignRequest struct {
	Title        string  `json:"title"`
	Story        string  `json:"story"`
	Category     string  `json:"category"`
	TargetAmount float64 `json:"target_amount"`
	Timeline     string  `json:"timeline"`
	ImpactLog    string  `json:"impact_log"`
}

type UpdateCampaignRequest struct {
	Title        *string  `json:"title"`
	Story        *string  `json:"story"`
	Category     *string  `json:"category"`
	TargetAmount *float64 `json:"target_amount"`
	Timeline     *string  `json:"timeline"`
	ImpactLog    *string  `json:"impact_log"`
}

type SetCampaignStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type ListCampaignsRequest struct {
	Category string
	Search   string
	// StudentIDs is set by the caller after resolving profile filters.
	StudentIDs       []string
	RestrictStudents bool
	Page             int
	Limit            int
}

// StudentSummaryDTO is the public part of the owning student's profile.
type StudentSummaryDTO struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Image        string `json:"image,omitempty"`
	Country      string `json:"country,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	University   string `json:"university,omitempty"`
	Verified     bool   `json:"verified"`
}

type CampaignDTO struct {
	CampaignID   string             `json:"campaign_id"`
	StudentID    string             `json:"student_id"`
	Title        string             `json:"title"`
	Story        string             `json:"story"`
	Category     string             `json:"category"`
	TargetAmount float64            `json:"target_amount"`
	RaisedAmount float64            `json:"raised_amount"`
	DonorCount   int                `json:"donor_count"`
	Timeline     string             `json:"timeline"`
	ImpactLog    string             `json:"impact_log"`
	Status       string             `json:"status"`
	StatusReason string             `json:"status_reason,omitempty"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
	Student      *StudentSummaryDTO `json:"student,omitempty"`
}

type DonorWallEntryDTO struct {
	DonorName string  `json:"donor_name"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type PaginationDTO struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type ListCampaignsResponse struct {
	Items      []CampaignDTO `json:"items"`
	Pagination PaginationDTO `json:"pagination"`
}

type GetCampaignResponse struct {
	Campaign CampaignDTO         `json:"campaign"`
	Donors   []DonorWallEntryDTO `json:"donors"`
}

type StartCheckoutRequest struct {
	CampaignID     string  `json:"campaign_id"`
	Amount         float64 `json:"amount"`
	DonorName      string  `json:"donor_name"`
	DonorEmail     string  `json:"donor_email"`
	Anonymous      bool    `json:"anonymous"`
	OriginURL      string  `json:"origin_url"`
	IdempotencyKey string  `json:"idempotency_key"`
}

type StartCheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
	Replayed  bool   `json:"replayed"`
}

type DonationDTO struct {
	DonationID    string  `json:"donation_id"`
	CampaignID    string  `json:"campaign_id"`
	CampaignTitle string  `json:"campaign_title,omitempty"`
	DonorName     string  `json:"donor_name"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Anonymous     bool    `json:"anonymous"`
	PaymentStatus string  `json:"payment_status"`
	CreatedAt     string  `json:"created_at"`
}

type ListMyDonationsResponse struct {
	Items []DonationDTO `json:"items"`
}

type DonationStatusResponse struct {
	SessionID     string  `json:"session_id"`
	CampaignID    string  `json:"campaign_id"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `json:"payment_status"`
	DonorName     string  `json:"donor_name"`
	CreatedAt     string  `json:"created_at"`
}

type WebhookResponse struct {
	Received  bool   `json:"received"`
	EventType string `json:"event_type,omitempty"`
	Outcome   string `json:"outcome"`
}

type ListMyCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}
