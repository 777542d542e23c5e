package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type UserCountsDTO struct {
	Total    int `json:"total"`
	Students int `json:"students"`
	Donors   int `json:"donors"`
	Admins   int `json:"admins"`
}

type VerificationCountsDTO struct {
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
}

type CampaignCountsDTO struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

type DonationTotalsDTO struct {
	TotalAmount float64 `json:"total_amount"`
	TotalCount  int     `json:"total_count"`
}

type PlatformStatsResponse struct {
	Users         UserCountsDTO         `json:"users"`
	Verifications VerificationCountsDTO `json:"verifications"`
	Campaigns     CampaignCountsDTO     `json:"campaigns"`
	Donations     DonationTotalsDTO     `json:"donations"`
}

type AuditLogDTO struct {
	AuditID       string `json:"audit_id"`
	ActorID       string `json:"actor_id"`
	Action        string `json:"action"`
	TargetID      string `json:"target_id"`
	Justification string `json:"justification"`
	SourceIP      string `json:"source_ip,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

type ListAuditLogsResponse struct {
	Items []AuditLogDTO `json:"items"`
}

type ListAuditLogsRequest struct {
	Action   string `json:"action"`
	TargetID string `json:"target_id"`
	ActorID  string `json:"actor_id"`
	Limit    int    `json:"limit"`
}
