package ports

import (
	"context"
	"time"
)

// AuditLog is one admin mutation: who did what to which account or campaign.
type AuditLog struct {
	AuditID       string
	ActorID       string
	Action        string
	TargetID      string
	Justification string
	OccurredAt    time.Time
	SourceIP      string
	CorrelationID string
}

// AuditQuery narrows the audit trail. Empty fields match everything; rows come
// back newest first.
type AuditQuery struct {
	Action   string
	TargetID string
	ActorID  string
	Limit    int
}

type AuditTrail interface {
	AppendAuditLog(ctx context.Context, row AuditLog) error
	ListAuditLogs(ctx context.Context, query AuditQuery) ([]AuditLog, error)
}

// ActionRecord remembers the audit row produced for a request id so a retried
// admin request does not append twice.
type ActionRecord struct {
	Key          string
	RequestHash  string
	ResponseBody []byte
	ExpiresAt    time.Time
}

type ActionDeduplicator interface {
	// Lookup returns nil for unknown, expired or still-reserved keys.
	Lookup(ctx context.Context, key string, now time.Time) (*ActionRecord, error)
	Reserve(ctx context.Context, key string, requestHash string, now time.Time, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseBody []byte) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type UserCounts struct {
	Total    int
	Students int
	Donors   int
	Admins   int
}

type VerificationCounts struct {
	Pending  int
	Verified int
	Rejected int
}

type CampaignCounts struct {
	Total     int
	Active    int
	Completed int
}

type DonationTotals struct {
	TotalAmountCents int64
	TotalCount       int
}

// AccountStatsSource counts accounts that are not soft-deleted.
type AccountStatsSource interface {
	AccountStats(ctx context.Context) (UserCounts, VerificationCounts, error)
}

// FundraisingStatsSource sums paid donations only.
type FundraisingStatsSource interface {
	FundraisingStats(ctx context.Context) (CampaignCounts, DonationTotals, error)
}
