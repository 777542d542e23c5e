package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "funded/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"funded/contexts/internal-ops/admin-dashboard-service/ports"
)

const (
	moduleName           = "internal-ops/admin-dashboard-service"
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
	defaultDedupWindow   = 7 * 24 * time.Hour
)

type Service struct {
	Trail        ports.AuditTrail
	Deduplicator ports.ActionDeduplicator
	Accounts     ports.AccountStatsSource
	Fundraising  ports.FundraisingStatsSource
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	// DedupWindow bounds how long a request id replays its first audit row.
	DedupWindow time.Duration
	Logger      *slog.Logger
}

type RecordActionInput struct {
	ActorID       string
	Action        string
	TargetID      string
	Justification string
	SourceIP      string
	CorrelationID string
}

type AuditFilter struct {
	Action   string
	TargetID string
	ActorID  string
	Limit    int
}

// RecordAdminAction appends an audit row. With a request id, a retry of the
// same action returns the first row and a different action under that id is an
// idempotency conflict.
func (s Service) RecordAdminAction(ctx context.Context, requestID string, input RecordActionInput) (ports.AuditLog, error) {
	input = trimInput(input)
	if input.ActorID == "" {
		return ports.AuditLog{}, domainerrors.ErrUnauthorized
	}
	if input.Action == "" || input.Justification == "" {
		return ports.AuditLog{}, domainerrors.ErrInvalidAuditEntry
	}

	now := s.now()
	requestID = strings.TrimSpace(requestID)
	dedup := requestID != "" && s.Deduplicator != nil
	if dedup {
		replayed, err := s.replay(ctx, requestID, input, now)
		if err != nil {
			return ports.AuditLog{}, err
		}
		if replayed != nil {
			return *replayed, nil
		}
	}

	auditID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.AuditLog{}, err
	}
	row := ports.AuditLog{
		AuditID:       auditID,
		ActorID:       input.ActorID,
		Action:        input.Action,
		TargetID:      input.TargetID,
		Justification: input.Justification,
		OccurredAt:    now,
		SourceIP:      input.SourceIP,
		CorrelationID: input.CorrelationID,
	}
	if err := s.Trail.AppendAuditLog(ctx, row); err != nil {
		ResolveLogger(s.Logger).Error("audit append failed",
			"event", "admin_audit_append_failed",
			"module", moduleName,
			"layer", "application",
			"action", row.Action,
			"target_id", row.TargetID,
			"error", err.Error(),
		)
		return ports.AuditLog{}, err
	}

	if dedup {
		body, err := json.Marshal(row)
		if err != nil {
			return ports.AuditLog{}, err
		}
		if err := s.Deduplicator.Complete(ctx, requestID, body); err != nil {
			return ports.AuditLog{}, err
		}
	}
	ResolveLogger(s.Logger).Info("admin action audited",
		"event", "admin_action_audited",
		"module", moduleName,
		"layer", "application",
		"audit_id", row.AuditID,
		"action", row.Action,
		"actor_id", row.ActorID,
		"target_id", row.TargetID,
	)
	return row, nil
}

// replay returns the stored row for a completed request id, or reserves the id
// for this request and returns nil.
func (s Service) replay(ctx context.Context, requestID string, input RecordActionInput, now time.Time) (*ports.AuditLog, error) {
	hash := hashInput(input)
	existing, err := s.Deduplicator.Lookup(ctx, requestID, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.RequestHash != hash {
			return nil, domainerrors.ErrIdempotencyConflict
		}
		var cached ports.AuditLog
		if err := json.Unmarshal(existing.ResponseBody, &cached); err != nil {
			return nil, err
		}
		return &cached, nil
	}
	window := s.DedupWindow
	if window <= 0 {
		window = defaultDedupWindow
	}
	return nil, s.Deduplicator.Reserve(ctx, requestID, hash, now, now.Add(window))
}

// ListRecentActions returns the newest audit rows matching filter. The limit
// defaults to 50 and is capped at 200.
func (s Service) ListRecentActions(ctx context.Context, caller Caller, filter AuditFilter) ([]ports.AuditLog, error) {
	if err := caller.authorize(); err != nil {
		return nil, err
	}
	if filter.Limit < 0 {
		return nil, domainerrors.ErrInvalidAuditQuery
	}
	limit := filter.Limit
	if limit == 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	rows, err := s.Trail.ListAuditLogs(ctx, ports.AuditQuery{
		Action:   strings.TrimSpace(filter.Action),
		TargetID: strings.TrimSpace(filter.TargetID),
		ActorID:  strings.TrimSpace(filter.ActorID),
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ports.AuditLog{}
	}
	return rows, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func trimInput(input RecordActionInput) RecordActionInput {
	return RecordActionInput{
		ActorID:       strings.TrimSpace(input.ActorID),
		Action:        strings.TrimSpace(input.Action),
		TargetID:      strings.TrimSpace(input.TargetID),
		Justification: strings.TrimSpace(input.Justification),
		SourceIP:      strings.TrimSpace(input.SourceIP),
		CorrelationID: strings.TrimSpace(input.CorrelationID),
	}
}

// hashInput fingerprints what was done, not where it came from, so a retry
// through another proxy still replays.
func hashInput(input RecordActionInput) string {
	data, _ := json.Marshal([]string{input.ActorID, input.Action, input.TargetID, input.Justification})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
