package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "funded/contexts/internal-ops/admin-dashboard-service/application"
	domainerrors "funded/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"funded/contexts/internal-ops/admin-dashboard-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores the admin audit trail in admin_audit_logs and request-id
// replay records in admin_action_idempotency.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: application.ResolveLogger(logger)}
}

func (r *Repository) AppendAuditLog(ctx context.Context, row ports.AuditLog) error {
	model := auditRow{
		AuditID:       row.AuditID,
		ActorID:       row.ActorID,
		Action:        row.Action,
		TargetID:      row.TargetID,
		Justification: row.Justification,
		SourceIP:      row.SourceIP,
		CorrelationID: row.CorrelationID,
		OccurredAt:    row.OccurredAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.logger.Error("audit insert failed",
			"event", "admin_audit_insert_failed",
			"module", "internal-ops/admin-dashboard-service",
			"layer", "adapter",
			"action", row.Action,
			"error", err.Error(),
		)
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (r *Repository) ListAuditLogs(ctx context.Context, query ports.AuditQuery) ([]ports.AuditLog, error) {
	tx := r.db.WithContext(ctx).Model(&auditRow{})
	if query.Action != "" {
		tx = tx.Where("action = ?", query.Action)
	}
	if query.TargetID != "" {
		tx = tx.Where("target_id = ?", query.TargetID)
	}
	if query.ActorID != "" {
		tx = tx.Where("actor_id = ?", query.ActorID)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var rows []auditRow
	if err := tx.Order("occurred_at DESC").Order("audit_id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	out := make([]ports.AuditLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.AuditLog{
			AuditID:       row.AuditID,
			ActorID:       row.ActorID,
			Action:        row.Action,
			TargetID:      row.TargetID,
			Justification: row.Justification,
			SourceIP:      row.SourceIP,
			CorrelationID: row.CorrelationID,
			OccurredAt:    row.OccurredAt.UTC(),
		})
	}
	return out, nil
}

func (r *Repository) Lookup(ctx context.Context, key string, now time.Time) (*ports.ActionRecord, error) {
	var row actionRecordRow
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ? AND expires_at > ? AND response_body IS NOT NULL", key, now).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup admin request id: %w", err)
	}
	return &ports.ActionRecord{
		Key:          row.Key,
		RequestHash:  row.RequestHash,
		ResponseBody: row.ResponseBody,
		ExpiresAt:    row.ExpiresAt,
	}, nil
}

// Reserve locks the key row so two concurrent retries cannot both claim it.
func (r *Repository) Reserve(ctx context.Context, key string, requestHash string, now time.Time, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing actionRecordRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("idempotency_key = ?", key).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&actionRecordRow{Key: key, RequestHash: requestHash, ExpiresAt: expiresAt}).Error
		}
		if err != nil {
			return fmt.Errorf("reserve admin request id: %w", err)
		}
		if now.Before(existing.ExpiresAt) {
			if existing.RequestHash != requestHash {
				return domainerrors.ErrIdempotencyConflict
			}
			return nil
		}
		return tx.Model(&actionRecordRow{}).
			Where("idempotency_key = ?", key).
			Updates(map[string]any{"request_hash": requestHash, "response_body": nil, "expires_at": expiresAt}).Error
	})
}

func (r *Repository) Complete(ctx context.Context, key string, responseBody []byte) error {
	err := r.db.WithContext(ctx).
		Model(&actionRecordRow{}).
		Where("idempotency_key = ?", key).
		Update("response_body", responseBody).Error
	if err != nil {
		return fmt.Errorf("complete admin request id: %w", err)
	}
	return nil
}

func (r *Repository) Now() time.Time {
	return time.Now().UTC()
}

func (r *Repository) NewID(context.Context) (string, error) {
	return uuid.NewString(), nil
}

type auditRow struct {
	AuditID       string    `gorm:"column:audit_id;primaryKey"`
	ActorID       string    `gorm:"column:actor_id"`
	Action        string    `gorm:"column:action"`
	TargetID      string    `gorm:"column:target_id"`
	Justification string    `gorm:"column:justification"`
	SourceIP      string    `gorm:"column:source_ip"`
	CorrelationID string    `gorm:"column:correlation_id"`
	OccurredAt    time.Time `gorm:"column:occurred_at"`
}

func (auditRow) TableName() string { return "admin_audit_logs" }

type actionRecordRow struct {
	Key          string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash  string    `gorm:"column:request_hash"`
	ResponseBody []byte    `gorm:"column:response_body"`
	ExpiresAt    time.Time `gorm:"column:expires_at"`
}

func (actionRecordRow) TableName() string { return "admin_action_idempotency" }
