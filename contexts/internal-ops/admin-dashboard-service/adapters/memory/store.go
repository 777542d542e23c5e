package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	domainerrors "funded/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"funded/contexts/internal-ops/admin-dashboard-service/ports"

	"github.com/google/uuid"
)

// Store is the audit trail for demos and tests. Rows are kept in append order
// so listing newest first never depends on clock resolution.
type Store struct {
	mu      sync.Mutex
	trail   []ports.AuditLog
	records map[string]ports.ActionRecord
}

func NewStore() *Store {
	return &Store{records: make(map[string]ports.ActionRecord)}
}

func (s *Store) AppendAuditLog(_ context.Context, row ports.AuditLog) error {
	s.mu.Lock()
	s.trail = append(s.trail, row)
	s.mu.Unlock()
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, query ports.AuditQuery) ([]ports.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ports.AuditLog
	for i := len(s.trail) - 1; i >= 0; i-- {
		row := s.trail[i]
		if !matches(row, query) {
			continue
		}
		out = append(out, row)
		if query.Limit > 0 && len(out) == query.Limit {
			break
		}
	}
	return out, nil
}

func matches(row ports.AuditLog, query ports.AuditQuery) bool {
	return (query.Action == "" || row.Action == query.Action) &&
		(query.TargetID == "" || row.TargetID == query.TargetID) &&
		(query.ActorID == "" || row.ActorID == query.ActorID)
}

func (s *Store) Lookup(_ context.Context, key string, now time.Time) (*ports.ActionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	switch {
	case !ok:
		return nil, nil
	case !now.Before(record.ExpiresAt):
		delete(s.records, key)
		return nil, nil
	case record.ResponseBody == nil:
		return nil, nil
	}
	record.ResponseBody = slices.Clone(record.ResponseBody)
	return &record, nil
}

// Reserve claims key for requestHash. A live reservation for another payload
// is a conflict; an expired one is replaced.
func (s *Store) Reserve(_ context.Context, key string, requestHash string, now time.Time, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[key]; ok && now.Before(record.ExpiresAt) {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}
	s.records[key] = ports.ActionRecord{Key: key, RequestHash: requestHash, ExpiresAt: expiresAt}
	return nil
}

func (s *Store) Complete(_ context.Context, key string, responseBody []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[key]; ok {
		record.ResponseBody = slices.Clone(responseBody)
		s.records[key] = record
	}
	return nil
}

func (s *Store) Now() time.Time { return time.Now().UTC() }

func (s *Store) NewID(context.Context) (string, error) { return uuid.NewString(), nil }
