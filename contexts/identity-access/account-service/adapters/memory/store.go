package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing account-service ports for local
// runtime and tests.
type Store struct {
	mu      sync.RWMutex
	users   map[string]entities.User
	byEmail map[string]string
	logger  *slog.Logger
}

func NewStore(seed []entities.User, logger *slog.Logger) *Store {
	store := &Store{
		users:   make(map[string]entities.User, len(seed)),
		byEmail: make(map[string]string, len(seed)),
		logger:  application.ResolveLogger(logger),
	}
	for _, user := range seed {
		user.Email = strings.ToLower(user.Email)
		store.users[user.UserID] = user.Clone()
		store.byEmail[user.Email] = user.UserID
	}
	return store
}

func (s *Store) CreateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return domainerrors.ErrEmailTaken
	}
	if _, exists := s.users[user.UserID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.users[user.UserID] = user.Clone()
	s.byEmail[user.Email] = user.UserID
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (entities.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return entities.User{}, false, nil
	}
	return s.users[id].Clone(), true, nil
}

func (s *Store) UpdateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[user.UserID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	next := user.Clone()
	next.Email = current.Email
	next.CreatedAt = current.CreatedAt
	if next.Student != nil {
		next.Student.Documents = nil
		if current.Student != nil {
			next.Student.Documents = append([]entities.VerificationDocument(nil), current.Student.Documents...)
		}
	}
	s.users[user.UserID] = next
	return nil
}

func (s *Store) AddDocument(_ context.Context, doc entities.VerificationDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[doc.UserID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	if user.Student == nil {
		return domainerrors.ErrStudentProfileNotFound
	}
	user.Student.Documents = append(user.Student.Documents, doc)
	s.users[doc.UserID] = user
	return nil
}

func (s *Store) SetDocumentsVerified(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	if user.Student == nil {
		return nil
	}
	for i := range user.Student.Documents {
		user.Student.Documents[i].Verified = true
	}
	return nil
}

func (s *Store) ListUsers(_ context.Context, filter ports.UserListFilter) ([]entities.User, int, error) {
	items := s.collect(func(u entities.User) bool {
		return filter.Role == "" || u.Role == filter.Role
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].UserID < items[j].UserID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	total := len(items)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < total {
		end = start + filter.Limit
	}
	return items[start:end], total, nil
}

func (s *Store) ListStudents(_ context.Context, status entities.VerificationStatus) ([]entities.User, error) {
	items := s.collect(func(u entities.User) bool {
		return u.Student != nil && (status == "" || u.Student.VerificationStatus == status)
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Student.CreatedAt.Equal(items[j].Student.CreatedAt) {
			return items[i].UserID < items[j].UserID
		}
		return items[i].Student.CreatedAt.After(items[j].Student.CreatedAt)
	})
	return items, nil
}

func (s *Store) FindStudentIDs(_ context.Context, filter ports.StudentFilter) ([]string, error) {
	items := s.collect(func(u entities.User) bool {
		if u.Student == nil {
			return false
		}
		if filter.Country != "" && !strings.EqualFold(u.Student.Country, filter.Country) {
			return false
		}
		if filter.FieldOfStudy != "" && !strings.EqualFold(u.Student.FieldOfStudy, filter.FieldOfStudy) {
			return false
		}
		return true
	})
	ids := make([]string, 0, len(items))
	for _, user := range items {
		ids = append(ids, user.UserID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) GetUsersByIDs(_ context.Context, userIDs []string) (map[string]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]entities.User, len(userIDs))
	for _, id := range userIDs {
		if user, ok := s.users[id]; ok && !user.Deleted {
			out[id] = user.Clone()
		}
	}
	return out, nil
}

func (s *Store) UserStats(_ context.Context) (ports.UserStats, error) {
	var stats ports.UserStats
	for _, user := range s.collect(func(entities.User) bool { return true }) {
		stats.Total++
		switch user.Role {
		case entities.RoleStudent:
			stats.Students++
		case entities.RoleDonor:
			stats.Donors++
		case entities.RoleAdmin:
			stats.Admins++
		}
		if user.Student == nil {
			continue
		}
		switch user.Student.VerificationStatus {
		case entities.VerificationPending:
			stats.Pending++
		case entities.VerificationVerified:
			stats.Verified++
		case entities.VerificationRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// collect returns clones of non-deleted users matching keep.
func (s *Store) collect(keep func(entities.User) bool) []entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.User, 0)
	for _, user := range s.users {
		if !user.Deleted && keep(user) {
			items = append(items, user.Clone())
		}
	}
	return items
}
