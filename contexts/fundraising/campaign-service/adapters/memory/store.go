package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing campaign-service ports for local
// runtime and tests. Ledger transitions run inside one critical section, which
// gives the same exactly-once guarantee as the conditional SQL update.
type Store struct {
	mu              sync.RWMutex
	campaigns       map[string]entities.Campaign
	donations       map[string]entities.Donation
	bySession       map[string]string
	byIdempotency   map[string]string
	byPaymentIntent map[string]string
	logger          *slog.Logger
}

func NewStore(seed []entities.Campaign, logger *slog.Logger) *Store {
	campaigns := make(map[string]entities.Campaign, len(seed))
	for _, campaign := range seed {
		campaigns[campaign.CampaignID] = campaign
	}
	return &Store{
		campaigns:       campaigns,
		donations:       make(map[string]entities.Donation),
		bySession:       make(map[string]string),
		byIdempotency:   make(map[string]string),
		byPaymentIntent: make(map[string]string),
		logger:          application.ResolveLogger(logger),
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaign, ok := s.campaigns[campaignID]
	if !ok {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *Store) UpdateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.campaigns[campaign.CampaignID]
	if !ok {
		return domainerrors.ErrCampaignNotFound
	}
	// Funding totals and status belong to the ledger and the status path.
	campaign.RaisedAmountCents = current.RaisedAmountCents
	campaign.DonorCount = current.DonorCount
	campaign.Status = current.Status
	campaign.StatusReason = current.StatusReason
	campaign.StudentID = current.StudentID
	campaign.CreatedAt = current.CreatedAt
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) UpdateCampaignStatus(
	_ context.Context,
	campaignID string,
	from entities.CampaignStatus,
	to entities.CampaignStatus,
	reason string,
	at time.Time,
) (entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, ok := s.campaigns[campaignID]
	if !ok {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	if campaign.Status != from {
		return entities.Campaign{}, domainerrors.ErrCampaignStatusConflict
	}
	campaign.Status = to
	campaign.StatusReason = strings.TrimSpace(reason)
	campaign.UpdatedAt = at
	s.campaigns[campaignID] = campaign
	return campaign, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignListFilter) ([]entities.Campaign, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var students map[string]struct{}
	if filter.RestrictStudents {
		students = make(map[string]struct{}, len(filter.StudentIDs))
		for _, id := range filter.StudentIDs {
			students[id] = struct{}{}
		}
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	filtered := make([]entities.Campaign, 0)
	for _, campaign := range s.campaigns {
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		if filter.Category != "" && campaign.Category != filter.Category {
			continue
		}
		if students != nil {
			if _, ok := students[campaign.StudentID]; !ok {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(campaign.Title), search) &&
			!strings.Contains(strings.ToLower(campaign.Story), search) {
			continue
		}
		filtered = append(filtered, campaign)
	}
	sortNewestFirst(filtered)

	total := len(filtered)
	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < total {
		end = start + filter.Limit
	}

	s.logger.Debug("campaigns listed from memory store",
		"event", "memory_list_campaigns",
		"module", "fundraising/campaign-service",
		"layer", "adapter",
		"start", start,
		"end", end,
		"total", total,
	)
	return append([]entities.Campaign(nil), filtered[start:end]...), total, nil
}

func (s *Store) ListCampaignsByStudent(_ context.Context, studentID string) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Campaign, 0)
	for _, campaign := range s.campaigns {
		if campaign.StudentID == studentID {
			items = append(items, campaign)
		}
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *Store) CampaignStats(_ context.Context) (ports.CampaignStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := ports.CampaignStats{Total: len(s.campaigns)}
	for _, campaign := range s.campaigns {
		switch campaign.Status {
		case entities.CampaignStatusActive:
			stats.Active++
		case entities.CampaignStatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

func (s *Store) CreatePendingDonation(_ context.Context, donation entities.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byIdempotency[donation.IdempotencyKey]; exists && donation.IdempotencyKey != "" {
		return domainerrors.ErrDuplicateIdempotencyKey
	}
	if _, exists := s.bySession[donation.StripeSessionID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	if _, exists := s.donations[donation.DonationID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.donations[donation.DonationID] = donation
	s.bySession[donation.StripeSessionID] = donation.DonationID
	if donation.IdempotencyKey != "" {
		s.byIdempotency[donation.IdempotencyKey] = donation.DonationID
	}
	return nil
}

func (s *Store) GetDonationByIdempotencyKey(_ context.Context, key string) (entities.Donation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byIdempotency[key]
	if !ok {
		return entities.Donation{}, false, nil
	}
	return s.withCampaignTitle(s.donations[id]), true, nil
}

func (s *Store) GetDonationBySession(_ context.Context, sessionID string) (entities.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySession[sessionID]
	if !ok {
		return entities.Donation{}, domainerrors.ErrDonationNotFound
	}
	return s.withCampaignTitle(s.donations[id]), nil
}

func (s *Store) ListPaidDonationsByCampaign(_ context.Context, campaignID string, limit int) ([]entities.Donation, error) {
	return s.listPaid(func(d entities.Donation) bool { return d.CampaignID == campaignID }, limit), nil
}

func (s *Store) ListPaidDonationsByDonor(_ context.Context, donorID string) ([]entities.Donation, error) {
	if strings.TrimSpace(donorID) == "" {
		return []entities.Donation{}, nil
	}
	return s.listPaid(func(d entities.Donation) bool { return d.DonorID == donorID }, 0), nil
}

func (s *Store) DonationStats(_ context.Context) (ports.DonationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats ports.DonationStats
	for _, donation := range s.donations {
		if donation.PaymentStatus == entities.PaymentStatusPaid {
			stats.TotalCount++
			stats.TotalAmountCents += donation.AmountCents
		}
	}
	return stats, nil
}

func (s *Store) MarkDonationPaid(_ context.Context, sessionID string, paymentIntent string, at time.Time) (ports.PaymentTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.bySession[sessionID]
	if !ok {
		return ports.PaymentTransition{}, domainerrors.ErrDonationNotFound
	}
	donation := s.donations[id]
	if donation.PaymentStatus != entities.PaymentStatusPending {
		return ports.PaymentTransition{Donation: s.withCampaignTitle(donation)}, nil
	}

	campaign, ok := s.campaigns[donation.CampaignID]
	if !ok {
		return ports.PaymentTransition{}, domainerrors.ErrRepositoryInvariantBroke
	}

	donation.PaymentStatus = entities.PaymentStatusPaid
	donation.UpdatedAt = at
	if strings.TrimSpace(paymentIntent) != "" {
		donation.StripePaymentIntent = paymentIntent
		s.byPaymentIntent[paymentIntent] = donation.DonationID
	}
	completed := campaign.ApplyPaidDonation(donation.AmountCents, at)

	s.donations[donation.DonationID] = donation
	s.campaigns[campaign.CampaignID] = campaign
	donation.CampaignTitle = campaign.Title
	return ports.PaymentTransition{Donation: donation, Applied: true, CampaignCompleted: completed}, nil
}

func (s *Store) MarkDonationUnpaid(_ context.Context, sessionID string, status entities.PaymentStatus, at time.Time) (ports.PaymentTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.bySession[sessionID]
	if !ok {
		return ports.PaymentTransition{}, domainerrors.ErrDonationNotFound
	}
	donation := s.donations[id]
	if !donation.PaymentStatus.CanTransition(status) || status == entities.PaymentStatusPaid {
		return ports.PaymentTransition{Donation: s.withCampaignTitle(donation)}, nil
	}
	donation.PaymentStatus = status
	donation.UpdatedAt = at
	s.donations[donation.DonationID] = donation
	return ports.PaymentTransition{Donation: s.withCampaignTitle(donation), Applied: true}, nil
}

func (s *Store) RefundDonation(_ context.Context, paymentIntent string, refundCents int64, at time.Time) (ports.PaymentTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byPaymentIntent[paymentIntent]
	if !ok {
		return ports.PaymentTransition{}, domainerrors.ErrDonationNotFound
	}
	donation := s.donations[id]
	if donation.PaymentStatus != entities.PaymentStatusPaid {
		return ports.PaymentTransition{Donation: s.withCampaignTitle(donation)}, nil
	}
	campaign, ok := s.campaigns[donation.CampaignID]
	if !ok {
		return ports.PaymentTransition{}, domainerrors.ErrRepositoryInvariantBroke
	}

	refundedAt := at
	donation.PaymentStatus = entities.PaymentStatusRefunded
	donation.RefundAmountCents = refundCents
	donation.RefundedAt = &refundedAt
	donation.UpdatedAt = at
	campaign.ApplyRefund(refundCents, at)

	s.donations[donation.DonationID] = donation
	s.campaigns[campaign.CampaignID] = campaign
	donation.CampaignTitle = campaign.Title
	return ports.PaymentTransition{Donation: donation, Applied: true}, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) listPaid(match func(entities.Donation) bool, limit int) []entities.Donation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Donation, 0)
	for _, donation := range s.donations {
		if donation.PaymentStatus == entities.PaymentStatusPaid && match(donation) {
			items = append(items, s.withCampaignTitle(donation))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].DonationID < items[j].DonationID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// withCampaignTitle must be called with s.mu held.
func (s *Store) withCampaignTitle(donation entities.Donation) entities.Donation {
	if campaign, ok := s.campaigns[donation.CampaignID]; ok {
		donation.CampaignTitle = campaign.Title
	}
	return donation
}

func sortNewestFirst(items []entities.Campaign) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CampaignID < items[j].CampaignID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
