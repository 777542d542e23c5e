package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const idempotencyKeyConstraint = "ux_donations_idempotency_key"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row := campaignModelFromEntity(campaign)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, campaign entities.Campaign) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaign.CampaignID)).
		Updates(map[string]any{
			"title":               strings.TrimSpace(campaign.Title),
			"story":               strings.TrimSpace(campaign.Story),
			"category":            string(campaign.Category),
			"target_amount_cents": campaign.TargetAmountCents,
			"timeline":            strings.TrimSpace(campaign.Timeline),
			"impact_log":          strings.TrimSpace(campaign.ImpactLog),
			"updated_at":          campaign.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) UpdateCampaignStatus(
	ctx context.Context,
	campaignID string,
	from entities.CampaignStatus,
	to entities.CampaignStatus,
	reason string,
	at time.Time,
) (entities.Campaign, error) {
	id := strings.TrimSpace(campaignID)
	var updated entities.Campaign
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swapped := tx.Model(&campaignModel{}).
			Where("campaign_id = ? AND status = ?", id, string(from)).
			Updates(map[string]any{
				"status":        string(to),
				"status_reason": strings.TrimSpace(reason),
				"updated_at":    at.UTC(),
			})
		if swapped.Error != nil {
			return swapped.Error
		}

		var row campaignModel
		if err := tx.Where("campaign_id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCampaignNotFound
			}
			return err
		}
		if swapped.RowsAffected == 0 {
			r.logger.Warn("campaign status compare-and-swap lost",
				"event", "campaign_status_conflict",
				"module", "fundraising/campaign-service",
				"layer", "adapter",
				"campaign_id", id,
				"expected", from,
				"actual", row.Status,
			)
			return domainerrors.ErrCampaignStatusConflict
		}
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Campaign{}, err
	}
	return updated, nil
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignListFilter) ([]entities.Campaign, int, error) {
	if filter.RestrictStudents && len(filter.StudentIDs) == 0 {
		return []entities.Campaign{}, 0, nil
	}

	scoped := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&campaignModel{})
		if filter.Status != "" {
			tx = tx.Where("status = ?", string(filter.Status))
		}
		if filter.Category != "" {
			tx = tx.Where("category = ?", string(filter.Category))
		}
		if filter.RestrictStudents {
			tx = tx.Where("student_id IN ?", filter.StudentIDs)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			pattern := "%" + escapeLike(search) + "%"
			tx = tx.Where("(title ILIKE ? OR story ILIKE ?)", pattern, pattern)
		}
		return tx
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := scoped().Order("created_at DESC").Order("campaign_id ASC")
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var rows []campaignModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, int(total), nil
}

func (r *Repository) ListCampaignsByStudent(ctx context.Context, studentID string) ([]entities.Campaign, error) {
	var rows []campaignModel
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", strings.TrimSpace(studentID)).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CampaignStats(ctx context.Context) (ports.CampaignStats, error) {
	var row struct {
		Total     int64
		Active    int64
		Completed int64
	}
	err := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Select(
			"COUNT(*) AS total, " +
				"COUNT(*) FILTER (WHERE status = 'active') AS active, " +
				"COUNT(*) FILTER (WHERE status = 'completed') AS completed",
		).
		Scan(&row).
		Error
	if err != nil {
		return ports.CampaignStats{}, err
	}
	return ports.CampaignStats{
		Total:     int(row.Total),
		Active:    int(row.Active),
		Completed: int(row.Completed),
	}, nil
}

func (r *Repository) CreatePendingDonation(ctx context.Context, donation entities.Donation) error {
	row := donationModelFromEntity(donation)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == idempotencyKeyConstraint {
				return domainerrors.ErrDuplicateIdempotencyKey
			}
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) GetDonationByIdempotencyKey(ctx context.Context, key string) (entities.Donation, bool, error) {
	var row donationModel
	err := r.donationsWithTitle(ctx).
		Where("donations.idempotency_key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Donation{}, false, nil
		}
		return entities.Donation{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetDonationBySession(ctx context.Context, sessionID string) (entities.Donation, error) {
	var row donationModel
	err := r.donationsWithTitle(ctx).
		Where("donations.stripe_session_id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Donation{}, domainerrors.ErrDonationNotFound
		}
		return entities.Donation{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPaidDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]entities.Donation, error) {
	query := r.donationsWithTitle(ctx).
		Where("donations.campaign_id = ? AND donations.payment_status = ?",
			strings.TrimSpace(campaignID), string(entities.PaymentStatusPaid)).
		Order("donations.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return findDonations(query)
}

func (r *Repository) ListPaidDonationsByDonor(ctx context.Context, donorID string) ([]entities.Donation, error) {
	if strings.TrimSpace(donorID) == "" {
		return []entities.Donation{}, nil
	}
	return findDonations(r.donationsWithTitle(ctx).
		Where("donations.donor_id = ? AND donations.payment_status = ?",
			strings.TrimSpace(donorID), string(entities.PaymentStatusPaid)).
		Order("donations.created_at DESC"))
}

func (r *Repository) DonationStats(ctx context.Context) (ports.DonationStats, error) {
	var row struct {
		TotalAmountCents int64
		TotalCount       int64
	}
	err := r.db.WithContext(ctx).
		Model(&donationModel{}).
		Select("COALESCE(SUM(amount_cents), 0) AS total_amount_cents, COUNT(*) AS total_count").
		Where("payment_status = ?", string(entities.PaymentStatusPaid)).
		Scan(&row).
		Error
	if err != nil {
		return ports.DonationStats{}, err
	}
	return ports.DonationStats{
		TotalAmountCents: row.TotalAmountCents,
		TotalCount:       int(row.TotalCount),
	}, nil
}

// MarkDonationPaid moves a pending donation to paid and credits the campaign in
// the same transaction. The donation row lock plus the status predicate on the
// update make concurrent deliveries of one event credit the campaign once.
func (r *Repository) MarkDonationPaid(
	ctx context.Context,
	sessionID string,
	paymentIntent string,
	at time.Time,
) (ports.PaymentTransition, error) {
	result := ports.PaymentTransition{}
	at = at.UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockDonation(tx, "stripe_session_id = ?", sessionID)
		if err != nil {
			return err
		}
		result.Donation = row.toEntity()
		if entities.PaymentStatus(row.PaymentStatus) != entities.PaymentStatusPending {
			return nil
		}

		updates := map[string]any{
			"payment_status": string(entities.PaymentStatusPaid),
			"updated_at":     at,
		}
		if intent := strings.TrimSpace(paymentIntent); intent != "" {
			updates["stripe_payment_intent"] = intent
		}
		swapped := tx.Model(&donationModel{}).
			Where("donation_id = ? AND payment_status = ?", row.DonationID, string(entities.PaymentStatusPending)).
			Updates(updates)
		if swapped.Error != nil {
			return swapped.Error
		}
		if swapped.RowsAffected == 0 {
			return nil
		}

		campaign, err := lockCampaign(tx, row.CampaignID)
		if err != nil {
			return err
		}
		completed := campaign.ApplyPaidDonation(row.AmountCents, at)
		if err := writeCampaignTotals(tx, campaign); err != nil {
			return err
		}

		donation := row.toEntity()
		donation.PaymentStatus = entities.PaymentStatusPaid
		donation.UpdatedAt = at
		if intent, ok := updates["stripe_payment_intent"].(string); ok {
			donation.StripePaymentIntent = intent
		}
		donation.CampaignTitle = campaign.Title
		result = ports.PaymentTransition{Donation: donation, Applied: true, CampaignCompleted: completed}
		return nil
	})
	if err != nil {
		return ports.PaymentTransition{}, err
	}
	if result.CampaignCompleted {
		r.logger.Info("campaign reached funding target",
			"event", "campaign_funding_completed",
			"module", "fundraising/campaign-service",
			"layer", "adapter",
			"campaign_id", result.Donation.CampaignID,
		)
	}
	return result, nil
}

func (r *Repository) MarkDonationUnpaid(
	ctx context.Context,
	sessionID string,
	status entities.PaymentStatus,
	at time.Time,
) (ports.PaymentTransition, error) {
	if status == entities.PaymentStatusPaid || !entities.PaymentStatusPending.CanTransition(status) {
		return ports.PaymentTransition{}, domainerrors.ErrRepositoryInvariantBroke
	}
	result := ports.PaymentTransition{}
	at = at.UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockDonation(tx, "stripe_session_id = ?", sessionID)
		if err != nil {
			return err
		}
		result.Donation = row.toEntity()
		swapped := tx.Model(&donationModel{}).
			Where("donation_id = ? AND payment_status = ?", row.DonationID, string(entities.PaymentStatusPending)).
			Updates(map[string]any{
				"payment_status": string(status),
				"updated_at":     at,
			})
		if swapped.Error != nil {
			return swapped.Error
		}
		if swapped.RowsAffected == 0 {
			return nil
		}
		result.Donation.PaymentStatus = status
		result.Donation.UpdatedAt = at
		result.Applied = true
		return nil
	})
	if err != nil {
		return ports.PaymentTransition{}, err
	}
	return result, nil
}

func (r *Repository) RefundDonation(
	ctx context.Context,
	paymentIntent string,
	refundCents int64,
	at time.Time,
) (ports.PaymentTransition, error) {
	result := ports.PaymentTransition{}
	at = at.UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockDonation(tx, "stripe_payment_intent = ?", paymentIntent)
		if err != nil {
			return err
		}
		result.Donation = row.toEntity()
		swapped := tx.Model(&donationModel{}).
			Where("donation_id = ? AND payment_status = ?", row.DonationID, string(entities.PaymentStatusPaid)).
			Updates(map[string]any{
				"payment_status":      string(entities.PaymentStatusRefunded),
				"refund_amount_cents": refundCents,
				"refunded_at":         at,
				"updated_at":          at,
			})
		if swapped.Error != nil {
			return swapped.Error
		}
		if swapped.RowsAffected == 0 {
			return nil
		}

		campaign, err := lockCampaign(tx, row.CampaignID)
		if err != nil {
			return err
		}
		campaign.ApplyRefund(refundCents, at)
		if err := writeCampaignTotals(tx, campaign); err != nil {
			return err
		}

		refundedAt := at
		donation := row.toEntity()
		donation.PaymentStatus = entities.PaymentStatusRefunded
		donation.RefundAmountCents = refundCents
		donation.RefundedAt = &refundedAt
		donation.UpdatedAt = at
		donation.CampaignTitle = campaign.Title
		result = ports.PaymentTransition{Donation: donation, Applied: true}
		return nil
	})
	if err != nil {
		return ports.PaymentTransition{}, err
	}
	return result, nil
}

func (r *Repository) donationsWithTitle(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&donationModel{}).
		Select("donations.*, campaigns.title AS campaign_title").
		Joins("LEFT JOIN campaigns ON campaigns.campaign_id = donations.campaign_id")
}

func findDonations(query *gorm.DB) ([]entities.Donation, error) {
	var rows []donationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Donation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func lockDonation(tx *gorm.DB, where string, value string) (donationModel, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return donationModel{}, domainerrors.ErrDonationNotFound
	}
	var row donationModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(where, value).
		First(&row).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return donationModel{}, domainerrors.ErrDonationNotFound
		}
		return donationModel{}, err
	}
	return row, nil
}

func lockCampaign(tx *gorm.DB, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("campaign_id = ?", campaignID).
		First(&row).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrRepositoryInvariantBroke
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func writeCampaignTotals(tx *gorm.DB, campaign entities.Campaign) error {
	result := tx.Model(&campaignModel{}).
		Where("campaign_id = ?", campaign.CampaignID).
		Updates(map[string]any{
			"raised_amount_cents": campaign.RaisedAmountCents,
			"donor_count":         campaign.DonorCount,
			"status":              string(campaign.Status),
			"updated_at":          campaign.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

type campaignModel struct {
	CampaignID        string    `gorm:"column:campaign_id;primaryKey"`
	StudentID         string    `gorm:"column:student_id"`
	Title             string    `gorm:"column:title"`
	Story             string    `gorm:"column:story"`
	Category          string    `gorm:"column:category"`
	TargetAmountCents int64     `gorm:"column:target_amount_cents"`
	RaisedAmountCents int64     `gorm:"column:raised_amount_cents"`
	DonorCount        int       `gorm:"column:donor_count"`
	Timeline          string    `gorm:"column:timeline"`
	ImpactLog         string    `gorm:"column:impact_log"`
	Status            string    `gorm:"column:status"`
	StatusReason      string    `gorm:"column:status_reason"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:        m.CampaignID,
		StudentID:         m.StudentID,
		Title:             m.Title,
		Story:             m.Story,
		Category:          entities.CampaignCategory(m.Category),
		TargetAmountCents: m.TargetAmountCents,
		RaisedAmountCents: m.RaisedAmountCents,
		DonorCount:        m.DonorCount,
		Timeline:          m.Timeline,
		ImpactLog:         m.ImpactLog,
		Status:            entities.CampaignStatus(m.Status),
		StatusReason:      m.StatusReason,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

func campaignModelFromEntity(campaign entities.Campaign) campaignModel {
	return campaignModel{
		CampaignID:        strings.TrimSpace(campaign.CampaignID),
		StudentID:         strings.TrimSpace(campaign.StudentID),
		Title:             strings.TrimSpace(campaign.Title),
		Story:             strings.TrimSpace(campaign.Story),
		Category:          string(campaign.Category),
		TargetAmountCents: campaign.TargetAmountCents,
		RaisedAmountCents: campaign.RaisedAmountCents,
		DonorCount:        campaign.DonorCount,
		Timeline:          strings.TrimSpace(campaign.Timeline),
		ImpactLog:         strings.TrimSpace(campaign.ImpactLog),
		Status:            string(campaign.Status),
		StatusReason:      strings.TrimSpace(campaign.StatusReason),
		CreatedAt:         campaign.CreatedAt.UTC(),
		UpdatedAt:         campaign.UpdatedAt.UTC(),
	}
}

type donationModel struct {
	DonationID          string     `gorm:"column:donation_id;primaryKey"`
	CampaignID          string     `gorm:"column:campaign_id"`
	CampaignTitle       string     `gorm:"column:campaign_title;->"`
	DonorID             *string    `gorm:"column:donor_id"`
	DonorName           string     `gorm:"column:donor_name"`
	DonorEmail          string     `gorm:"column:donor_email"`
	AmountCents         int64      `gorm:"column:amount_cents"`
	Currency            string     `gorm:"column:currency"`
	Anonymous           bool       `gorm:"column:anonymous"`
	StripeSessionID     string     `gorm:"column:stripe_session_id"`
	CheckoutURL         string     `gorm:"column:checkout_url"`
	StripePaymentIntent *string    `gorm:"column:stripe_payment_intent"`
	PaymentStatus       string     `gorm:"column:payment_status"`
	IdempotencyKey      *string    `gorm:"column:idempotency_key"`
	RefundAmountCents   int64      `gorm:"column:refund_amount_cents"`
	RefundedAt          *time.Time `gorm:"column:refunded_at"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (donationModel) TableName() string {
	return "donations"
}

func (m donationModel) toEntity() entities.Donation {
	var refundedAt *time.Time
	if m.RefundedAt != nil {
		value := m.RefundedAt.UTC()
		refundedAt = &value
	}
	return entities.Donation{
		DonationID:          m.DonationID,
		CampaignID:          m.CampaignID,
		CampaignTitle:       m.CampaignTitle,
		DonorID:             derefString(m.DonorID),
		DonorName:           m.DonorName,
		DonorEmail:          m.DonorEmail,
		AmountCents:         m.AmountCents,
		Currency:            m.Currency,
		Anonymous:           m.Anonymous,
		StripeSessionID:     m.StripeSessionID,
		CheckoutURL:         m.CheckoutURL,
		StripePaymentIntent: derefString(m.StripePaymentIntent),
		PaymentStatus:       entities.PaymentStatus(m.PaymentStatus),
		IdempotencyKey:      derefString(m.IdempotencyKey),
		RefundAmountCents:   m.RefundAmountCents,
		RefundedAt:          refundedAt,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}

func donationModelFromEntity(donation entities.Donation) donationModel {
	return donationModel{
		DonationID:          strings.TrimSpace(donation.DonationID),
		CampaignID:          strings.TrimSpace(donation.CampaignID),
		DonorID:             optionalString(donation.DonorID),
		DonorName:           strings.TrimSpace(donation.DonorName),
		DonorEmail:          strings.TrimSpace(donation.DonorEmail),
		AmountCents:         donation.AmountCents,
		Currency:            strings.TrimSpace(donation.Currency),
		Anonymous:           donation.Anonymous,
		StripeSessionID:     strings.TrimSpace(donation.StripeSessionID),
		CheckoutURL:         strings.TrimSpace(donation.CheckoutURL),
		StripePaymentIntent: optionalString(donation.StripePaymentIntent),
		PaymentStatus:       string(donation.PaymentStatus),
		IdempotencyKey:      optionalString(donation.IdempotencyKey),
		RefundAmountCents:   donation.RefundAmountCents,
		RefundedAt:          donation.RefundedAt,
		CreatedAt:           donation.CreatedAt.UTC(),
		UpdatedAt:           donation.UpdatedAt.UTC(),
	}
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
