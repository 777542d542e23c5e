package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const emailConstraint = "ux_users_email"

// Repository is the gorm-backed UserRepository. Student profile columns live
// on the users row; documents are a child table.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: application.ResolveLogger(logger)}
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	model := fromUser(user)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) && constraintName(err) == emailConstraint {
			return domainerrors.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var model userModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("get user: %w", err)
	}
	return r.withDocuments(ctx, model)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (entities.User, bool, error) {
	var model userModel
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.User{}, false, nil
	}
	if err != nil {
		return entities.User{}, false, fmt.Errorf("get user by email: %w", err)
	}
	user, err := r.withDocuments(ctx, model)
	if err != nil {
		return entities.User{}, false, err
	}
	return user, true, nil
}

func (r *Repository) UpdateUser(ctx context.Context, user entities.User) error {
	model := fromUser(user)
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", user.UserID).
		Select(
			"name", "image", "role", "deleted", "deleted_at", "updated_at",
			"student_country", "student_field_of_study", "student_university",
			"student_verification_status", "student_verified_at", "student_rejection_reason",
			"student_created_at", "student_updated_at",
		).
		Updates(&model)
	if result.Error != nil {
		return fmt.Errorf("update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) AddDocument(ctx context.Context, doc entities.VerificationDocument) error {
	model := fromDocument(doc)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("add verification document: %w", err)
	}
	return nil
}

func (r *Repository) SetDocumentsVerified(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Model(&documentModel{}).
		Where("user_id = ? AND verified = ?", userID, false).
		Update("verified", true).Error
	if err != nil {
		return fmt.Errorf("verify documents: %w", err)
	}
	return nil
}

func (r *Repository) ListUsers(ctx context.Context, filter ports.UserListFilter) ([]entities.User, int, error) {
	query := r.db.WithContext(ctx).Model(&userModel{}).Where("deleted = ?", false)
	if filter.Role != "" {
		query = query.Where("role = ?", string(filter.Role))
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var models []userModel
	page := query.Order("created_at DESC").Order("user_id ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}
	if err := page.Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	users, err := r.attachDocuments(ctx, models)
	if err != nil {
		return nil, 0, err
	}
	return users, int(total), nil
}

func (r *Repository) ListStudents(ctx context.Context, status entities.VerificationStatus) ([]entities.User, error) {
	query := r.db.WithContext(ctx).
		Where("deleted = ? AND student_verification_status IS NOT NULL", false)
	if status != "" {
		query = query.Where("student_verification_status = ?", string(status))
	}
	var models []userModel
	if err := query.Order("student_created_at DESC").Order("user_id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return r.attachDocuments(ctx, models)
}

func (r *Repository) FindStudentIDs(ctx context.Context, filter ports.StudentFilter) ([]string, error) {
	query := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("deleted = ? AND student_verification_status IS NOT NULL", false)
	if filter.Country != "" {
		query = query.Where("LOWER(student_country) = LOWER(?)", filter.Country)
	}
	if filter.FieldOfStudy != "" {
		query = query.Where("LOWER(student_field_of_study) = LOWER(?)", filter.FieldOfStudy)
	}
	var ids []string
	if err := query.Order("user_id ASC").Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("find student ids: %w", err)
	}
	return ids, nil
}

func (r *Repository) GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]entities.User, error) {
	out := make(map[string]entities.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var models []userModel
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND deleted = ?", userIDs, false).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	for _, model := range models {
		out[model.UserID] = model.toEntity(nil)
	}
	return out, nil
}

type userStatsRow struct {
	Total    int
	Students int
	Donors   int
	Admins   int
	Pending  int
	Verified int
	Rejected int
}

func (r *Repository) UserStats(ctx context.Context) (ports.UserStats, error) {
	var row userStatsRow
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE role = 'student') AS students,
			COUNT(*) FILTER (WHERE role = 'donor') AS donors,
			COUNT(*) FILTER (WHERE role = 'admin') AS admins,
			COUNT(*) FILTER (WHERE student_verification_status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE student_verification_status = 'verified') AS verified,
			COUNT(*) FILTER (WHERE student_verification_status = 'rejected') AS rejected`).
		Where("deleted = ?", false).
		Scan(&row).Error
	if err != nil {
		return ports.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	return ports.UserStats(row), nil
}

func (r *Repository) withDocuments(ctx context.Context, model userModel) (entities.User, error) {
	users, err := r.attachDocuments(ctx, []userModel{model})
	if err != nil {
		return entities.User{}, err
	}
	return users[0], nil
}

func (r *Repository) attachDocuments(ctx context.Context, models []userModel) ([]entities.User, error) {
	ids := make([]string, 0, len(models))
	for _, model := range models {
		if model.StudentVerificationStatus != nil {
			ids = append(ids, model.UserID)
		}
	}
	byUser := map[string][]documentModel{}
	if len(ids) > 0 {
		var docs []documentModel
		err := r.db.WithContext(ctx).
			Where("user_id IN ?", ids).
			Order("created_at ASC").
			Find(&docs).Error
		if err != nil {
			return nil, fmt.Errorf("load verification documents: %w", err)
		}
		for _, doc := range docs {
			byUser[doc.UserID] = append(byUser[doc.UserID], doc)
		}
	}
	users := make([]entities.User, 0, len(models))
	for _, model := range models {
		users = append(users, model.toEntity(byUser[model.UserID]))
	}
	return users, nil
}

type userModel struct {
	UserID                    string     `gorm:"column:user_id;primaryKey"`
	Email                     string     `gorm:"column:email"`
	Name                      string     `gorm:"column:name"`
	Image                     string     `gorm:"column:image"`
	Role                      string     `gorm:"column:role"`
	Deleted                   bool       `gorm:"column:deleted"`
	DeletedAt                 *time.Time `gorm:"column:deleted_at"`
	StudentCountry            *string    `gorm:"column:student_country"`
	StudentFieldOfStudy       *string    `gorm:"column:student_field_of_study"`
	StudentUniversity         *string    `gorm:"column:student_university"`
	StudentVerificationStatus *string    `gorm:"column:student_verification_status"`
	StudentVerifiedAt         *time.Time `gorm:"column:student_verified_at"`
	StudentRejectionReason    *string    `gorm:"column:student_rejection_reason"`
	StudentCreatedAt          *time.Time `gorm:"column:student_created_at"`
	StudentUpdatedAt          *time.Time `gorm:"column:student_updated_at"`
	CreatedAt                 time.Time  `gorm:"column:created_at"`
	UpdatedAt                 time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type documentModel struct {
	DocumentID string    `gorm:"column:document_id;primaryKey"`
	UserID     string    `gorm:"column:user_id"`
	Type       string    `gorm:"column:type"`
	URL        string    `gorm:"column:url"`
	ObjectKey  string    `gorm:"column:object_key"`
	Verified   bool      `gorm:"column:verified"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (documentModel) TableName() string { return "verification_documents" }

func fromUser(user entities.User) userModel {
	model := userModel{
		UserID:    user.UserID,
		Email:     strings.ToLower(user.Email),
		Name:      user.Name,
		Image:     user.Image,
		Role:      string(user.Role),
		Deleted:   user.Deleted,
		DeletedAt: user.DeletedAt,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if profile := user.Student; profile != nil {
		status := string(profile.VerificationStatus)
		createdAt := profile.CreatedAt
		updatedAt := profile.UpdatedAt
		model.StudentCountry = &profile.Country
		model.StudentFieldOfStudy = &profile.FieldOfStudy
		model.StudentUniversity = &profile.University
		model.StudentVerificationStatus = &status
		model.StudentVerifiedAt = profile.VerifiedAt
		model.StudentRejectionReason = optionalString(profile.RejectionReason)
		model.StudentCreatedAt = &createdAt
		model.StudentUpdatedAt = &updatedAt
	}
	return model
}

func (m userModel) toEntity(docs []documentModel) entities.User {
	user := entities.User{
		UserID:    m.UserID,
		Email:     m.Email,
		Name:      m.Name,
		Image:     m.Image,
		Role:      entities.Role(m.Role),
		Deleted:   m.Deleted,
		DeletedAt: m.DeletedAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.StudentVerificationStatus == nil {
		return user
	}
	profile := &entities.StudentProfile{
		Country:            derefString(m.StudentCountry),
		FieldOfStudy:       derefString(m.StudentFieldOfStudy),
		University:         derefString(m.StudentUniversity),
		VerificationStatus: entities.VerificationStatus(*m.StudentVerificationStatus),
		VerifiedAt:         m.StudentVerifiedAt,
		RejectionReason:    derefString(m.StudentRejectionReason),
	}
	if m.StudentCreatedAt != nil {
		profile.CreatedAt = *m.StudentCreatedAt
	}
	if m.StudentUpdatedAt != nil {
		profile.UpdatedAt = *m.StudentUpdatedAt
	}
	for _, doc := range docs {
		profile.Documents = append(profile.Documents, doc.toEntity())
	}
	user.Student = profile
	return user
}

func fromDocument(doc entities.VerificationDocument) documentModel {
	return documentModel{
		DocumentID: doc.DocumentID,
		UserID:     doc.UserID,
		Type:       doc.Type,
		URL:        doc.URL,
		ObjectKey:  doc.ObjectKey,
		Verified:   doc.Verified,
		CreatedAt:  doc.CreatedAt,
	}
}

func (m documentModel) toEntity() entities.VerificationDocument {
	return entities.VerificationDocument{
		DocumentID: m.DocumentID,
		UserID:     m.UserID,
		Type:       m.Type,
		URL:        m.URL,
		ObjectKey:  m.ObjectKey,
		Verified:   m.Verified,
		CreatedAt:  m.CreatedAt,
	}
}

func optionalString(value string) *string {
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
