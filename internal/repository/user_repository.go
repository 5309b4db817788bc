package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userDomain "github.com/care-io/service-booking/internal/domain/user"
	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/domain"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255)"`
	NID          string     `gorm:"column:nid;type:varchar(32)"`
	Contact      string     `gorm:"type:varchar(20)"`
	GoogleID     *string    `gorm:"type:varchar(64);uniqueIndex"`
	Image        string     `gorm:"type:text"`
	Role         string     `gorm:"type:varchar(10);not null"`
	Status       string     `gorm:"type:varchar(20);not null"`
	LastLoginAt  *time.Time `gorm:"type:timestamptz"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null"`
	UpdatedAt    time.Time  `gorm:"type:timestamptz;not null"`
}

func (UserModel) TableName() string { return "users" }

// GormUserRepository implements UserRepository using GORM. It stores the
// password hash it is given and never hashes on its own.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return r.findOne(ctx, "id = ?", id, id.String())
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	return r.findOne(ctx, "email = ?", userDomain.NormalizeEmail(email), email)
}

func (r *GormUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*userDomain.User, error) {
	return r.findOne(ctx, "google_id = ?", googleID, googleID)
}

func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	if err := r.db.WithContext(ctx).Create(toUserModel(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("an account with this email already exists")
		}
		return domain.NewStorageError("save user", err)
	}
	return nil
}

func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	model := toUserModel(u)
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"password_hash": model.PasswordHash,
			"contact":       model.Contact,
			"google_id":     model.GoogleID,
			"image":         model.Image,
			"role":          model.Role,
			"status":        model.Status,
			"last_login_at": model.LastLoginAt,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("google account is already linked to another user")
		}
		return domain.NewStorageError("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("User", model.ID.String())
	}
	return nil
}

func (r *GormUserRepository) findOne(ctx context.Context, where string, arg interface{}, label string) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where(where, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", label)
		}
		return nil, domain.NewStorageError("find user", err)
	}
	return toUserDomain(&model), nil
}

func toUserModel(u *userDomain.User) *UserModel {
	var googleID *string
	if id := u.GoogleID(); id != "" {
		googleID = &id
	}
	return &UserModel{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		NID:          u.NID(),
		Contact:      u.Contact(),
		GoogleID:     googleID,
		Image:        u.Image(),
		Role:         string(u.Role()),
		Status:       string(u.Status()),
		LastLoginAt:  u.LastLoginAt(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func toUserDomain(m *UserModel) *userDomain.User {
	var googleID string
	if m.GoogleID != nil {
		googleID = *m.GoogleID
	}
	return userDomain.Reconstruct(
		m.ID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.NID,
		m.Contact,
		googleID,
		m.Image,
		auth.Role(m.Role),
		userDomain.UserStatus(m.Status),
		m.LastLoginAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
