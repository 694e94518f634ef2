package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
)

// Repository resolves check-in codes against the users table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an identity repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByCode looks up the user owning the given check-in code. Codes are
// stored uppercase, so the lookup normalizes first; the unique index keeps
// this a single indexed read.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.User, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("checkin_code = ?", normalized).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user row by primary key.
func (r *Repository) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CodeExists reports whether any user already owns the code.
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("checkin_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
