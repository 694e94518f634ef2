package shops

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
)

// Repository encapsulates shop read-model persistence. Shop writes belong to
// admin tooling; the core only reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shop repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one shop row.
func (r *Repository) FindByID(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).
		Where("id = ?", shopID).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// Hours returns the weekly schedule ordered by weekday.
func (r *Repository) Hours(ctx context.Context, shopID uuid.UUID) ([]HoursDTO, error) {
	var rows []models.ShopHours
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	hours := make([]HoursDTO, 0, len(rows))
	for _, row := range rows {
		hours = append(hours, HoursDTO{
			Weekday:   row.Weekday,
			OpenTime:  row.OpenTime,
			CloseTime: row.CloseTime,
		})
	}
	return hours, nil
}

// Features returns the shop's catalog tags ordered by name.
func (r *Repository) Features(ctx context.Context, shopID uuid.UUID) ([]FeatureDTO, error) {
	var rows []FeatureDTO
	if err := r.db.WithContext(ctx).
		Table("features f").
		Select("f.id, f.name, f.icon, f.color").
		Joins("JOIN shop_features sf ON sf.feature_id = f.id").
		Where("sf.shop_id = ?", shopID).
		Order("f.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
