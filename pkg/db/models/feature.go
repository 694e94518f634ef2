package models

import "github.com/google/uuid"

// Feature is a shop amenity tag (wifi, pet-friendly, parking). Owned by
// content tooling, read-only here.
type Feature struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string    `gorm:"column:name;not null;uniqueIndex"`
	Icon  *string   `gorm:"column:icon"`
	Color *string   `gorm:"column:color"`
}

// ShopFeature links a shop to a feature tag.
type ShopFeature struct {
	ShopID    uuid.UUID `gorm:"column:shop_id;type:uuid;primaryKey"`
	FeatureID uuid.UUID `gorm:"column:feature_id;type:uuid;primaryKey"`
}
