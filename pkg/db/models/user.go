package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/pkg/enums"
)

// User represents the canonical identity entity. CheckinCode is stored
// uppercase and is unique for the account's lifetime; the unique index makes
// code resolution a single indexed lookup.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DisplayName string         `gorm:"column:display_name;not null"`
	ImageURL    *string        `gorm:"column:image_url"`
	CheckinCode string         `gorm:"column:checkin_code;type:text;not null;uniqueIndex"`
	Role        enums.UserRole `gorm:"column:role;type:user_role;not null;default:'customer'"`
	ShopID      *uuid.UUID     `gorm:"column:shop_id;type:uuid"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
