package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop represents a physical coffee shop. Latitude/longitude are required;
// admin tooling owns writes, the core only reads.
type Shop struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Latitude  float64   `gorm:"column:latitude;not null"`
	Longitude float64   `gorm:"column:longitude;not null"`
	Phone     *string   `gorm:"column:phone"`
	Email     *string   `gorm:"column:email"`
	Website   *string   `gorm:"column:website"`
	ImageURL  *string   `gorm:"column:image_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ShopHours holds one opening range per weekday (0 = Sunday). The unique
// index enforces the single-range-per-day rule.
type ShopHours struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID    uuid.UUID `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:shop_hours_shop_weekday_key"`
	Weekday   int       `gorm:"column:weekday;not null;uniqueIndex:shop_hours_shop_weekday_key"`
	OpenTime  string    `gorm:"column:open_time;not null"`
	CloseTime string    `gorm:"column:close_time;not null"`
}

// TableName keeps the plural-free name the schema uses.
func (ShopHours) TableName() string { return "shop_hours" }
