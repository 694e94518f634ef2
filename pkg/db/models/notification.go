package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a stored inbox entry for a user. Delivery is best-effort;
// writing the row must never fail the operation that triggered it.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index:notifications_user_id_idx"`
	Title     string     `gorm:"column:title;not null"`
	Body      string     `gorm:"column:body;not null;default:''"`
	Data      string     `gorm:"column:data;type:jsonb;not null;default:'{}'"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
