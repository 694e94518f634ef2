package models

import (
	"time"

	"github.com/google/uuid"
)

// Visit is one check-in ledger entry. Rows are append-only: nothing in the
// codebase updates or deletes them, and duplicates per (user, shop) are
// meaningful distinct events. VisitedAt is server-assigned at insert.
type Visit struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:visits_user_id_idx"`
	ShopID    uuid.UUID `gorm:"column:shop_id;type:uuid;not null;index:visits_shop_id_idx"`
	VisitedAt time.Time `gorm:"column:visited_at;not null;autoCreateTime"`
}
