package checkins

import (
	"time"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/internal/shops"
)

// VisitDTO is one ledger entry joined with its shop summary.
type VisitDTO struct {
	ID        uuid.UUID     `json:"id"`
	Shop      shops.Summary `json:"shop"`
	VisitedAt time.Time     `json:"visited_at"`
}

// VisitsPageDTO is a cursor-paginated visit listing, newest first.
type VisitsPageDTO struct {
	Items  []VisitDTO `json:"items"`
	Cursor string     `json:"cursor"`
}

// TopShopDTO ranks one shop by the user's visit count.
type TopShopDTO struct {
	ShopID     uuid.UUID `json:"shop_id"`
	ShopName   string    `json:"shop_name"`
	VisitCount int64     `json:"visit_count"`
}

// CheckinResult is the payload returned to the scanning operator.
type CheckinResult struct {
	VisitID   uuid.UUID `json:"visit_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	VisitedAt time.Time `json:"visited_at"`
}
