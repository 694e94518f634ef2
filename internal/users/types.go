package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/pkg/enums"
)

// StatsDTO is the derived per-user activity summary. All five numbers come
// from counting queries over the ledger tables; the whole struct is cached
// under one key and invalidated together.
type StatsDTO struct {
	VisitCount    int64 `json:"visit_count"`
	ReviewCount   int64 `json:"review_count"`
	Followers     int64 `json:"followers"`
	Following     int64 `json:"following"`
	FollowedShops int64 `json:"followed_shops"`
}

// ProfileDTO is the user read model for the profile endpoint.
type ProfileDTO struct {
	ID          uuid.UUID      `json:"id"`
	DisplayName string         `json:"display_name"`
	ImageURL    *string        `json:"image_url,omitempty"`
	Role        enums.UserRole `json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
	Stats       StatsDTO       `json:"stats"`
}
