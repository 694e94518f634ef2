package follows

import (
	"time"

	"github.com/google/uuid"
)

// ToggleResult reports the state after a toggle call. Following reflects the
// operation that was actually performed.
type ToggleResult struct {
	Following bool `json:"following"`
}

// UserSummary annotates an edge endpoint for follower/following listings.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	ImageURL    *string   `json:"image_url,omitempty"`
	FollowedAt  time.Time `json:"followed_at"`
}

// FollowedShopDTO is one shop the user follows.
type FollowedShopDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ImageURL   *string   `json:"image_url,omitempty"`
	FollowedAt time.Time `json:"followed_at"`
}

// CountsDTO groups the three independent edge counts for a user.
type CountsDTO struct {
	Followers     int64 `json:"followers"`
	Following     int64 `json:"following"`
	FollowedShops int64 `json:"followed_shops"`
}
