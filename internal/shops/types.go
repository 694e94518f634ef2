package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/pkg/types"
)

// Summary is the lightweight shop projection embedded in visit, follow and
// discovery payloads.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL *string   `json:"image_url,omitempty"`
}

// HoursDTO is one weekday opening range.
type HoursDTO struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// FeatureDTO annotates a shop with a catalog tag.
type FeatureDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Icon  *string   `json:"icon,omitempty"`
	Color *string   `json:"color,omitempty"`
}

// DetailDTO is the full shop read model returned by the detail endpoint.
type DetailDTO struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Latitude      float64               `json:"latitude"`
	Longitude     float64               `json:"longitude"`
	Phone         *string               `json:"phone,omitempty"`
	Email         *string               `json:"email,omitempty"`
	Website       *string               `json:"website,omitempty"`
	ImageURL      *string               `json:"image_url,omitempty"`
	Hours         []HoursDTO            `json:"hours"`
	Features      []FeatureDTO          `json:"features"`
	Rating        types.RatingAggregate `json:"rating"`
	FollowerCount int64                 `json:"follower_count"`
	CreatedAt     time.Time             `json:"created_at"`
}
