package reviews

import (
	"time"

	"github.com/google/uuid"
)

// CategoryScores carries the four rating dimensions. Zero means "unrated"
// for that category.
type CategoryScores struct {
	Coffee int `json:"coffee"`
	Food   int `json:"food"`
	Place  int `json:"place"`
	Price  int `json:"price"`
}

// SubmitParams is the review submission input.
type SubmitParams struct {
	UserID  uuid.UUID
	ShopID  uuid.UUID
	Scores  CategoryScores
	Comment string
	TagIDs  []uuid.UUID
}

// TagRef is a feature tag attached to a review.
type TagRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ReviewDTO is one review annotated with the submitting user.
type ReviewDTO struct {
	ID            uuid.UUID      `json:"id"`
	ShopID        uuid.UUID      `json:"shop_id"`
	UserID        uuid.UUID      `json:"user_id"`
	UserName      string         `json:"user_name"`
	UserImageURL  *string        `json:"user_image_url,omitempty"`
	Scores        CategoryScores `json:"scores"`
	OverallRating float64        `json:"overall_rating"`
	Comment       string         `json:"comment"`
	Tags          []TagRef       `json:"tags"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ReviewsPageDTO is a cursor-paginated review listing, newest first.
type ReviewsPageDTO struct {
	Items  []ReviewDTO `json:"items"`
	Cursor string      `json:"cursor"`
}
