package models

import (
	"time"

	"github.com/google/uuid"
)

// Review holds one rating submission. Category scores are 0..5 where 0 means
// "unrated"; OverallRating is the half-up mean of the non-zero categories to
// one decimal, fixed at insert because reviews are immutable. A user may
// review the same shop any number of times.
type Review struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:reviews_user_id_idx"`
	ShopID        uuid.UUID `gorm:"column:shop_id;type:uuid;not null;index:reviews_shop_id_idx"`
	CoffeeRating  int       `gorm:"column:coffee_rating;not null;default:0"`
	FoodRating    int       `gorm:"column:food_rating;not null;default:0"`
	PlaceRating   int       `gorm:"column:place_rating;not null;default:0"`
	PriceRating   int       `gorm:"column:price_rating;not null;default:0"`
	OverallRating float64   `gorm:"column:overall_rating;type:numeric(2,1);not null;default:0"`
	Comment       string    `gorm:"column:comment;not null;default:''"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ReviewTag attaches a feature tag to a review.
type ReviewTag struct {
	ReviewID  uuid.UUID `gorm:"column:review_id;type:uuid;primaryKey"`
	FeatureID uuid.UUID `gorm:"column:feature_id;type:uuid;primaryKey"`
}
