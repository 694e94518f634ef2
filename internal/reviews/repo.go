package reviews

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
	"github.com/beanpass/beanpass-backend/pkg/pagination"
	"github.com/beanpass/beanpass-backend/pkg/types"
)

// Repository encapsulates review persistence and aggregation queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a review repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes the review row plus its tag links. Tags ride in the same
// transaction so a failed tag write never leaves a half-annotated review.
func (r *Repository) Insert(ctx context.Context, review *models.Review, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			link := models.ReviewTag{ReviewID: review.ID, FeatureID: tagID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type aggregateRecord struct {
	AvgOverall  sql.NullFloat64 `gorm:"column:avg_overall"`
	AvgCoffee   sql.NullFloat64 `gorm:"column:avg_coffee"`
	AvgFood     sql.NullFloat64 `gorm:"column:avg_food"`
	AvgPlace    sql.NullFloat64 `gorm:"column:avg_place"`
	AvgPrice    sql.NullFloat64 `gorm:"column:avg_price"`
	ReviewCount int64           `gorm:"column:review_count"`
}

// AggregateForShop computes the per-category averages over non-zero scores
// only (NULLIF keeps unrated categories out of the mean) and the total review
// row count. A shop with no reviews yields all zeros.
func (r *Repository) AggregateForShop(ctx context.Context, shopID uuid.UUID) (types.RatingAggregate, error) {
	var record aggregateRecord
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select(strings.Join([]string{
			"AVG(overall_rating) AS avg_overall",
			"AVG(NULLIF(coffee_rating, 0)) AS avg_coffee",
			"AVG(NULLIF(food_rating, 0)) AS avg_food",
			"AVG(NULLIF(place_rating, 0)) AS avg_place",
			"AVG(NULLIF(price_rating, 0)) AS avg_price",
			"COUNT(*) AS review_count",
		}, ", ")).
		Where("shop_id = ?", shopID).
		Scan(&record).Error
	if err != nil {
		return types.RatingAggregate{}, err
	}

	return types.RatingAggregate{
		AvgOverall:  roundHalfUp(record.AvgOverall.Float64),
		AvgCoffee:   roundHalfUp(record.AvgCoffee.Float64),
		AvgFood:     roundHalfUp(record.AvgFood.Float64),
		AvgPlace:    roundHalfUp(record.AvgPlace.Float64),
		AvgPrice:    roundHalfUp(record.AvgPrice.Float64),
		ReviewCount: record.ReviewCount,
	}, nil
}

type reviewRecord struct {
	ID            uuid.UUID      `gorm:"column:id"`
	ShopID        uuid.UUID      `gorm:"column:shop_id"`
	UserID        uuid.UUID      `gorm:"column:user_id"`
	UserName      string         `gorm:"column:user_name"`
	UserImageURL  sql.NullString `gorm:"column:user_image_url"`
	CoffeeRating  int            `gorm:"column:coffee_rating"`
	FoodRating    int            `gorm:"column:food_rating"`
	PlaceRating   int            `gorm:"column:place_rating"`
	PriceRating   int            `gorm:"column:price_rating"`
	OverallRating float64        `gorm:"column:overall_rating"`
	Comment       string         `gorm:"column:comment"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
}

// ListForShop returns reviews newest-first with submitter annotations, using
// (created_at, id) cursor pagination.
func (r *Repository) ListForShop(ctx context.Context, shopID uuid.UUID, cursor string, limit int) (ReviewsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return ReviewsPageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Table("reviews rv").
		Select(strings.Join([]string{
			"rv.id",
			"rv.shop_id",
			"rv.user_id",
			"u.display_name AS user_name",
			"u.image_url AS user_image_url",
			"rv.coffee_rating",
			"rv.food_rating",
			"rv.place_rating",
			"rv.price_rating",
			"rv.overall_rating",
			"rv.comment",
			"rv.created_at",
		}, ", ")).
		Joins("JOIN users u ON u.id = rv.user_id").
		Where("rv.shop_id = ?", shopID)

	if decodedCursor != nil {
		query = query.Where("(rv.created_at < ?) OR (rv.created_at = ? AND rv.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []reviewRecord
	if err := query.
		Order("rv.created_at DESC").
		Order("rv.id DESC").
		Limit(limitWithBuffer).
		Scan(&records).Error; err != nil {
		return ReviewsPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	tagsByReview, err := r.tagsFor(ctx, reviewIDs(resultRows))
	if err != nil {
		return ReviewsPageDTO{}, err
	}

	items := make([]ReviewDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO(tagsByReview[record.ID]))
	}

	return ReviewsPageDTO{Items: items, Cursor: nextCursor}, nil
}

// CountForUser returns the user's total review rows.
func (r *Repository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type tagRecord struct {
	ReviewID uuid.UUID `gorm:"column:review_id"`
	ID       uuid.UUID `gorm:"column:id"`
	Name     string    `gorm:"column:name"`
}

func (r *Repository) tagsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]TagRef, error) {
	result := make(map[uuid.UUID][]TagRef, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var records []tagRecord
	if err := r.db.WithContext(ctx).
		Table("review_tags rt").
		Select("rt.review_id, f.id, f.name").
		Joins("JOIN features f ON f.id = rt.feature_id").
		Where("rt.review_id IN ?", ids).
		Order("f.name ASC").
		Scan(&records).Error; err != nil {
		return nil, err
	}

	for _, record := range records {
		result[record.ReviewID] = append(result[record.ReviewID], TagRef{ID: record.ID, Name: record.Name})
	}
	return result, nil
}

func reviewIDs(records []reviewRecord) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	return ids
}

func (rec reviewRecord) toDTO(tags []TagRef) ReviewDTO {
	if tags == nil {
		tags = []TagRef{}
	}
	dto := ReviewDTO{
		ID:       rec.ID,
		ShopID:   rec.ShopID,
		UserID:   rec.UserID,
		UserName: rec.UserName,
		Scores: CategoryScores{
			Coffee: rec.CoffeeRating,
			Food:   rec.FoodRating,
			Place:  rec.PlaceRating,
			Price:  rec.PriceRating,
		},
		OverallRating: rec.OverallRating,
		Comment:       rec.Comment,
		Tags:          tags,
		CreatedAt:     rec.CreatedAt,
	}
	if rec.UserImageURL.Valid {
		v := rec.UserImageURL.String
		dto.UserImageURL = &v
	}
	return dto
}
