package checkins

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/internal/shops"
	"github.com/beanpass/beanpass-backend/pkg/db/models"
	"github.com/beanpass/beanpass-backend/pkg/pagination"
)

// Repository encapsulates the visit ledger. The ledger is append-only: this
// type exposes no update or delete path.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a visit repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts a new visit row. Duplicate (user, shop) pairs are expected;
// every scan is its own event.
func (r *Repository) Append(ctx context.Context, visit *models.Visit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

type visitRecord struct {
	ID           uuid.UUID      `gorm:"column:id"`
	VisitedAt    time.Time      `gorm:"column:visited_at"`
	ShopID       uuid.UUID      `gorm:"column:shop_id"`
	ShopName     string         `gorm:"column:shop_name"`
	ShopImageURL sql.NullString `gorm:"column:shop_image_url"`
}

// ListForUser returns the user's visits newest-first with shop summaries,
// using (visited_at, id) cursor pagination.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (VisitsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return VisitsPageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Table("visits v").
		Select("v.id, v.visited_at, s.id AS shop_id, s.name AS shop_name, s.image_url AS shop_image_url").
		Joins("JOIN shops s ON s.id = v.shop_id").
		Where("v.user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(v.visited_at < ?) OR (v.visited_at = ? AND v.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []visitRecord
	if err := query.
		Order("v.visited_at DESC").
		Order("v.id DESC").
		Limit(limitWithBuffer).
		Scan(&records).Error; err != nil {
		return VisitsPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.VisitedAt,
			ID:        last.ID,
		})
	}

	items := make([]VisitDTO, 0, len(resultRows))
	for _, record := range resultRows {
		item := VisitDTO{
			ID:        record.ID,
			VisitedAt: record.VisitedAt,
			Shop: shops.Summary{
				ID:   record.ShopID,
				Name: record.ShopName,
			},
		}
		if record.ShopImageURL.Valid {
			v := record.ShopImageURL.String
			item.Shop.ImageURL = &v
		}
		items = append(items, item)
	}

	return VisitsPageDTO{Items: items, Cursor: nextCursor}, nil
}

// CountForUser returns the user's total visit rows.
func (r *Repository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Visit{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TopShopsForUser ranks the user's most-visited shops. Ties break on shop id
// ascending so repeated calls return the same order.
func (r *Repository) TopShopsForUser(ctx context.Context, userID uuid.UUID, limit int) ([]TopShopDTO, error) {
	var rows []TopShopDTO
	if err := r.db.WithContext(ctx).
		Table("visits v").
		Select("v.shop_id, s.name AS shop_name, COUNT(*) AS visit_count").
		Joins("JOIN shops s ON s.id = v.shop_id").
		Where("v.user_id = ?", userID).
		Group("v.shop_id, s.name").
		Order("visit_count DESC").
		Order("v.shop_id ASC").
		Limit(pagination.NormalizeLimit(limit)).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
