package discovery

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
	"github.com/beanpass/beanpass-backend/pkg/pagination"
)

// Repository runs the shop search query and the batched annotation lookups.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a discovery repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Search returns one page of shops matching the filter, ordered by name then
// id so pages are stable between requests. The viewer id is only consulted
// for visited/missing narrowing; callers pass nil for anonymous traffic.
func (r *Repository) Search(ctx context.Context, viewerID *uuid.UUID, filter Filter) ([]models.Shop, error) {
	limit := pagination.NormalizeLimit(filter.Limit)
	page := pagination.NormalizePage(filter.Page)

	query := r.db.WithContext(ctx).
		Table("shops s").
		Select("s.*")

	if q := strings.TrimSpace(filter.TextQuery); q != "" {
		query = query.Where("LOWER(s.name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	if len(filter.FeatureIDs) > 0 {
		query = query.
			Joins("JOIN shop_features sf ON sf.shop_id = s.id").
			Where("sf.feature_id IN ?", filter.FeatureIDs).
			Group("s.id").
			Having("COUNT(DISTINCT sf.feature_id) = ?", len(filter.FeatureIDs))
	}

	switch filter.Visited {
	case VisitedOnly:
		query = query.Where("EXISTS (SELECT 1 FROM visits v WHERE v.shop_id = s.id AND v.user_id = ?)", viewerID)
	case VisitedMissing:
		query = query.Where("NOT EXISTS (SELECT 1 FROM visits v WHERE v.shop_id = s.id AND v.user_id = ?)", viewerID)
	}

	var shops []models.Shop
	if err := query.
		Order("s.name ASC").
		Order("s.id ASC").
		Offset(pagination.Offset(page, limit)).
		Limit(limit).
		Scan(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// VisitedShopIDs returns which of the given shops the user has checked in at.
func (r *Repository) VisitedShopIDs(ctx context.Context, userID uuid.UUID, shopIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(shopIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table("visits").
		Distinct("shop_id").
		Where("user_id = ? AND shop_id IN ?", userID, shopIDs).
		Pluck("shop_id", &ids).Error; err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// FollowedShopIDs returns which of the given shops the user follows.
func (r *Repository) FollowedShopIDs(ctx context.Context, userID uuid.UUID, shopIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(shopIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table("shop_follows").
		Where("user_id = ? AND shop_id IN ?", userID, shopIDs).
		Pluck("shop_id", &ids).Error; err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

type followerCountRow struct {
	ShopID uuid.UUID `gorm:"column:shop_id"`
	Cnt    int64     `gorm:"column:cnt"`
}

// FollowerCounts returns the follower tally per shop in one grouped query.
func (r *Repository) FollowerCounts(ctx context.Context, shopIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(shopIDs))
	if len(shopIDs) == 0 {
		return counts, nil
	}
	var rows []followerCountRow
	if err := r.db.WithContext(ctx).
		Table("shop_follows").
		Select("shop_id, COUNT(*) AS cnt").
		Where("shop_id IN ?", shopIDs).
		Group("shop_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ShopID] = row.Cnt
	}
	return counts, nil
}

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
