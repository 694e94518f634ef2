package rankings

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/pkg/pagination"
)

// Repository computes leaderboard snapshots with plain aggregation queries.
// Nothing here is stored; every call reads the live ledger tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ranking repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type entryRecord struct {
	UserID   uuid.UUID      `gorm:"column:user_id"`
	UserName string         `gorm:"column:user_name"`
	ImageURL sql.NullString `gorm:"column:user_image_url"`
	Count    int64          `gorm:"column:cnt"`
}

// VisitLeaderboard ranks users by visit count, optionally scoped to one shop.
// Visit counts cluster at small integers, so ties are broken by user id
// ascending to keep the order stable across calls.
func (r *Repository) VisitLeaderboard(ctx context.Context, shopID *uuid.UUID, limit int) ([]Entry, error) {
	query := r.db.WithContext(ctx).
		Table("visits v").
		Select("u.id AS user_id, u.display_name AS user_name, u.image_url AS user_image_url, COUNT(*) AS cnt").
		Joins("JOIN users u ON u.id = v.user_id")

	if shopID != nil {
		query = query.Where("v.shop_id = ?", *shopID)
	}

	return r.scanEntries(query, limit)
}

// ReviewLeaderboard ranks users by review row count.
func (r *Repository) ReviewLeaderboard(ctx context.Context, limit int) ([]Entry, error) {
	query := r.db.WithContext(ctx).
		Table("reviews rv").
		Select("u.id AS user_id, u.display_name AS user_name, u.image_url AS user_image_url, COUNT(*) AS cnt").
		Joins("JOIN users u ON u.id = rv.user_id")

	return r.scanEntries(query, limit)
}

// FollowerLeaderboard ranks users by incoming follow edges.
func (r *Repository) FollowerLeaderboard(ctx context.Context, limit int) ([]Entry, error) {
	query := r.db.WithContext(ctx).
		Table("user_follows uf").
		Select("u.id AS user_id, u.display_name AS user_name, u.image_url AS user_image_url, COUNT(*) AS cnt").
		Joins("JOIN users u ON u.id = uf.following_id")

	return r.scanEntries(query, limit)
}

func (r *Repository) scanEntries(query *gorm.DB, limit int) ([]Entry, error) {
	var records []entryRecord
	if err := query.
		Group("u.id, u.display_name, u.image_url").
		Order("cnt DESC").
		Order("u.id ASC").
		Limit(pagination.NormalizeLimit(limit)).
		Scan(&records).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entry := Entry{
			UserID:   record.UserID,
			UserName: record.UserName,
			Count:    record.Count,
		}
		if record.ImageURL.Valid {
			v := record.ImageURL.String
			entry.ImageURL = &v
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
