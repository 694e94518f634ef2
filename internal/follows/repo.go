package follows

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
)

// Repository encapsulates follow-edge persistence. Inserts are
// conflict-tolerant and deletes are row-count-tolerant, so concurrent
// duplicate toggles converge without locks.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a follow repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddUserFollow inserts the edge and ignores duplicates.
func (r *Repository) AddUserFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO user_follows (id, follower_id, following_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (follower_id, following_id) DO NOTHING`,
			uuid.New(), followerID, followingID, time.Now().UTC()).
		Error
}

// RemoveUserFollow deletes the edge if it exists. Zero rows affected is a
// valid outcome, not an error.
func (r *Repository) RemoveUserFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.UserFollow{}).
		Error
}

// UserFollowExists reports whether the directed edge is present.
func (r *Repository) UserFollowExists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddShopFollow inserts the user-to-shop edge and ignores duplicates.
func (r *Repository) AddShopFollow(ctx context.Context, userID, shopID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO shop_follows (id, user_id, shop_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, shop_id) DO NOTHING`,
			uuid.New(), userID, shopID, time.Now().UTC()).
		Error
}

// RemoveShopFollow deletes the user-to-shop edge if it exists.
func (r *Repository) RemoveShopFollow(ctx context.Context, userID, shopID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		Delete(&models.ShopFollow{}).
		Error
}

// ShopFollowExists reports whether the user follows the shop.
func (r *Repository) ShopFollowExists(ctx context.Context, userID, shopID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShopFollow{}).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type userEdgeRecord struct {
	ID          uuid.UUID      `gorm:"column:id"`
	DisplayName string         `gorm:"column:display_name"`
	ImageURL    sql.NullString `gorm:"column:image_url"`
	FollowedAt  time.Time      `gorm:"column:followed_at"`
}

// Followers lists the users following userID, most recent first.
func (r *Repository) Followers(ctx context.Context, userID uuid.UUID) ([]UserSummary, error) {
	var records []userEdgeRecord
	if err := r.db.WithContext(ctx).
		Table("user_follows uf").
		Select("u.id, u.display_name, u.image_url, uf.created_at AS followed_at").
		Joins("JOIN users u ON u.id = uf.follower_id").
		Where("uf.following_id = ?", userID).
		Order("uf.created_at DESC").
		Scan(&records).Error; err != nil {
		return nil, err
	}
	return toUserSummaries(records), nil
}

// Following lists the users userID follows, most recent first.
func (r *Repository) Following(ctx context.Context, userID uuid.UUID) ([]UserSummary, error) {
	var records []userEdgeRecord
	if err := r.db.WithContext(ctx).
		Table("user_follows uf").
		Select("u.id, u.display_name, u.image_url, uf.created_at AS followed_at").
		Joins("JOIN users u ON u.id = uf.following_id").
		Where("uf.follower_id = ?", userID).
		Order("uf.created_at DESC").
		Scan(&records).Error; err != nil {
		return nil, err
	}
	return toUserSummaries(records), nil
}

type shopEdgeRecord struct {
	ID         uuid.UUID      `gorm:"column:id"`
	Name       string         `gorm:"column:name"`
	ImageURL   sql.NullString `gorm:"column:image_url"`
	FollowedAt time.Time      `gorm:"column:followed_at"`
}

// FollowedShops lists the shops userID follows with the follow timestamp.
func (r *Repository) FollowedShops(ctx context.Context, userID uuid.UUID) ([]FollowedShopDTO, error) {
	var records []shopEdgeRecord
	if err := r.db.WithContext(ctx).
		Table("shop_follows sf").
		Select("s.id, s.name, s.image_url, sf.created_at AS followed_at").
		Joins("JOIN shops s ON s.id = sf.shop_id").
		Where("sf.user_id = ?", userID).
		Order("sf.created_at DESC").
		Scan(&records).Error; err != nil {
		return nil, err
	}

	shops := make([]FollowedShopDTO, 0, len(records))
	for _, record := range records {
		dto := FollowedShopDTO{
			ID:         record.ID,
			Name:       record.Name,
			FollowedAt: record.FollowedAt,
		}
		if record.ImageURL.Valid {
			v := record.ImageURL.String
			dto.ImageURL = &v
		}
		shops = append(shops, dto)
	}
	return shops, nil
}

// Counts returns the three independent edge counts for a user.
func (r *Repository) Counts(ctx context.Context, userID uuid.UUID) (CountsDTO, error) {
	var counts CountsDTO

	if err := r.db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("following_id = ?", userID).
		Count(&counts.Followers).Error; err != nil {
		return CountsDTO{}, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("follower_id = ?", userID).
		Count(&counts.Following).Error; err != nil {
		return CountsDTO{}, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ShopFollow{}).
		Where("user_id = ?", userID).
		Count(&counts.FollowedShops).Error; err != nil {
		return CountsDTO{}, err
	}
	return counts, nil
}

// CountShopFollowers returns how many users follow the shop.
func (r *Repository) CountShopFollowers(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShopFollow{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toUserSummaries(records []userEdgeRecord) []UserSummary {
	summaries := make([]UserSummary, 0, len(records))
	for _, record := range records {
		summary := UserSummary{
			ID:          record.ID,
			DisplayName: record.DisplayName,
			FollowedAt:  record.FollowedAt,
		}
		if record.ImageURL.Valid {
			v := record.ImageURL.String
			summary.ImageURL = &v
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
