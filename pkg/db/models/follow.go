package models

import (
	"time"

	"github.com/google/uuid"
)

// UserFollow is a directed user-to-user follow edge. The composite unique
// index means at most one edge per ordered pair; toggle inserts rely on
// ON CONFLICT DO NOTHING against it.
type UserFollow struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FollowerID  uuid.UUID `gorm:"column:follower_id;type:uuid;not null;uniqueIndex:user_follows_pair_key;index:user_follows_follower_idx"`
	FollowingID uuid.UUID `gorm:"column:following_id;type:uuid;not null;uniqueIndex:user_follows_pair_key;index:user_follows_following_idx"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ShopFollow is a directed user-to-shop follow edge, same toggle semantics
// as UserFollow.
type ShopFollow struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:shop_follows_pair_key;index:shop_follows_user_idx"`
	ShopID    uuid.UUID `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:shop_follows_pair_key;index:shop_follows_shop_idx"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
