package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/internal/follows"
	"github.com/beanpass/beanpass-backend/pkg/db/models"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/redis"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  display_name TEXT NOT NULL,
  image_url TEXT,
  checkin_code TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL DEFAULT 'customer',
  shop_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS user_follows (
  id TEXT PRIMARY KEY,
  follower_id TEXT NOT NULL,
  following_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (follower_id, following_id)
);`, `
CREATE TABLE IF NOT EXISTS shop_follows (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  shop_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, shop_id)
);`}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type staticCounter struct {
	count int64
	calls int
}

func (s *staticCounter) CountForUser(context.Context, uuid.UUID) (int64, error) {
	s.calls++
	return s.count, nil
}

type mapCache struct {
	entries map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]string{}}
}

func (m *mapCache) Get(_ context.Context, key string) (string, error) {
	value, ok := m.entries[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.entries[key] = fmt.Sprint(value)
	return nil
}

func (m *mapCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *mapCache) UserStatsKey(userID string) string {
	return "bp:user_stats:" + userID
}

func (m *mapCache) LeaderboardKey(kind, scope string, limit int) string {
	return fmt.Sprintf("bp:leaderboard:%s:%s:%d", kind, scope, limit)
}

func newUsersService(t *testing.T, db *gorm.DB, visits, reviews *staticCounter, cache redis.Cache) Service {
	t.Helper()

	edgeSvc, err := follows.NewService(follows.ServiceParams{FollowRepo: follows.NewRepository(db)})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		UserRepo:     NewRepository(db),
		Visits:       visits,
		Reviews:      reviews,
		Edges:        edgeSvc,
		Cache:        cache,
		UserStatsTTL: time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func seedProfileUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		ID:          uuid.New(),
		DisplayName: name,
		CheckinCode: uuid.NewString()[:8],
		Role:        "customer",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestGetStats(t *testing.T) {
	db := setupUsersTestDB(t)
	visits := &staticCounter{count: 7}
	reviews := &staticCounter{count: 3}
	svc := newUsersService(t, db, visits, reviews, nil)

	user := seedProfileUser(t, db, "Counter")
	fan := seedProfileUser(t, db, "Fan")
	require.NoError(t, db.Create(&models.UserFollow{
		ID:          uuid.New(),
		FollowerID:  fan.ID,
		FollowingID: user.ID,
	}).Error)

	stats, err := svc.GetStats(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, StatsDTO{
		VisitCount:  7,
		ReviewCount: 3,
		Followers:   1,
	}, stats)
}

func TestGetStatsCaching(t *testing.T) {
	db := setupUsersTestDB(t)
	visits := &staticCounter{count: 2}
	reviews := &staticCounter{}
	cache := newMapCache()
	svc := newUsersService(t, db, visits, reviews, cache)

	user := seedProfileUser(t, db, "Cached")
	ctx := context.Background()

	first, err := svc.GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.VisitCount)
	assert.Equal(t, 1, visits.calls)
	assert.Contains(t, cache.entries, "bp:user_stats:"+user.ID.String())

	// Cached read skips the counting queries.
	second, err := svc.GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, visits.calls)

	// Invalidation forces a recount.
	svc.InvalidateStats(ctx, user.ID)
	visits.count = 5
	third, err := svc.GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), third.VisitCount)
	assert.Equal(t, 2, visits.calls)
}

func TestGetProfile(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := newUsersService(t, db, &staticCounter{count: 1}, &staticCounter{}, nil)

	user := seedProfileUser(t, db, "Profiled")

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "Profiled", profile.DisplayName)
	assert.Equal(t, int64(1), profile.Stats.VisitCount)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
