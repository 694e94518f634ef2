package checkins

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/internal/identity"
	"github.com/beanpass/beanpass-backend/pkg/db/models"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
)

func setupCheckinsTestDB(t *testing.T) *gorm.DB {
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
CREATE TABLE IF NOT EXISTS shops (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  phone TEXT,
  email TEXT,
  website TEXT,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS visits (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  shop_id TEXT NOT NULL,
  visited_at DATETIME NOT NULL
);`}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type recordingInvalidator struct {
	userIDs []uuid.UUID
}

func (r *recordingInvalidator) InvalidateStats(_ context.Context, userID uuid.UUID) {
	r.userIDs = append(r.userIDs, userID)
}

func newCheckinsService(t *testing.T, db *gorm.DB, stats StatsInvalidator) Service {
	t.Helper()

	registry, err := identity.NewService(identity.NewRepository(db))
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		VisitRepo:    NewRepository(db),
		IdentityRepo: registry,
		Stats:        stats,
	})
	require.NoError(t, err)
	return svc
}

func seedCheckinUser(t *testing.T, db *gorm.DB, code string) *models.User {
	t.Helper()

	user := &models.User{
		ID:          uuid.New(),
		DisplayName: "Visitor",
		CheckinCode: code,
		Role:        "customer",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedShop(t *testing.T, db *gorm.DB, name string) *models.Shop {
	t.Helper()

	shop := &models.Shop{
		ID:        uuid.New(),
		Name:      name,
		Latitude:  52.37,
		Longitude: 4.89,
	}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

func TestRecordVisit(t *testing.T) {
	db := setupCheckinsTestDB(t)
	stats := &recordingInvalidator{}
	svc := newCheckinsService(t, db, stats)

	user := seedCheckinUser(t, db, "VISIT2AB")
	shop := seedShop(t, db, "Corner Roast")

	result, err := svc.RecordVisit(context.Background(), shop.ID, "visit2ab")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)
	assert.Equal(t, "Visitor", result.UserName)
	assert.NotEqual(t, uuid.Nil, result.VisitID)
	assert.Equal(t, []uuid.UUID{user.ID}, stats.userIDs)

	count, err := svc.CountVisits(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRecordVisitDuplicateScansAppend(t *testing.T) {
	db := setupCheckinsTestDB(t)
	svc := newCheckinsService(t, db, nil)

	user := seedCheckinUser(t, db, "TWICE2AB")
	shop := seedShop(t, db, "Double Shot")

	first, err := svc.RecordVisit(context.Background(), shop.ID, "TWICE2AB")
	require.NoError(t, err)
	second, err := svc.RecordVisit(context.Background(), shop.ID, "TWICE2AB")
	require.NoError(t, err)
	assert.NotEqual(t, first.VisitID, second.VisitID)

	count, err := svc.CountVisits(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRecordVisitRejectsBadInput(t *testing.T) {
	db := setupCheckinsTestDB(t)
	svc := newCheckinsService(t, db, nil)

	shop := seedShop(t, db, "Gatekeeper")

	t.Run("missing operator shop", func(t *testing.T) {
		_, err := svc.RecordVisit(context.Background(), uuid.Nil, "ANYCODE2")
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := svc.RecordVisit(context.Background(), shop.ID, "")
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidCode))
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.RecordVisit(context.Background(), shop.ID, "UNKNOWN2")
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidCode))
	})
}

func TestListVisitsForUserPagination(t *testing.T) {
	db := setupCheckinsTestDB(t)
	svc := newCheckinsService(t, db, nil)

	user := seedCheckinUser(t, db, "PAGER2AB")
	shop := seedShop(t, db, "Page Turner")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		visit := &models.Visit{
			ID:        uuid.New(),
			UserID:    user.ID,
			ShopID:    shop.ID,
			VisitedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(visit).Error)
	}

	page, err := svc.ListVisitsForUser(context.Background(), user.ID, "", 3)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.NotEmpty(t, page.Cursor)
	assert.True(t, page.Items[0].VisitedAt.After(page.Items[1].VisitedAt))
	assert.Equal(t, "Page Turner", page.Items[0].Shop.Name)

	rest, err := svc.ListVisitsForUser(context.Background(), user.ID, page.Cursor, 3)
	require.NoError(t, err)
	require.Len(t, rest.Items, 2)
	assert.Empty(t, rest.Cursor)
	assert.True(t, page.Items[2].VisitedAt.After(rest.Items[0].VisitedAt) ||
		page.Items[2].VisitedAt.Equal(rest.Items[0].VisitedAt))

	_, err = svc.ListVisitsForUser(context.Background(), uuid.Nil, "", 3)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestTopShopsForUser(t *testing.T) {
	db := setupCheckinsTestDB(t)
	svc := newCheckinsService(t, db, nil)

	user := seedCheckinUser(t, db, "RANKS2AB")
	favorite := seedShop(t, db, "Favorite")
	occasional := seedShop(t, db, "Occasional")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Visit{ID: uuid.New(), UserID: user.ID, ShopID: favorite.ID, VisitedAt: time.Now().UTC()}).Error)
	}
	require.NoError(t, db.Create(&models.Visit{ID: uuid.New(), UserID: user.ID, ShopID: occasional.ID, VisitedAt: time.Now().UTC()}).Error)

	top, err := svc.TopShopsForUser(context.Background(), user.ID, 3)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, favorite.ID, top[0].ShopID)
	assert.Equal(t, int64(3), top[0].VisitCount)
	assert.Equal(t, occasional.ID, top[1].ShopID)
	assert.Equal(t, int64(1), top[1].VisitCount)
}
