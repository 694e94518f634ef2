package shops

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/types"
)

func setupShopsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
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
CREATE TABLE IF NOT EXISTS shop_hours (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  weekday INTEGER NOT NULL,
  open_time TEXT NOT NULL,
  close_time TEXT NOT NULL,
  UNIQUE (shop_id, weekday)
);`, `
CREATE TABLE IF NOT EXISTS features (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  icon TEXT,
  color TEXT
);`, `
CREATE TABLE IF NOT EXISTS shop_features (
  shop_id TEXT NOT NULL,
  feature_id TEXT NOT NULL,
  PRIMARY KEY (shop_id, feature_id)
);`}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type stubRatings struct {
	aggregate types.RatingAggregate
}

func (s *stubRatings) AggregateForShop(context.Context, uuid.UUID) (types.RatingAggregate, error) {
	return s.aggregate, nil
}

type stubFollowers struct {
	count int64
}

func (s *stubFollowers) CountShopFollowers(context.Context, uuid.UUID) (int64, error) {
	return s.count, nil
}

func TestGetDetail(t *testing.T) {
	db := setupShopsTestDB(t)

	shop := &models.Shop{
		ID:        uuid.New(),
		Name:      "Detail Roasters",
		Latitude:  51.92,
		Longitude: 4.48,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(shop).Error)
	require.NoError(t, db.Create(&models.ShopHours{
		ID: uuid.New(), ShopID: shop.ID, Weekday: 1, OpenTime: "08:00", CloseTime: "17:00",
	}).Error)
	require.NoError(t, db.Create(&models.ShopHours{
		ID: uuid.New(), ShopID: shop.ID, Weekday: 0, OpenTime: "10:00", CloseTime: "16:00",
	}).Error)

	wifi := &models.Feature{ID: uuid.New(), Name: "wifi"}
	require.NoError(t, db.Create(wifi).Error)
	require.NoError(t, db.Create(&models.ShopFeature{ShopID: shop.ID, FeatureID: wifi.ID}).Error)

	svc, err := NewService(ServiceParams{
		ShopRepo:  NewRepository(db),
		Ratings:   &stubRatings{aggregate: types.RatingAggregate{AvgOverall: 4.2, ReviewCount: 7}},
		Followers: &stubFollowers{count: 12},
	})
	require.NoError(t, err)

	detail, err := svc.GetDetail(context.Background(), shop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Detail Roasters", detail.Name)
	assert.Equal(t, int64(12), detail.FollowerCount)
	assert.InDelta(t, 4.2, detail.Rating.AvgOverall, 0.0001)
	assert.Equal(t, int64(7), detail.Rating.ReviewCount)

	require.Len(t, detail.Hours, 2)
	assert.Equal(t, 0, detail.Hours[0].Weekday)
	assert.Equal(t, 1, detail.Hours[1].Weekday)

	require.Len(t, detail.Features, 1)
	assert.Equal(t, "wifi", detail.Features[0].Name)
}

func TestGetDetailNotFound(t *testing.T) {
	db := setupShopsTestDB(t)

	svc, err := NewService(ServiceParams{
		ShopRepo:  NewRepository(db),
		Ratings:   &stubRatings{},
		Followers: &stubFollowers{},
	})
	require.NoError(t, err)

	_, err = svc.GetDetail(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestGetSummary(t *testing.T) {
	db := setupShopsTestDB(t)

	image := "https://cdn.beanpass.app/shops/summary.jpg"
	shop := &models.Shop{
		ID:        uuid.New(),
		Name:      "Summary Bar",
		Latitude:  1,
		Longitude: 2,
		ImageURL:  &image,
	}
	require.NoError(t, db.Create(shop).Error)

	svc, err := NewService(ServiceParams{
		ShopRepo:  NewRepository(db),
		Ratings:   &stubRatings{},
		Followers: &stubFollowers{},
	})
	require.NoError(t, err)

	summary, err := svc.GetSummary(context.Background(), shop.ID)
	require.NoError(t, err)
	assert.Equal(t, shop.ID, summary.ID)
	assert.Equal(t, "Summary Bar", summary.Name)
	require.NotNil(t, summary.ImageURL)
	assert.Equal(t, image, *summary.ImageURL)
}
