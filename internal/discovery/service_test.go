package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beanpass/beanpass-backend/internal/reviews"
	"github.com/beanpass/beanpass-backend/pkg/db/models"
)

func setupDiscoveryTestDB(t *testing.T) *gorm.DB {
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
);`, `
CREATE TABLE IF NOT EXISTS visits (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  shop_id TEXT NOT NULL,
  visited_at DATETIME NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  shop_id TEXT NOT NULL,
  coffee_rating INTEGER NOT NULL DEFAULT 0,
  food_rating INTEGER NOT NULL DEFAULT 0,
  place_rating INTEGER NOT NULL DEFAULT 0,
  price_rating INTEGER NOT NULL DEFAULT 0,
  overall_rating REAL NOT NULL DEFAULT 0,
  comment TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS review_tags (
  review_id TEXT NOT NULL,
  feature_id TEXT NOT NULL,
  PRIMARY KEY (review_id, feature_id)
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
	// Search scans the whole catalog, so clear rows left by earlier tests.
	for _, table := range []string{"shop_features", "features", "visits", "reviews", "shop_follows", "shops", "users"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func newDiscoveryService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	ratings, err := reviews.NewService(reviews.ServiceParams{ReviewRepo: reviews.NewRepository(db)})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		DiscoveryRepo: NewRepository(db),
		Ratings:       ratings,
	})
	require.NoError(t, err)
	return svc
}

func seedDiscoveryShop(t *testing.T, db *gorm.DB, name string) *models.Shop {
	t.Helper()

	shop := &models.Shop{ID: uuid.New(), Name: name, Latitude: 52.0, Longitude: 4.0}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

func seedViewer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		ID:          uuid.New(),
		DisplayName: "Viewer",
		CheckinCode: uuid.NewString()[:8],
		Role:        "customer",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func attachFeature(t *testing.T, db *gorm.DB, shopID uuid.UUID, feature *models.Feature) {
	t.Helper()
	require.NoError(t, db.Create(&models.ShopFeature{ShopID: shopID, FeatureID: feature.ID}).Error)
}

func TestSearchTextQuery(t *testing.T) {
	db := setupDiscoveryTestDB(t)
	svc := newDiscoveryService(t, db)

	seedDiscoveryShop(t, db, "Morning Grind")
	seedDiscoveryShop(t, db, "Night Owl Espresso")

	page, err := svc.Search(context.Background(), nil, Filter{TextQuery: "GRIND"})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Morning Grind", page.Results[0].Name)
	assert.False(t, page.HasMore)
}

func TestSearchFeatureANDSemantics(t *testing.T) {
	db := setupDiscoveryTestDB(t)
	svc := newDiscoveryService(t, db)

	wifi := &models.Feature{ID: uuid.New(), Name: "wifi"}
	parking := &models.Feature{ID: uuid.New(), Name: "parking"}
	require.NoError(t, db.Create(wifi).Error)
	require.NoError(t, db.Create(parking).Error)

	both := seedDiscoveryShop(t, db, "Full Service")
	wifiOnly := seedDiscoveryShop(t, db, "Laptop Cafe")
	attachFeature(t, db, both.ID, wifi)
	attachFeature(t, db, both.ID, parking)
	attachFeature(t, db, wifiOnly.ID, wifi)

	page, err := svc.Search(context.Background(), nil, Filter{
		FeatureIDs: []uuid.UUID{wifi.ID, parking.ID},
	})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, both.ID, page.Results[0].ID)

	single, err := svc.Search(context.Background(), nil, Filter{
		FeatureIDs: []uuid.UUID{wifi.ID},
	})
	require.NoError(t, err)
	assert.Len(t, single.Results, 2)
}

func TestSearchVisitedStates(t *testing.T) {
	db := setupDiscoveryTestDB(t)
	svc := newDiscoveryService(t, db)

	viewer := seedViewer(t, db)
	been := seedDiscoveryShop(t, db, "Been There")
	fresh := seedDiscoveryShop(t, db, "Not Yet")
	require.NoError(t, db.Create(&models.Visit{
		ID:        uuid.New(),
		UserID:    viewer.ID,
		ShopID:    been.ID,
		VisitedAt: time.Now().UTC(),
	}).Error)

	visited, err := svc.Search(context.Background(), &viewer.ID, Filter{Visited: VisitedOnly})
	require.NoError(t, err)
	require.Len(t, visited.Results, 1)
	assert.Equal(t, been.ID, visited.Results[0].ID)
	assert.True(t, visited.Results[0].Visited)

	missing, err := svc.Search(context.Background(), &viewer.ID, Filter{Visited: VisitedMissing})
	require.NoError(t, err)
	require.Len(t, missing.Results, 1)
	assert.Equal(t, fresh.ID, missing.Results[0].ID)
	assert.False(t, missing.Results[0].Visited)
}

func TestSearchAnonymousDegradesVisitedFilter(t *testing.T) {
	db := setupDiscoveryTestDB(t)
	svc := newDiscoveryService(t, db)

	seedDiscoveryShop(t, db, "Alpha")
	seedDiscoveryShop(t, db, "Beta")

	page, err := svc.Search(context.Background(), nil, Filter{Visited: VisitedOnly})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
	for _, result := range page.Results {
		assert.False(t, result.Visited)
		assert.False(t, result.Follows)
	}
}

func TestSearchAnnotations(t *testing.T) {
	db := setupDiscoveryTestDB(t)
	svc := newDiscoveryService(t, db)

	viewer := seedViewer(t, db)
	shop := seedDiscoveryShop(t, db, "Annotated")

	require.NoError(t, db.Create(&models.Review{
		ID:            uuid.New(),
		UserID:        viewer.ID,
		ShopID:        shop.ID,
		CoffeeRating:  4,
		OverallRating: 4.0,
	}).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO shop_follows (id, user_id, shop_id, created_at) VALUES (?, ?, ?, ?)",
		uuid.New(), viewer.ID, shop.ID, time.Now().UTC()).Error)

	page, err := svc.Search(context.Background(), &viewer.ID, Filter{})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	result := page.Results[0]
	assert.InDelta(t, 4.0, result.Rating.AvgCoffee, 0.0001)
	assert.Equal(t, int64(1), result.Rating.ReviewCount)
	assert.Equal(t, int64(1), result.FollowerCount)
	assert.True(t, result.Follows)
	assert.False(t, result.Visited)
}

func TestSearchPagination(t *testing.T) {
	db := setupDiscoveryTestDB(t)
	svc := newDiscoveryService(t, db)

	for _, name := range []string{"A Shop", "B Shop", "C Shop"} {
		seedDiscoveryShop(t, db, name)
	}

	first, err := svc.Search(context.Background(), nil, Filter{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Results, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, "A Shop", first.Results[0].Name)

	second, err := svc.Search(context.Background(), nil, Filter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, "C Shop", second.Results[0].Name)
}

func TestParseVisitedState(t *testing.T) {
	state, err := ParseVisitedState("")
	require.NoError(t, err)
	assert.Equal(t, VisitedAll, state)

	state, err = ParseVisitedState("missing")
	require.NoError(t, err)
	assert.Equal(t, VisitedMissing, state)

	_, err = ParseVisitedState("sometimes")
	require.Error(t, err)
}
