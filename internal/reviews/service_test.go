package reviews

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
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
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
CREATE TABLE IF NOT EXISTS features (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  icon TEXT,
  color TEXT
);`}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type noopInvalidator struct {
	calls int
}

func (n *noopInvalidator) InvalidateStats(context.Context, uuid.UUID) { n.calls++ }

func newReviewsService(t *testing.T, db *gorm.DB, stats StatsInvalidator) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{ReviewRepo: NewRepository(db), Stats: stats})
	require.NoError(t, err)
	return svc
}

func seedReviewer(t *testing.T, db *gorm.DB, name string) *models.User {
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

func TestOverallOf(t *testing.T) {
	cases := []struct {
		name   string
		scores CategoryScores
		want   float64
	}{
		{"all categories", CategoryScores{Coffee: 4, Food: 4, Place: 4, Price: 4}, 4.0},
		{"partial categories ignore zeros", CategoryScores{Coffee: 4, Food: 2}, 3.0},
		{"single category", CategoryScores{Place: 5}, 5.0},
		{"quarter rounds half up", CategoryScores{Coffee: 4, Food: 5, Place: 5, Price: 5}, 4.8},
		{"third rounds to one decimal", CategoryScores{Coffee: 5, Food: 4, Place: 4}, 4.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, overallOf(tc.scores), 0.0001)
		})
	}
}

func TestSubmitReview(t *testing.T) {
	db := setupReviewsTestDB(t)
	stats := &noopInvalidator{}
	svc := newReviewsService(t, db, stats)

	user := seedReviewer(t, db, "Rater")
	shopID := uuid.New()

	review, err := svc.SubmitReview(context.Background(), SubmitParams{
		UserID:  user.ID,
		ShopID:  shopID,
		Scores:  CategoryScores{Coffee: 4, Food: 2},
		Comment: "solid espresso",
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, review.OverallRating, 0.0001)
	assert.Equal(t, 1, stats.calls)
}

func TestSubmitReviewValidation(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db, nil)

	user := seedReviewer(t, db, "Strict")
	shopID := uuid.New()

	t.Run("all zero scores rejected", func(t *testing.T) {
		_, err := svc.SubmitReview(context.Background(), SubmitParams{
			UserID: user.ID,
			ShopID: shopID,
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyRating))
	})

	t.Run("out of range score rejected", func(t *testing.T) {
		_, err := svc.SubmitReview(context.Background(), SubmitParams{
			UserID: user.ID,
			ShopID: shopID,
			Scores: CategoryScores{Coffee: 6},
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		_, err := svc.SubmitReview(context.Background(), SubmitParams{
			ShopID: shopID,
			Scores: CategoryScores{Coffee: 4},
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
	})
}

func TestAggregateForShop(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db, nil)

	alice := seedReviewer(t, db, "Alice")
	bob := seedReviewer(t, db, "Bob")
	shopID := uuid.New()

	t.Run("no reviews yields zeros", func(t *testing.T) {
		agg, err := svc.AggregateForShop(context.Background(), shopID)
		require.NoError(t, err)
		assert.Zero(t, agg.AvgOverall)
		assert.Zero(t, agg.ReviewCount)
	})

	_, err := svc.SubmitReview(context.Background(), SubmitParams{
		UserID: alice.ID,
		ShopID: shopID,
		Scores: CategoryScores{Coffee: 4},
	})
	require.NoError(t, err)

	t.Run("first review sets the aggregate", func(t *testing.T) {
		agg, err := svc.AggregateForShop(context.Background(), shopID)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, agg.AvgCoffee, 0.0001)
		assert.InDelta(t, 4.0, agg.AvgOverall, 0.0001)
		assert.Zero(t, agg.AvgFood)
		assert.Equal(t, int64(1), agg.ReviewCount)
	})

	_, err = svc.SubmitReview(context.Background(), SubmitParams{
		UserID: bob.ID,
		ShopID: shopID,
		Scores: CategoryScores{Coffee: 2, Food: 5},
	})
	require.NoError(t, err)

	t.Run("unrated categories stay out of the mean", func(t *testing.T) {
		agg, err := svc.AggregateForShop(context.Background(), shopID)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, agg.AvgCoffee, 0.0001)
		assert.InDelta(t, 5.0, agg.AvgFood, 0.0001)
		assert.Equal(t, int64(2), agg.ReviewCount)
	})
}

func TestListReviews(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db, nil)

	user := seedReviewer(t, db, "Chronicler")
	shopID := uuid.New()

	tag := &models.Feature{ID: uuid.New(), Name: "wifi"}
	require.NoError(t, db.Create(tag).Error)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		review := &models.Review{
			ID:            uuid.New(),
			UserID:        user.ID,
			ShopID:        shopID,
			CoffeeRating:  4,
			OverallRating: 4.0,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		tagIDs := []uuid.UUID{}
		if i == 3 {
			tagIDs = append(tagIDs, tag.ID)
		}
		require.NoError(t, NewRepository(db).Insert(context.Background(), review, tagIDs))
	}

	page, err := svc.ListReviews(context.Background(), shopID, "", 3)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.NotEmpty(t, page.Cursor)
	assert.Equal(t, "Chronicler", page.Items[0].UserName)
	require.Len(t, page.Items[0].Tags, 1)
	assert.Equal(t, "wifi", page.Items[0].Tags[0].Name)

	rest, err := svc.ListReviews(context.Background(), shopID, page.Cursor, 3)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.Cursor)
}
