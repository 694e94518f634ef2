package reviews

import (
	"context"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/pkg/db/models"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/types"
)

// StatsInvalidator drops a user's cached derived stats after a write.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, userID uuid.UUID)
}

// ServiceParams groups dependencies for the rating aggregator.
type ServiceParams struct {
	ReviewRepo *Repository
	Stats      StatsInvalidator
}

// Service exposes review submission and read-time rating aggregation.
type Service interface {
	SubmitReview(ctx context.Context, params SubmitParams) (*models.Review, error)
	AggregateForShop(ctx context.Context, shopID uuid.UUID) (types.RatingAggregate, error)
	ListReviews(ctx context.Context, shopID uuid.UUID, cursor string, limit int) (ReviewsPageDTO, error)
}

type service struct {
	repo  *Repository
	stats StatsInvalidator
}

// NewService builds the rating aggregator service.
func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	return &service{
		repo:  params.ReviewRepo,
		stats: params.Stats,
	}, nil
}

// SubmitReview validates the scores, fixes the overall rating and appends the
// review. Duplicate reviews per (user, shop) are allowed; each row is an
// independent data point in the aggregate.
func (s *service) SubmitReview(ctx context.Context, params SubmitParams) (*models.Review, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "review submission requires an identity")
	}
	if params.ShopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	if err := validateScores(params.Scores); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:        params.UserID,
		ShopID:        params.ShopID,
		CoffeeRating:  params.Scores.Coffee,
		FoodRating:    params.Scores.Food,
		PlaceRating:   params.Scores.Place,
		PriceRating:   params.Scores.Price,
		OverallRating: overallOf(params.Scores),
		Comment:       params.Comment,
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}

	if err := s.repo.Insert(ctx, review, params.TagIDs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert review")
	}

	if s.stats != nil {
		s.stats.InvalidateStats(ctx, params.UserID)
	}

	return review, nil
}

// AggregateForShop returns the read-time rating aggregate for a shop.
func (s *service) AggregateForShop(ctx context.Context, shopID uuid.UUID) (types.RatingAggregate, error) {
	if shopID == uuid.Nil {
		return types.RatingAggregate{}, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	aggregate, err := s.repo.AggregateForShop(ctx, shopID)
	if err != nil {
		return types.RatingAggregate{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate reviews")
	}
	return aggregate, nil
}

// ListReviews returns the shop's reviews newest-first.
func (s *service) ListReviews(ctx context.Context, shopID uuid.UUID, cursor string, limit int) (ReviewsPageDTO, error) {
	if shopID == uuid.Nil {
		return ReviewsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	page, err := s.repo.ListForShop(ctx, shopID, cursor, limit)
	if err != nil {
		return ReviewsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return page, nil
}

func validateScores(scores CategoryScores) error {
	fields := map[string]int{
		"coffee": scores.Coffee,
		"food":   scores.Food,
		"place":  scores.Place,
		"price":  scores.Price,
	}
	anyRated := false
	for name, score := range fields {
		if score < 0 || score > 5 {
			return pkgerrors.New(pkgerrors.CodeValidation, "category score out of range").
				WithDetails(map[string]any{"field": name, "min": 0, "max": 5})
		}
		if score > 0 {
			anyRated = true
		}
	}
	if !anyRated {
		return pkgerrors.New(pkgerrors.CodeEmptyRating, "at least one category must be rated")
	}
	return nil
}
