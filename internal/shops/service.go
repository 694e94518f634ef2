package shops

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/types"
)

// RatingReader is the read-time aggregate surface the detail view composes.
type RatingReader interface {
	AggregateForShop(ctx context.Context, shopID uuid.UUID) (types.RatingAggregate, error)
}

// FollowerCounter reports how many users follow a shop.
type FollowerCounter interface {
	CountShopFollowers(ctx context.Context, shopID uuid.UUID) (int64, error)
}

// ServiceParams groups dependencies for the shop read model.
type ServiceParams struct {
	ShopRepo  *Repository
	Ratings   RatingReader
	Followers FollowerCounter
}

// Service exposes the shop detail read model.
type Service interface {
	GetDetail(ctx context.Context, shopID uuid.UUID) (DetailDTO, error)
	GetSummary(ctx context.Context, shopID uuid.UUID) (Summary, error)
}

type service struct {
	repo      *Repository
	ratings   RatingReader
	followers FollowerCounter
}

// NewService builds the shop read-model service.
func NewService(params ServiceParams) (Service, error) {
	if params.ShopRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop repo is required")
	}
	if params.Ratings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating reader is required")
	}
	if params.Followers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "follower counter is required")
	}
	return &service{
		repo:      params.ShopRepo,
		ratings:   params.Ratings,
		followers: params.Followers,
	}, nil
}

// GetDetail composes the shop row with its hours, features, rating aggregate
// and follower count.
func (s *service) GetDetail(ctx context.Context, shopID uuid.UUID) (DetailDTO, error) {
	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DetailDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop")
	}

	hours, err := s.repo.Hours(ctx, shopID)
	if err != nil {
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop hours")
	}
	features, err := s.repo.Features(ctx, shopID)
	if err != nil {
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop features")
	}
	rating, err := s.ratings.AggregateForShop(ctx, shopID)
	if err != nil {
		return DetailDTO{}, err
	}
	followerCount, err := s.followers.CountShopFollowers(ctx, shopID)
	if err != nil {
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting shop followers")
	}

	return DetailDTO{
		ID:            shop.ID,
		Name:          shop.Name,
		Latitude:      shop.Latitude,
		Longitude:     shop.Longitude,
		Phone:         shop.Phone,
		Email:         shop.Email,
		Website:       shop.Website,
		ImageURL:      shop.ImageURL,
		Hours:         hours,
		Features:      features,
		Rating:        rating,
		FollowerCount: followerCount,
		CreatedAt:     shop.CreatedAt,
	}, nil
}

// GetSummary returns the lightweight projection used in embedded payloads.
func (s *service) GetSummary(ctx context.Context, shopID uuid.UUID) (Summary, error) {
	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Summary{}, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop")
	}
	return Summary{
		ID:       shop.ID,
		Name:     shop.Name,
		ImageURL: shop.ImageURL,
	}, nil
}
