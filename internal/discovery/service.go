package discovery

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/pagination"
	"github.com/beanpass/beanpass-backend/pkg/types"
)

// RatingReader is the read-time aggregate surface discovery annotates with.
type RatingReader interface {
	AggregateForShop(ctx context.Context, shopID uuid.UUID) (types.RatingAggregate, error)
}

// ServiceParams groups dependencies for the discovery filter.
type ServiceParams struct {
	DiscoveryRepo *Repository
	Ratings       RatingReader
}

// Service exposes annotated shop search.
type Service interface {
	Search(ctx context.Context, viewerID *uuid.UUID, filter Filter) (PageDTO, error)
}

type service struct {
	repo    *Repository
	ratings RatingReader
}

// NewService builds the discovery filter service.
func NewService(params ServiceParams) (Service, error) {
	if params.DiscoveryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discovery repo is required")
	}
	if params.Ratings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating reader is required")
	}
	return &service{
		repo:    params.DiscoveryRepo,
		ratings: params.Ratings,
	}, nil
}

// Search runs the filtered shop query and annotates each hit with its rating
// aggregate, follower count and the viewer's visited/follows flags. Anonymous
// viewers get the full catalog: visited/missing narrowing silently widens to
// all, and both flags stay false.
func (s *service) Search(ctx context.Context, viewerID *uuid.UUID, filter Filter) (PageDTO, error) {
	filter.Limit = pagination.NormalizeLimit(filter.Limit)
	filter.Page = pagination.NormalizePage(filter.Page)
	if filter.Visited == "" {
		filter.Visited = VisitedAll
	}
	if viewerID == nil {
		filter.Visited = VisitedAll
	}

	shops, err := s.repo.Search(ctx, viewerID, filter)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching shops")
	}

	shopIDs := make([]uuid.UUID, 0, len(shops))
	for _, shop := range shops {
		shopIDs = append(shopIDs, shop.ID)
	}

	followerCounts, err := s.repo.FollowerCounts(ctx, shopIDs)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting shop followers")
	}

	visited := map[uuid.UUID]bool{}
	follows := map[uuid.UUID]bool{}
	if viewerID != nil {
		visited, err = s.repo.VisitedShopIDs(ctx, *viewerID, shopIDs)
		if err != nil {
			return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading visited shops")
		}
		follows, err = s.repo.FollowedShopIDs(ctx, *viewerID, shopIDs)
		if err != nil {
			return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading followed shops")
		}
	}

	results := make([]ResultDTO, 0, len(shops))
	for _, shop := range shops {
		rating, err := s.ratings.AggregateForShop(ctx, shop.ID)
		if err != nil {
			return PageDTO{}, err
		}
		results = append(results, ResultDTO{
			ID:            shop.ID,
			Name:          shop.Name,
			Latitude:      shop.Latitude,
			Longitude:     shop.Longitude,
			ImageURL:      shop.ImageURL,
			Rating:        rating,
			FollowerCount: followerCounts[shop.ID],
			Visited:       visited[shop.ID],
			Follows:       follows[shop.ID],
		})
	}

	return PageDTO{
		Results: results,
		Page:    filter.Page,
		Limit:   filter.Limit,
		HasMore: len(results) == filter.Limit,
	}, nil
}
