package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/logger"
	"github.com/beanpass/beanpass-backend/pkg/redis"

	"github.com/beanpass/beanpass-backend/internal/follows"
)

// VisitCounter tallies a user's check-ins.
type VisitCounter interface {
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ReviewCounter tallies a user's submitted reviews.
type ReviewCounter interface {
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// EdgeCounter tallies a user's follow-graph edges.
type EdgeCounter interface {
	Counts(ctx context.Context, userID uuid.UUID) (follows.CountsDTO, error)
}

// ServiceParams groups dependencies for the user read model.
type ServiceParams struct {
	UserRepo     *Repository
	Visits       VisitCounter
	Reviews      ReviewCounter
	Edges        EdgeCounter
	Cache        redis.Cache
	UserStatsTTL time.Duration
	Logger       *logger.Logger
}

// Service exposes profile and derived-stats reads. Stats are cached under
// bp:user_stats:<id> and dropped eagerly whenever a write touches one of the
// counted tables, so reads after a write see fresh numbers.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error)
	GetStats(ctx context.Context, userID uuid.UUID) (StatsDTO, error)
	InvalidateStats(ctx context.Context, userID uuid.UUID)
}

type service struct {
	repo    *Repository
	visits  VisitCounter
	reviews ReviewCounter
	edges   EdgeCounter
	cache   redis.Cache
	ttl     time.Duration
	logger  *logger.Logger
}

// NewService builds the user read-model service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Visits == nil || params.Reviews == nil || params.Edges == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stat counters are required")
	}
	ttl := params.UserStatsTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &service{
		repo:    params.UserRepo,
		visits:  params.Visits,
		reviews: params.Reviews,
		edges:   params.Edges,
		cache:   params.Cache,
		ttl:     ttl,
		logger:  params.Logger,
	}, nil
}

// GetProfile loads the user row and attaches the derived stats.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	stats, err := s.GetStats(ctx, userID)
	if err != nil {
		return ProfileDTO{}, err
	}

	return ProfileDTO{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		ImageURL:    user.ImageURL,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
		Stats:       stats,
	}, nil
}

// GetStats returns the five activity counters, from cache when present.
func (s *service) GetStats(ctx context.Context, userID uuid.UUID) (StatsDTO, error) {
	if cached, ok := s.fromCache(ctx, userID); ok {
		return cached, nil
	}

	visitCount, err := s.visits.CountForUser(ctx, userID)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting visits")
	}
	reviewCount, err := s.reviews.CountForUser(ctx, userID)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting reviews")
	}
	edgeCounts, err := s.edges.Counts(ctx, userID)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting follow edges")
	}

	stats := StatsDTO{
		VisitCount:    visitCount,
		ReviewCount:   reviewCount,
		Followers:     edgeCounts.Followers,
		Following:     edgeCounts.Following,
		FollowedShops: edgeCounts.FollowedShops,
	}
	s.toCache(ctx, userID, stats)
	return stats, nil
}

// InvalidateStats drops the cached stats entry. Failures are logged and
// swallowed; the TTL bounds how long a stale entry can survive.
func (s *service) InvalidateStats(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.UserStatsKey(userID.String())); err != nil && s.logger != nil {
		s.logger.Warn(ctx, fmt.Sprintf("user stats invalidation failed: %v", err))
	}
}

func (s *service) fromCache(ctx context.Context, userID uuid.UUID) (StatsDTO, bool) {
	if s.cache == nil {
		return StatsDTO{}, false
	}
	raw, err := s.cache.Get(ctx, s.cache.UserStatsKey(userID.String()))
	if err != nil {
		if err != redis.Nil && s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("user stats cache read failed: %v", err))
		}
		return StatsDTO{}, false
	}
	var stats StatsDTO
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return StatsDTO{}, false
	}
	return stats, true
}

func (s *service) toCache(ctx context.Context, userID uuid.UUID, stats StatsDTO) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.UserStatsKey(userID.String()), string(payload), s.ttl); err != nil && s.logger != nil {
		s.logger.Warn(ctx, fmt.Sprintf("user stats cache write failed: %v", err))
	}
}
