package rankings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/logger"
	"github.com/beanpass/beanpass-backend/pkg/pagination"
	"github.com/beanpass/beanpass-backend/pkg/redis"
)

// scopeAll is the cache scope for boards that are not shop-scoped.
const scopeAll = "all"

// ServiceParams groups dependencies for the ranking engine.
type ServiceParams struct {
	RankingRepo    *Repository
	Cache          redis.Cache
	LeaderboardTTL time.Duration
	Logger         *logger.Logger
}

// Service computes point-in-time leaderboard snapshots. Snapshots are cached
// whole under bp:leaderboard:<kind>:<scope>:<limit> and never invalidated
// eagerly; staleness up to the TTL is acceptable.
type Service interface {
	Leaderboard(ctx context.Context, kind Kind, shopID *uuid.UUID, limit int) ([]Entry, error)
	Summary(ctx context.Context) (SummaryDTO, error)
}

type service struct {
	repo   *Repository
	cache  redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewService builds the ranking engine service.
func NewService(params ServiceParams) (Service, error) {
	if params.RankingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ranking repo is required")
	}
	ttl := params.LeaderboardTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &service{
		repo:   params.RankingRepo,
		cache:  params.Cache,
		ttl:    ttl,
		logger: params.Logger,
	}, nil
}

// Leaderboard returns the ranked users for one dimension. Shop scoping is
// only meaningful for visit counts; other kinds ignore it.
func (s *service) Leaderboard(ctx context.Context, kind Kind, shopID *uuid.UUID, limit int) ([]Entry, error) {
	limit = pagination.NormalizeLimit(limit)

	scope := scopeAll
	if kind == KindVisits && shopID != nil {
		scope = shopID.String()
	}

	if cached, ok := s.fromCache(ctx, kind, scope, limit); ok {
		return cached, nil
	}

	var (
		entries []Entry
		err     error
	)
	switch kind {
	case KindVisits:
		if scope == scopeAll {
			entries, err = s.repo.VisitLeaderboard(ctx, nil, limit)
		} else {
			entries, err = s.repo.VisitLeaderboard(ctx, shopID, limit)
		}
	case KindReviews:
		entries, err = s.repo.ReviewLeaderboard(ctx, limit)
	case KindFollowers:
		entries, err = s.repo.FollowerLeaderboard(ctx, limit)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown leaderboard kind")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing leaderboard")
	}

	s.toCache(ctx, kind, scope, limit, entries)
	return entries, nil
}

// Summary returns the three discovery-page teaser boards.
func (s *service) Summary(ctx context.Context) (SummaryDTO, error) {
	reviewers, err := s.Leaderboard(ctx, KindReviews, nil, DefaultSummaryLimit)
	if err != nil {
		return SummaryDTO{}, err
	}
	explorers, err := s.Leaderboard(ctx, KindVisits, nil, DefaultSummaryLimit)
	if err != nil {
		return SummaryDTO{}, err
	}
	followed, err := s.Leaderboard(ctx, KindFollowers, nil, DefaultSummaryLimit)
	if err != nil {
		return SummaryDTO{}, err
	}
	return SummaryDTO{
		TopReviewers: reviewers,
		TopExplorers: explorers,
		TopFollowed:  followed,
	}, nil
}

func (s *service) fromCache(ctx context.Context, kind Kind, scope string, limit int) ([]Entry, bool) {
	if s.cache == nil {
		return nil, false
	}
	key := s.cache.LeaderboardKey(string(kind), scope, limit)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != redis.Nil && s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("leaderboard cache read failed: %v", err))
		}
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("leaderboard cache entry corrupt, recomputing: %v", err))
		}
		return nil, false
	}
	return entries, true
}

func (s *service) toCache(ctx context.Context, kind Kind, scope string, limit int, entries []Entry) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	key := s.cache.LeaderboardKey(string(kind), scope, limit)
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil && s.logger != nil {
		s.logger.Warn(ctx, fmt.Sprintf("leaderboard cache write failed: %v", err))
	}
}
